package models

import "time"

type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Location       string    `json:"location"`
	Rating         string    `json:"rating"`
	PlayPreference string    `json:"play_preference"`
	ImageKey       *string   `json:"-"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
