package handlers

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/repositories"
	"github.com/Dosada05/pickleball-ladder/storage"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Unix(1700000000, 0).UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type memSetupRepo struct {
	mu     sync.Mutex
	setups map[int]models.MatchSetup
}

func newMemSetupRepo() *memSetupRepo {
	return &memSetupRepo{setups: map[int]models.MatchSetup{}}
}

func (r *memSetupRepo) Save(ctx context.Context, setup *models.MatchSetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *setup
	cp.PlayerNames = append([]string(nil), setup.PlayerNames...)
	r.setups[setup.UserID] = cp
	return nil
}

func (r *memSetupRepo) GetByUserID(ctx context.Context, userID int) (*models.MatchSetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.setups[userID]
	if !ok {
		return nil, repositories.ErrMatchSetupNotFound
	}
	return &s, nil
}

func (r *memSetupRepo) Delete(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.setups, userID)
	return nil
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ storage.FileUploader = (*memUploader)(nil)

func newMemUploader() *memUploader {
	return &memUploader{objects: map[string][]byte{}}
}

func (u *memUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

var errDatabaseDown = errors.New("connection refused")

type recordingSender struct {
	mu sync.Mutex
	to [][]string
}

func (s *recordingSender) SendEmail(ctx context.Context, to []string, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, to)
	return nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, to := range s.to {
		out = append(out, to...)
	}
	return out
}
