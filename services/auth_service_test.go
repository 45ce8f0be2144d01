package services

import (
	"context"
	"testing"

	"github.com/Dosada05/pickleball-ladder/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func useFastBcrypt(t *testing.T) {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { utils.BcryptCost = bcrypt.DefaultCost })
}

func TestAuthRegisterAndLogin(t *testing.T) {
	useFastBcrypt(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newFakeUploader())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:           "  Robin ",
		Email:          "Robin@Example.com",
		Password:       "pickle1",
		Location:       "Boise",
		Rating:         "3.0",
		PlayPreference: "doubles",
	})
	require.NoError(t, err)
	assert.Equal(t, "Robin", user.Name)
	assert.Equal(t, "robin@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, repo.users[user.ID].PasswordHash)

	got, err := svc.Login(ctx, LoginInput{Email: "robin@example.com", Password: "pickle1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestAuthRegisterValidation(t *testing.T) {
	useFastBcrypt(t)
	svc := NewAuthService(newFakeUserRepo(), newFakeUploader())
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{name: "missing name", input: RegisterInput{Email: "a@b.co", Password: "secret"}, wantErr: ErrNameRequired},
		{name: "bad email", input: RegisterInput{Name: "A", Email: "nope", Password: "secret"}, wantErr: ErrInvalidEmail},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@b.co", Password: "12345"}, wantErr: ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	useFastBcrypt(t)
	svc := NewAuthService(newFakeUserRepo(), newFakeUploader())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@B.co", Password: "secret"})
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestAuthLoginFailures(t *testing.T) {
	useFastBcrypt(t)
	svc := NewAuthService(newFakeUserRepo(), newFakeUploader())
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "wrong1"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "who@b.co", Password: "secret"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
