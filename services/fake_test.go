package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/repositories"
	"github.com/Dosada05/pickleball-ladder/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]models.User
	getErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
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

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
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

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

type fakeSetupRepo struct {
	mu      sync.Mutex
	setups  map[int]models.MatchSetup
	saveErr error
}

func newFakeSetupRepo() *fakeSetupRepo {
	return &fakeSetupRepo{setups: map[int]models.MatchSetup{}}
}

func (r *fakeSetupRepo) Save(ctx context.Context, setup *models.MatchSetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *setup
	cp.PlayerNames = append([]string(nil), setup.PlayerNames...)
	r.setups[setup.UserID] = cp
	return nil
}

func (r *fakeSetupRepo) GetByUserID(ctx context.Context, userID int) (*models.MatchSetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.setups[userID]
	if !ok {
		return nil, repositories.ErrMatchSetupNotFound
	}
	return &s, nil
}

func (r *fakeSetupRepo) Delete(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.setups[userID]; !ok {
		return repositories.ErrMatchSetupNotFound
	}
	delete(r.setups, userID)
	return nil
}

type fakeUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

var _ storage.FileUploader = (*fakeUploader)(nil)

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (u *fakeUploader) keys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	keys := make([]string, 0, len(u.objects))
	for k := range u.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type recordedMessage struct {
	room string
	msg  ladder.WebSocketMessage
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, recordedMessage{room: roomID, msg: message.(ladder.WebSocketMessage)})
}

func (b *fakeBroadcaster) last() recordedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[len(b.messages)-1]
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}
