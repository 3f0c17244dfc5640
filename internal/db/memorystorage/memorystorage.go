// Package memorystorage is the in-memory storage backend. All state is
// transient and lost on process restart.
//
// The maps are guarded by a read-write mutex because net/http serves
// requests concurrently; individual operations are atomic, there is no
// cross-request transactional isolation.
package memorystorage

import (
	"context"
	"sync"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

// MemoryStorage keeps the user directory and the URL directory in
// process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	urls  map[string]models.URLRecord
	users map[string]user.User
}

// New returns an empty MemoryStorage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		urls:  map[string]models.URLRecord{},
		users: map[string]user.User{},
	}, nil
}

// CreateUser inserts a new user record keyed by its ID.
func (s *MemoryStorage) CreateUser(ctx context.Context, usr *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[usr.ID] = *usr

	return nil
}

// FindUserByID returns the user with the given id, or found=false when
// the id is absent or empty.
func (s *MemoryStorage) FindUserByID(ctx context.Context, id string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, found := s.users[id]
	if !found {
		return nil, false, nil
	}

	return &usr, true, nil
}

// FindUserByEmail scans the directory for an exact, case-sensitive email
// match and returns the first hit.
func (s *MemoryStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, usr := range s.users {
		if usr.Email == email {
			found := usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// InsertURL stores a record under shortKey, refusing to overwrite an
// existing one.
func (s *MemoryStorage) InsertURL(ctx context.Context, shortKey string, record models.URLRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.urls[shortKey]; exists {
		return models.ErrShortKeyExists
	}
	s.urls[shortKey] = record

	return nil
}

// FindURLByShort returns the record stored under shortKey.
func (s *MemoryStorage) FindURLByShort(ctx context.Context, shortKey string) (models.URLRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, found := s.urls[shortKey]

	return record, found, nil
}

// UpdateURL replaces the destination of an existing record. The owner is
// never reassigned.
func (s *MemoryStorage) UpdateURL(ctx context.Context, shortKey, newLongURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.urls[shortKey]
	if !found {
		return models.ErrNotFound
	}
	record.LongURL = newLongURL
	s.urls[shortKey] = record

	return nil
}

// DeleteURL removes the record stored under shortKey.
func (s *MemoryStorage) DeleteURL(ctx context.Context, shortKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.urls[shortKey]; !found {
		return models.ErrNotFound
	}
	delete(s.urls, shortKey)

	return nil
}

// IsShortKeyExists reports whether shortKey is already taken.
func (s *MemoryStorage) IsShortKeyExists(ctx context.Context, shortKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.urls[shortKey]

	return exists, nil
}

// GetUserURLs returns a copy of the records owned by ownerID. Later
// mutation of the directory does not change a returned snapshot.
func (s *MemoryStorage) GetUserURLs(ctx context.Context, ownerID string) (map[string]models.URLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := map[string]models.URLRecord{}
	for shortKey, record := range s.urls {
		if record.OwnerID == ownerID {
			snapshot[shortKey] = record
		}
	}

	return snapshot, nil
}

// GetNumberOfShortenedURLs returns the total number of stored URL records.
func (s *MemoryStorage) GetNumberOfShortenedURLs(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.urls)), nil
}

// GetNumberOfUsers returns the total number of registered users.
func (s *MemoryStorage) GetNumberOfUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.users)), nil
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
