// Package mockstorage provides a testify-based mock of the storage
// contract, used to unit test the service and the HTTP handlers without
// a real directory behind them.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

// StorageMock implements storage.Storage on top of testify's mock.
type StorageMock struct {
	mock.Mock

	// OnGetNumberOfUsers optionally overrides GetNumberOfUsers without
	// registering a testify expectation.
	OnGetNumberOfUsers func(ctx context.Context) (int64, error)

	// OnGetNumberOfShortenedURLs optionally overrides
	// GetNumberOfShortenedURLs without registering a testify expectation.
	OnGetNumberOfShortenedURLs func(ctx context.Context) (int64, error)
}

// CreateUser mocks user creation.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// FindUserByID mocks the id lookup.
func (m *StorageMock) FindUserByID(ctx context.Context, id string) (*user.User, bool, error) {
	args := m.Called(ctx, id)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// FindUserByEmail mocks the email lookup.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertURL mocks inserting a URL record.
func (m *StorageMock) InsertURL(ctx context.Context, shortKey string, record models.URLRecord) error {
	args := m.Called(ctx, shortKey, record)
	return args.Error(0)
}

// FindURLByShort mocks the public resolve lookup.
func (m *StorageMock) FindURLByShort(ctx context.Context, shortKey string) (models.URLRecord, bool, error) {
	args := m.Called(ctx, shortKey)
	record, _ := args.Get(0).(models.URLRecord)
	return record, args.Bool(1), args.Error(2)
}

// UpdateURL mocks replacing a record's destination.
func (m *StorageMock) UpdateURL(ctx context.Context, shortKey, newLongURL string) error {
	args := m.Called(ctx, shortKey, newLongURL)
	return args.Error(0)
}

// DeleteURL mocks record removal.
func (m *StorageMock) DeleteURL(ctx context.Context, shortKey string) error {
	args := m.Called(ctx, shortKey)
	return args.Error(0)
}

// IsShortKeyExists mocks the uniqueness probe used by key minting.
func (m *StorageMock) IsShortKeyExists(ctx context.Context, shortKey string) (bool, error) {
	args := m.Called(ctx, shortKey)
	return args.Bool(0), args.Error(1)
}

// GetUserURLs mocks the per-owner snapshot.
func (m *StorageMock) GetUserURLs(ctx context.Context, ownerID string) (map[string]models.URLRecord, error) {
	args := m.Called(ctx, ownerID)
	snapshot, _ := args.Get(0).(map[string]models.URLRecord)
	return snapshot, args.Error(1)
}

// GetNumberOfShortenedURLs returns the configured override or zero.
func (m *StorageMock) GetNumberOfShortenedURLs(ctx context.Context) (int64, error) {
	if m.OnGetNumberOfShortenedURLs != nil {
		return m.OnGetNumberOfShortenedURLs(ctx)
	}
	return 0, nil
}

// GetNumberOfUsers returns the configured override or zero.
func (m *StorageMock) GetNumberOfUsers(ctx context.Context) (int64, error) {
	if m.OnGetNumberOfUsers != nil {
		return m.OnGetNumberOfUsers(ctx)
	}
	return 0, nil
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
