package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

func newStorage(t *testing.T) *MemoryStorage {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	usr := &user.User{
		ID:           "userRandomID",
		Email:        "user@example.com",
		PasswordHash: "$2a$10$fakehash",
	}
	require.NoError(t, s.CreateUser(ctx, usr))

	found, ok, err := s.FindUserByID(ctx, "userRandomID")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", found.Email)

	found, ok, err = s.FindUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "userRandomID", found.ID)

	// misses are a not-found signal, never an error
	_, ok, err = s.FindUserByID(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.FindUserByID(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.FindUserByEmail(ctx, "bilL@lighthouselabs.ca")
	require.NoError(t, err)
	assert.False(t, ok)

	// email matching is case-sensitive
	_, ok, err = s.FindUserByEmail(ctx, "User@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestURLRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	require.NoError(t, s.InsertURL(ctx, "b2xVn2", models.URLRecord{
		LongURL: "http://www.lighthouselabs.ca",
		OwnerID: "owner-1",
	}))

	record, found, err := s.FindURLByShort(ctx, "b2xVn2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "http://www.lighthouselabs.ca", record.LongURL)

	require.NoError(t, s.UpdateURL(ctx, "b2xVn2", "http://www.google.com"))

	record, found, err = s.FindURLByShort(ctx, "b2xVn2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "http://www.google.com", record.LongURL)
	assert.Equal(t, "owner-1", record.OwnerID, "update must not reassign the owner")

	require.NoError(t, s.DeleteURL(ctx, "b2xVn2"))

	_, found, err = s.FindURLByShort(ctx, "b2xVn2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInsertURLRefusesExistingKey(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	require.NoError(t, s.InsertURL(ctx, "9sm5xK", models.URLRecord{LongURL: "http://www.google.com"}))

	err := s.InsertURL(ctx, "9sm5xK", models.URLRecord{LongURL: "http://example.com"})
	assert.ErrorIs(t, err, models.ErrShortKeyExists)

	record, _, err := s.FindURLByShort(ctx, "9sm5xK")
	require.NoError(t, err)
	assert.Equal(t, "http://www.google.com", record.LongURL)
}

func TestUpdateAndDeleteMissingKey(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	assert.ErrorIs(t, s.UpdateURL(ctx, "absent", "http://example.com"), models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteURL(ctx, "absent"), models.ErrNotFound)
}

func TestGetUserURLsFiltersByOwner(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	require.NoError(t, s.InsertURL(ctx, "aaaaaa", models.URLRecord{LongURL: "http://a.example.com", OwnerID: "A"}))
	require.NoError(t, s.InsertURL(ctx, "bbbbbb", models.URLRecord{LongURL: "http://b.example.com", OwnerID: "B"}))
	require.NoError(t, s.InsertURL(ctx, "cccccc", models.URLRecord{LongURL: "http://c.example.com", OwnerID: "A"}))

	snapshot, err := s.GetUserURLs(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, "aaaaaa")
	assert.Contains(t, snapshot, "cccccc")
	for _, record := range snapshot {
		assert.Equal(t, "A", record.OwnerID)
	}
}

func TestGetUserURLsSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	require.NoError(t, s.InsertURL(ctx, "aaaaaa", models.URLRecord{LongURL: "http://a.example.com", OwnerID: "A"}))

	snapshot, err := s.GetUserURLs(ctx, "A")
	require.NoError(t, err)

	// directory mutation must not leak into a previously taken snapshot
	require.NoError(t, s.UpdateURL(ctx, "aaaaaa", "http://changed.example.com"))
	require.NoError(t, s.InsertURL(ctx, "dddddd", models.URLRecord{LongURL: "http://d.example.com", OwnerID: "A"}))
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "http://a.example.com", snapshot["aaaaaa"].LongURL)

	// snapshot mutation must not leak into the directory
	snapshot["aaaaaa"] = models.URLRecord{LongURL: "http://tampered.example.com", OwnerID: "A"}
	delete(snapshot, "dddddd")

	record, found, err := s.FindURLByShort(ctx, "aaaaaa")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "http://changed.example.com", record.LongURL)

	_, found, err = s.FindURLByShort(ctx, "dddddd")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	urls, err := s.GetNumberOfShortenedURLs(ctx)
	require.NoError(t, err)
	assert.Zero(t, urls)

	require.NoError(t, s.InsertURL(ctx, "aaaaaa", models.URLRecord{LongURL: "http://a.example.com"}))
	require.NoError(t, s.CreateUser(ctx, &user.User{ID: "u1"}))
	require.NoError(t, s.CreateUser(ctx, &user.User{ID: "u2"}))

	urls, err = s.GetNumberOfShortenedURLs(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, urls)

	users, err := s.GetNumberOfUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, users)
}
