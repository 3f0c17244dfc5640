// Package service implements the application operations: registration,
// login, URL shortening and ownership-guarded URL management. Handlers
// translate its errors to HTTP statuses; it never touches the transport.
package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/thoas/go-funk"

	"github.com/avoronov/tinyapp/internal/authz"
	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/randkey"
	"github.com/avoronov/tinyapp/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User) error
	FindUserByID(ctx context.Context, id string) (*user.User, bool, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

type urlsKeeper interface {
	InsertURL(ctx context.Context, shortKey string, record models.URLRecord) error
	FindURLByShort(ctx context.Context, shortKey string) (models.URLRecord, bool, error)
	UpdateURL(ctx context.Context, shortKey, newLongURL string) error
	DeleteURL(ctx context.Context, shortKey string) error
	IsShortKeyExists(ctx context.Context, shortKey string) (bool, error)
	GetUserURLs(ctx context.Context, ownerID string) (map[string]models.URLRecord, error)
}

type statsKeeper interface {
	GetNumberOfShortenedURLs(ctx context.Context) (int64, error)
	GetNumberOfUsers(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	urlsKeeper
	statsKeeper
	pinger
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// triesToGenerateUniqueKey bounds the retry-until-unique loop of key
// minting; generation itself does not guarantee uniqueness.
const triesToGenerateUniqueKey = 10

var urlPattern = regexp.MustCompile(`\bhttps?://\S+\b`)

// Service holds the directories, the password hasher and the short URL
// formatting settings.
type Service struct {
	db           storage
	hasher       passwordHasher
	shortURLBase string
	keyLength    int
}

// New creates a Service. keyLength is the length of minted short keys
// and user IDs.
func New(db storage, hasher passwordHasher, shortURLBase string, keyLength int) *Service {
	return &Service{
		db:           db,
		hasher:       hasher,
		shortURLBase: shortURLBase,
		keyLength:    keyLength,
	}
}

// RegisterUser creates a new user with a hashed password and a freshly
// minted ID. Empty email or password fails with ErrInvalidInput, an
// already registered email with ErrEmailTaken.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, models.ErrInvalidInput
	}

	_, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, models.ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	id, err := s.newUserID(ctx)
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.CreateUser(ctx, usr); err != nil {
		return nil, err
	}

	return usr, nil
}

// Login checks the credentials against the user directory. An unknown
// email and a failed password check are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, error) {
	usr, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrUnauthenticated
	}
	if !s.hasher.Verify(password, usr.PasswordHash) {
		return nil, models.ErrUnauthenticated
	}

	return usr, nil
}

// ShortenURL mints a short key for urlToShort and stores the record
// under ownerID. The owner is fixed at creation.
func (s *Service) ShortenURL(ctx context.Context, urlToShort, ownerID string) (string, error) {
	if ownerID == "" {
		return "", models.ErrUnauthenticated
	}

	longURL, err := s.ExtractFirstURL(urlToShort)
	if err != nil {
		return "", err
	}

	shortKey, err := s.newShortKey(ctx)
	if err != nil {
		return "", err
	}

	err = s.db.InsertURL(ctx, shortKey, models.URLRecord{
		LongURL: longURL,
		OwnerID: ownerID,
	})
	if err != nil {
		return "", err
	}

	return s.GetShortURL(shortKey), nil
}

// GetUserURLs returns the requester's URLs as formatted listing entries.
func (s *Service) GetUserURLs(ctx context.Context, userID string) (models.UserUrls, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	snapshot, err := s.db.GetUserURLs(ctx, userID)
	if err != nil {
		return nil, err
	}

	urls := funk.Map(snapshot, func(shortKey string, record models.URLRecord) models.UserURL {
		return models.UserURL{
			ShortURL:    s.GetShortURL(shortKey),
			OriginalURL: record.LongURL,
		}
	}).([]models.UserURL)

	return urls, nil
}

// GetURLForUser returns the details of one URL record, subject to the
// ownership policy.
func (s *Service) GetURLForUser(ctx context.Context, shortKey, userID string) (models.UserURL, error) {
	record, err := s.authorize(ctx, authz.ActionView, shortKey, userID)
	if err != nil {
		return models.UserURL{}, err
	}

	return models.UserURL{
		ShortURL:    s.GetShortURL(shortKey),
		OriginalURL: record.LongURL,
	}, nil
}

// UpdateUserURL replaces the destination of a record owned by userID.
func (s *Service) UpdateUserURL(ctx context.Context, shortKey, newLongURL, userID string) error {
	if _, err := s.authorize(ctx, authz.ActionEdit, shortKey, userID); err != nil {
		return err
	}

	longURL, err := s.ExtractFirstURL(newLongURL)
	if err != nil {
		return err
	}

	return s.db.UpdateURL(ctx, shortKey, longURL)
}

// DeleteUserURL removes a record owned by userID.
func (s *Service) DeleteUserURL(ctx context.Context, shortKey, userID string) error {
	if _, err := s.authorize(ctx, authz.ActionDelete, shortKey, userID); err != nil {
		return err
	}

	return s.db.DeleteURL(ctx, shortKey)
}

// ResolveURL is the public redirect lookup. It requires no identity and
// bypasses the ownership policy.
func (s *Service) ResolveURL(ctx context.Context, shortKey string) (string, error) {
	record, found, err := s.db.FindURLByShort(ctx, shortKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", models.ErrNotFound
	}

	return record.LongURL, nil
}

// GetInternalStats returns totals of stored URLs and registered users.
func (s *Service) GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	urls, err := s.db.GetNumberOfShortenedURLs(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	users, err := s.db.GetNumberOfUsers(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	return models.InternalStatsResponse{
		URLs:  urls,
		Users: users,
	}, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetShortURL formats a short key into an absolute short URL.
func (s *Service) GetShortURL(shortKey string) string {
	return s.shortURLBase + "/u/" + shortKey
}

// ExtractFirstURL returns the first http(s) URL substring of the input,
// or ErrInvalidInput when none is present or the match does not parse.
func (s *Service) ExtractFirstURL(urlToShort string) (string, error) {
	match := urlPattern.FindString(urlToShort)
	if match == "" {
		return "", models.ErrInvalidInput
	}

	if !isValidURL(match) {
		return "", models.ErrInvalidInput
	}

	return match, nil
}

// authorize loads the target record and the requester identity and runs
// the ownership policy. It returns the record on Allow.
func (s *Service) authorize(ctx context.Context, action authz.Action, shortKey, userID string) (models.URLRecord, error) {
	record, found, err := s.db.FindURLByShort(ctx, shortKey)
	if err != nil {
		return models.URLRecord{}, err
	}

	requester, err := s.resolveRequester(ctx, userID)
	if err != nil {
		return models.URLRecord{}, err
	}

	var target *models.URLRecord
	if found {
		target = &record
	}

	if err := authz.Authorize(action, requester, target); err != nil {
		return models.URLRecord{}, err
	}

	return record, nil
}

// resolveRequester maps a session identity to a user record. An empty or
// unknown identity is an anonymous requester, not an error.
func (s *Service) resolveRequester(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, nil
	}

	usr, found, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving requester: %w", err)
	}
	if !found {
		return nil, nil
	}

	return usr, nil
}

func (s *Service) newShortKey(ctx context.Context) (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		shortKey := randkey.Generate(s.keyLength)
		exists, err := s.db.IsShortKeyExists(ctx, shortKey)
		if err != nil {
			return "", err
		}
		if !exists {
			return shortKey, nil
		}
	}

	return "", models.ErrKeyGenerationExhausted
}

func (s *Service) newUserID(ctx context.Context) (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		id := randkey.Generate(s.keyLength)
		_, found, err := s.db.FindUserByID(ctx, id)
		if err != nil {
			return "", err
		}
		if !found {
			return id, nil
		}
	}

	return "", models.ErrKeyGenerationExhausted
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil &&
		(u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != ""
}
