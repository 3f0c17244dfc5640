// Package session implements the cookie-backed session identity of the
// application. A session is an HMAC-signed JWT carrying the user ID,
// stored in a named cookie and also honored from the Authorization
// header. Sessions are issued on login and registration and cleared on
// logout; there is no server-side session state.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoronov/tinyapp/internal/logger"
	"github.com/avoronov/tinyapp/internal/user"
)

type userFinder interface {
	FindUserByID(ctx context.Context, id string) (*user.User, bool, error)
}

// Manager issues, clears and resolves session tokens.
type Manager struct {
	db               userFinder
	cookieName       string
	signingSecretKey []byte
}

// Claims are the JWT claims of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type contextKey string

const userIDKey contextKey = "userID"

// New creates a Manager backed by the given user directory.
func New(db userFinder, cookieName string, signingSecretKey []byte) *Manager {
	return &Manager{
		db:               db,
		cookieName:       cookieName,
		signingSecretKey: signingSecretKey,
	}
}

// WithUser is an HTTP middleware that resolves the request's session
// identity. When the token is valid and names an existing user, the user
// ID is stored in the request context; in every other case the request
// proceeds anonymously. A stale or garbage token is not an error.
func (m *Manager) WithUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := m.userIDFromRequest(request)
		if userID == "" {
			h.ServeHTTP(response, request)
			return
		}

		usr, found, err := m.db.FindUserByID(request.Context(), userID)
		if err != nil {
			logger.Log.Debugln("session: user lookup failed", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !found {
			h.ServeHTTP(response, request)
			return
		}

		ctx := context.WithValue(request.Context(), userIDKey, usr.ID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserID returns the session identity stored in ctx, or the empty string
// for an anonymous request.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// Issue signs a token for userID and sets it as the session cookie and
// the Authorization response header.
func (m *Manager) Issue(response http.ResponseWriter, userID string) error {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.NewString()},
		UserID:           userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)
	tokenString, err := token.SignedString(m.signingSecretKey)
	if err != nil {
		return err
	}

	response.Header().Set("Authorization", tokenString)
	http.SetCookie(response, &http.Cookie{
		Name:     m.cookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
	})

	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(response http.ResponseWriter) {
	http.SetCookie(response, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (m *Manager) tokenFromRequest(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	if tokenString != "" {
		return tokenString
	}
	cookie, err := request.Cookie(m.cookieName)
	if err == nil {
		tokenString = cookie.Value
	}

	return tokenString
}

func (m *Manager) userIDFromRequest(request *http.Request) string {
	tokenString := m.tokenFromRequest(request)
	if tokenString == "" {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}
