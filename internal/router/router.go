// Package router wires the HTTP API. It owns request decoding, payload
// validation, the error-to-status mapping and nothing else; every
// decision lives in the service.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/tinyapp/internal/gzippedhttp"
	"github.com/avoronov/tinyapp/internal/logger"
	"github.com/avoronov/tinyapp/internal/methodoverride"
	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/session"
	"github.com/avoronov/tinyapp/internal/user"
)

type service interface {
	RegisterUser(ctx context.Context, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, error)
	ShortenURL(ctx context.Context, urlToShort, ownerID string) (string, error)
	GetUserURLs(ctx context.Context, userID string) (models.UserUrls, error)
	GetURLForUser(ctx context.Context, shortKey, userID string) (models.UserURL, error)
	UpdateUserURL(ctx context.Context, shortKey, newLongURL, userID string) error
	DeleteUserURL(ctx context.Context, shortKey, userID string) error
	ResolveURL(ctx context.Context, shortKey string) (string, error)
	GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error)
	Ping(ctx context.Context) error
}

type sessionManager interface {
	WithUser(h http.Handler) http.Handler
	Issue(response http.ResponseWriter, userID string) error
	Clear(response http.ResponseWriter)
}

type statsGuard interface {
	Allowed(request *http.Request) bool
}

// Router holds the handler dependencies.
type Router struct {
	svc      service
	sessions sessionManager
	guard    statsGuard
	validate *validator.Validate
}

// New builds the chi mux with all routes and middleware.
func New(svc service, sessions sessionManager, guard statsGuard) http.Handler {
	rt := &Router{
		svc:      svc,
		sessions: sessions,
		guard:    guard,
		validate: validator.New(),
	}

	mux := chi.NewRouter()
	mux.Use(
		logger.RequestLogger,
		methodoverride.Override,
		gzippedhttp.DecompressRequest,
	)

	mux.Get(`/u/{short}`, rt.GetRedirectToLongURL)
	mux.Get(`/ping`, rt.GetPing)

	mux.Group(func(api chi.Router) {
		api.Use(
			gzippedhttp.CompressResponse,
			rt.sessions.WithUser,
		)
		api.Post(`/api/register`, rt.PostRegister)
		api.Post(`/api/login`, rt.PostLogin)
		api.Post(`/api/logout`, rt.PostLogout)
		api.Get(`/api/urls`, rt.GetUserUrls)
		api.Post(`/api/urls`, rt.PostShorten)
		api.Get(`/api/urls/{short}`, rt.GetURLDetails)
		api.Put(`/api/urls/{short}`, rt.PutUpdateURL)
		api.Delete(`/api/urls/{short}`, rt.DeleteURL)
		api.Get(`/api/internal/stats`, rt.GetApiInternalStats)
	})

	return mux
}

// PostRegister handles POST /api/register: creates the user and opens a
// session for it.
func (rt *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	var payload models.RegisterRequest
	if err := rt.decodeAndValidate(request, &payload); err != nil {
		writeError(response, err)
		return
	}

	usr, err := rt.svc.RegisterUser(request.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(response, err)
		return
	}

	if err := rt.sessions.Issue(response, usr.ID); err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, models.AuthResponse{
		ID:    usr.ID,
		Email: usr.Email,
	})
}

// PostLogin handles POST /api/login.
func (rt *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	var payload models.LoginRequest
	if err := rt.decodeAndValidate(request, &payload); err != nil {
		writeError(response, err)
		return
	}

	usr, err := rt.svc.Login(request.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(response, err)
		return
	}

	if err := rt.sessions.Issue(response, usr.ID); err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.AuthResponse{
		ID:    usr.ID,
		Email: usr.Email,
	})
}

// PostLogout handles POST /api/logout. Logging out an anonymous session
// is not an error.
func (rt *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	rt.sessions.Clear(response)
	response.WriteHeader(http.StatusNoContent)
}

// PostShorten handles POST /api/urls.
func (rt *Router) PostShorten(response http.ResponseWriter, request *http.Request) {
	userID := session.UserID(request.Context())
	if userID == "" {
		writeError(response, models.ErrUnauthenticated)
		return
	}

	var payload models.ShortenRequest
	if err := rt.decodeAndValidate(request, &payload); err != nil {
		writeError(response, err)
		return
	}

	short, err := rt.svc.ShortenURL(request.Context(), payload.URL, userID)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, models.ShortenResponse{Result: short})
}

// GetUserUrls handles GET /api/urls: the requester's own records only.
func (rt *Router) GetUserUrls(response http.ResponseWriter, request *http.Request) {
	urls, err := rt.svc.GetUserURLs(request.Context(), session.UserID(request.Context()))
	if err != nil {
		writeError(response, err)
		return
	}

	if len(urls) == 0 {
		response.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(response, http.StatusOK, urls)
}

// GetURLDetails handles GET /api/urls/{short}, subject to the ownership
// policy.
func (rt *Router) GetURLDetails(response http.ResponseWriter, request *http.Request) {
	details, err := rt.svc.GetURLForUser(
		request.Context(),
		chi.URLParam(request, "short"),
		session.UserID(request.Context()),
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, details)
}

// PutUpdateURL handles PUT /api/urls/{short} (also reachable through the
// method-override tunnel).
func (rt *Router) PutUpdateURL(response http.ResponseWriter, request *http.Request) {
	var payload models.UpdateURLRequest
	if err := rt.decodeAndValidate(request, &payload); err != nil {
		writeError(response, err)
		return
	}

	err := rt.svc.UpdateUserURL(
		request.Context(),
		chi.URLParam(request, "short"),
		payload.URL,
		session.UserID(request.Context()),
	)
	if err != nil {
		writeError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

// DeleteURL handles DELETE /api/urls/{short} (also reachable through the
// method-override tunnel).
func (rt *Router) DeleteURL(response http.ResponseWriter, request *http.Request) {
	err := rt.svc.DeleteUserURL(
		request.Context(),
		chi.URLParam(request, "short"),
		session.UserID(request.Context()),
	)
	if err != nil {
		writeError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

// GetRedirectToLongURL handles GET /u/{short}: the public redirect path,
// no identity required.
func (rt *Router) GetRedirectToLongURL(response http.ResponseWriter, request *http.Request) {
	long, err := rt.svc.ResolveURL(request.Context(), chi.URLParam(request, "short"))
	if err != nil {
		writeError(response, err)
		return
	}

	http.Redirect(response, request, long, http.StatusTemporaryRedirect)
}

// GetPing handles GET /ping.
func (rt *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := rt.svc.Ping(request.Context()); err != nil {
		writeError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// GetApiInternalStats handles GET /api/internal/stats, restricted to the
// trusted subnet.
func (rt *Router) GetApiInternalStats(response http.ResponseWriter, request *http.Request) {
	if !rt.guard.Allowed(request) {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	stats, err := rt.svc.GetInternalStats(request.Context())
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, stats)
}

// decodeAndValidate reads a JSON payload and checks it against its
// validate tags. Any failure is a client input error.
func (rt *Router) decodeAndValidate(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return models.ErrInvalidInput
	}
	if err := rt.validate.Struct(target); err != nil {
		return models.ErrInvalidInput
	}

	return nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeError(response http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.Log.Debugln("internal error:", err)
		http.Error(response, http.StatusText(status), status)
		return
	}

	http.Error(response, err.Error(), status)
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("encoding response:", err)
	}
}
