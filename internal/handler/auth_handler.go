// Package handler provides HTTP handlers for the minibank API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/alepanderf/minibank/internal/middleware"
	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/pkg/response"
	"github.com/alepanderf/minibank/internal/service"
)

// AuthHandler handles signup, login, and logout requests.
type AuthHandler struct {
	auth     service.AuthService
	sessions service.SessionService
	validate *validator.Validate

	cookieMaxAge  time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. sessionExpiry drives the
// cookie Max-Age and must match the session service's expiry.
func NewAuthHandler(auth service.AuthService, sessions service.SessionService, sessionExpiry time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		sessions:      sessions,
		validate:      newValidator(),
		cookieMaxAge:  sessionExpiry,
		secureCookies: secureCookies,
	}
}

// newValidator builds a validator that reports field names from json tags,
// so validation messages match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requiredFieldError maps the first missing-field failure to an API error.
func requiredFieldError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		return apierrors.NewValidationError(field, field+" is required")
	}
	return apierrors.ErrBadRequest
}

// Routes returns a chi router with auth routes. Logout is deliberately not
// behind RequireAuth: it must clear the cookie even when no session exists.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(middleware.RequireAuth(h.sessions)).Get("/me", h.Me)

	return r
}

// authResponse is the body returned by signup and login. The user model
// never carries password or SSN material.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, requiredFieldError(err))
		return
	}

	user, session, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	response.Created(w, authResponse{User: user, Token: session.Token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, requiredFieldError(err))
		return
	}

	user, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	response.OK(w, authResponse{User: user, Token: session.Token})
}

type logoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Logout handles POST /v1/auth/logout. Having no session to revoke is a
// normal outcome, not an error: the cookie is cleared either way.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.auth.Logout(r.Context(), middleware.SessionToken(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.clearSessionCookie(w)

	if !revoked {
		response.OK(w, logoutResponse{Success: false, Message: "no active session"})
		return
	}
	response.OK(w, logoutResponse{Success: true, Message: "logged out"})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w)
		return
	}
	response.OK(w, user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // serialized as Max-Age=0
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
