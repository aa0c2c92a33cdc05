package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alepanderf/minibank/internal/middleware"
	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
)

const signupBody = `{
	"email": "jane@example.com",
	"password": "Sup3r!secret",
	"firstName": "Jane",
	"lastName": "Doe",
	"phoneNumber": "+14155550123",
	"dateOfBirth": "1990-06-15",
	"ssn": "123456789",
	"address": "1 Main St",
	"city": "San Francisco",
	"state": "CA",
	"zipCode": "94103"
}`

func newAuthTestServer(auth *mockAuthService, sessions *mockSessionService) http.Handler {
	h := NewAuthHandler(auth, sessions, 7*24*time.Hour, true)
	return h.Routes()
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestSignupHandler(t *testing.T) {
	t.Run("returns 201 and sets the session cookie", func(t *testing.T) {
		auth := new(mockAuthService)
		user := &models.User{Email: "jane@example.com"}
		session := &models.Session{Token: "tok-123", ExpiresAt: time.Now().Add(time.Hour)}
		auth.On("Signup", mock.Anything, mock.AnythingOfType("service.SignupRequest")).Return(user, session, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(signupBody))
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"tok-123"`)

		cookie := sessionCookie(t, rec)
		assert.Equal(t, "tok-123", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
		auth.AssertExpectations(t)
	})

	t.Run("returns 400 when a required field is missing", func(t *testing.T) {
		auth := new(mockAuthService)

		rec := httptest.NewRecorder()
		body := `{"password": "Sup3r!secret"}`
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email is required")
		auth.AssertNotCalled(t, "Signup")
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
		newAuthTestServer(new(mockAuthService), new(mockSessionService)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("surfaces validation errors from the service", func(t *testing.T) {
		auth := new(mockAuthService)
		verr := apierrors.NewValidationError("email", "invalid email: did you mean example.com?")
		auth.On("Signup", mock.Anything, mock.Anything).Return(nil, nil, verr)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(signupBody))
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "did you mean example.com?")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("returns 200 and sets the session cookie", func(t *testing.T) {
		auth := new(mockAuthService)
		user := &models.User{Email: "jane@example.com"}
		session := &models.Session{Token: "tok-456", ExpiresAt: time.Now().Add(time.Hour)}
		auth.On("Login", mock.Anything, "jane@example.com", "Sup3r!secret").Return(user, session, nil)

		rec := httptest.NewRecorder()
		body := `{"email": "jane@example.com", "password": "Sup3r!secret"}`
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(t, rec)
		assert.Equal(t, "tok-456", cookie.Value)
		auth.AssertExpectations(t)
	})

	t.Run("returns 401 with a generic message on bad credentials", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, apierrors.ErrUnauthorized)

		rec := httptest.NewRecorder()
		body := `{"email": "jane@example.com", "password": "wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("revokes the session and clears the cookie", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Logout", mock.Anything, "tok-789").Return(true, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-789"})
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)

		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge, "cookie should be expired")
		auth.AssertExpectations(t)
	})

	t.Run("reports no active session without erroring", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Logout", mock.Anything, "").Return(false, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		newAuthTestServer(auth, new(mockSessionService)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
		assert.Contains(t, rec.Body.String(), "no active session")

		// The cookie is cleared even with nothing to revoke.
		cookie := sessionCookie(t, rec)
		assert.Negative(t, cookie.MaxAge)
	})
}

func TestMeHandler(t *testing.T) {
	t.Run("returns the session's user", func(t *testing.T) {
		sessions := new(mockSessionService)
		user := &models.User{Email: "jane@example.com"}
		sessions.On("Validate", mock.Anything, "tok-123").Return(user, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})
		newAuthTestServer(new(mockAuthService), sessions).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "jane@example.com")
		sessions.AssertExpectations(t)
	})

	t.Run("returns 401 without a live session", func(t *testing.T) {
		sessions := new(mockSessionService)
		sessions.On("Validate", mock.Anything, mock.Anything).Return(nil, apierrors.ErrUnauthorized)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		newAuthTestServer(new(mockAuthService), sessions).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
