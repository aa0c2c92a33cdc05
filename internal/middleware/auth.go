package middleware

import (
	"errors"
	"net/http"

	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/pkg/response"
	"github.com/alepanderf/minibank/internal/service"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

// SessionToken extracts the session token from the request's cookie, or ""
// if the cookie is absent.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAuth returns a middleware that resolves the session cookie to a
// user and stores it in the request context. Requests without a live
// session are rejected with 401. Expiry is enforced here, on read; there
// is no background sweep.
func RequireAuth(sessions service.SessionService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Validate(r.Context(), SessionToken(r))
			if err != nil {
				if errors.Is(err, apierrors.ErrUnauthorized) {
					response.Unauthorized(w)
					return
				}
				// A store fault is not the caller's fault; don't report
				// it as bad credentials.
				response.InternalError(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
