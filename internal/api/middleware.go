package api

import (
	"net/http"
)

// authMiddleware rejects requests without a valid bearer token and
// stores the authenticated user id on the request context.
func (s *CollegeHubApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := s.extractUserIdFromRequest(r)
		if err != nil {
			s.log.Printf("auth: %s", err)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserId(r.Context(), userId)))
	}
}

// optionalAuthMiddleware attaches the user id when a valid token is
// present but lets anonymous requests through.
func (s *CollegeHubApp) optionalAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userId, err := s.extractUserIdFromRequest(r); err == nil {
			r = r.WithContext(WithUserId(r.Context(), userId))
		}

		next.ServeHTTP(w, r)
	}
}

// recoveryMiddleware converts handler panics into 500 responses so a
// single bad request cannot take the server down.
func (s *CollegeHubApp) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				errResp := NewInternalServerError(nil)
				s.writeJson(w, errResp.StatusCode, errResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
