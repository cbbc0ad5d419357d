package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodiny/collegehub/internal/testutil"
	"github.com/prodiny/collegehub/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	app := &CollegeHubApp{
		log:        testutil.TestLogger(t),
		signingKey: []byte("test-signing-key"),
	}

	handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		userId, ok := UserId(r.Context())
		assert.True(t, ok, "expected user id on the request context")
		assert.Equal(t, 7, userId)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("rejects request without a token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("passes request with a valid token", func(t *testing.T) {
		token, err := app.createJwtForSession(types.User{Id: 7}, defaultJwtExpiration)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	app := &CollegeHubApp{
		log:        testutil.TestLogger(t),
		signingKey: []byte("test-signing-key"),
	}

	t.Run("anonymous request passes through", func(t *testing.T) {
		handler := app.optionalAuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
			_, ok := UserId(r.Context())
			assert.False(t, ok, "expected no user id for anonymous request")
			w.WriteHeader(http.StatusNoContent)
		})

		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("valid token attaches the user id", func(t *testing.T) {
		handler := app.optionalAuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
			userId, ok := UserId(r.Context())
			assert.True(t, ok)
			assert.Equal(t, 7, userId)
			w.WriteHeader(http.StatusNoContent)
		})

		token, err := app.createJwtForSession(types.User{Id: 7}, defaultJwtExpiration)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	app := &CollegeHubApp{log: testutil.TestLogger(t)}

	handler := app.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
