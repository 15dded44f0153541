package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"electro_store/database"
	"electro_store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userMap map[string]model.User

func (m userMap) GetUserByID(ctx context.Context, id string) (model.User, error) {
	if id == "broken" {
		return model.User{}, errors.New("disk on fire")
	}
	u, ok := m[id]
	if !ok {
		return model.User{}, database.ErrNotFound
	}
	return u, nil
}

var testUsers = userMap{
	"admin":   {ID: "admin", IsAdmin: true, IsActive: true},
	"alice":   {ID: "alice", IsActive: true},
	"blocked": {ID: "blocked", IsActive: true, IsBlocked: true},
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", user.ID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	tok, err := tokens.GenerateJWT("alice", model.RoleUser)
	require.NoError(t, err)

	claims, err := tokens.ParseJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	_, err = NewTokenIssuer("other", time.Hour).ParseJWT(tok)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := tokens.GenerateJWT("alice", model.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).ParseJWT(tok)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	token := func(id string) string {
		tok, err := tokens.GenerateJWT(id, model.RoleUser)
		require.NoError(t, err)
		return tok
	}
	h := AuthMiddleware(tokens, testUsers)(okHandler(t))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token " + token("alice"), http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"unknown user", "Bearer " + token("ghost"), http.StatusUnauthorized},
		{"blocked", "Bearer " + token("blocked"), http.StatusForbidden},
		{"lookup failure", "Bearer " + token("broken"), http.StatusInternalServerError},
		{"ok", "Bearer " + token("alice"), http.StatusNoContent},
		{"lowercase scheme", "bearer " + token("alice"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestQueryAuthMiddleware(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	tok, err := tokens.GenerateJWT("admin", model.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ws?token="+tok, nil)
	rec := httptest.NewRecorder()
	QueryAuthMiddleware(tokens, testUsers)(okHandler(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin", rec.Header().Get("X-User"))

	rec = httptest.NewRecorder()
	AuthMiddleware(tokens, testUsers)(okHandler(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := AdminMiddleware(next)

	for _, tc := range []struct {
		user *model.User
		want int
	}{
		{nil, http.StatusUnauthorized},
		{&model.User{ID: "alice", IsActive: true}, http.StatusForbidden},
		{&model.User{ID: "admin", IsActive: true, IsAdmin: true}, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if tc.user != nil {
			req = req.WithContext(WithUser(req.Context(), *tc.user))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}
