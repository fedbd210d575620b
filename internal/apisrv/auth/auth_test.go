package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(&Config{
		JWTSecret:                "test-secret",
		AdminEmail:               "Admin@Example.com",
		MasterPassword:           "hunter2",
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 1000,
		JWTTTL:                   "10m",
	})
	require.NoError(t, err)
	return s
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	token, err := s.Login("admin@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// email comparison is case and whitespace insensitive
	_, err = s.Login("  ADMIN@example.COM ", "hunter2")
	assert.NoError(t, err)

	_, err = s.Login("admin@example.com", "wrong")
	assert.Error(t, err)

	_, err = s.Login("someone@else.com", "hunter2")
	assert.Error(t, err)

	subject, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", subject)

	_, err = s.Verify("not-a-token")
	assert.Error(t, err)
}

func TestWithAuth(t *testing.T) {
	s := newTestServer(t)

	var gotSubject string
	h := s.WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := s.Login("admin@example.com", "hunter2")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin@example.com", gotSubject)
}

func TestSessionState(t *testing.T) {
	s := newTestServer(t)

	sess := s.Session("admin@example.com")
	assert.Equal(t, "admin@example.com", sess.Email)
	assert.Empty(t, sess.LastView)

	sess = s.SetLastView("admin@example.com", "orders")
	assert.Equal(t, "orders", sess.LastView)

	sess = s.Session("admin@example.com")
	assert.Equal(t, "orders", sess.LastView)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(&Config{
		JWTSecret:                "x",
		AdminEmail:               "a@b.c",
		MasterPassword:           "pw",
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 1000,
		JWTTTL:                   "not-a-duration",
	})
	assert.Error(t, err)

	_, err = New(&Config{
		JWTSecret:                "x",
		AdminEmail:               " ",
		MasterPassword:           "pw",
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 1000,
		JWTTTL:                   "10m",
	})
	assert.Error(t, err)
}
