// Package auth gates the admin surface behind a single master account and
// issues short-lived JWTs for it.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/gemora/store-manager/internal/auth/jwt"
	"github.com/gemora/store-manager/internal/auth/pwhash"
)

// AuthHeaderKey is the header carrying the bearer token.
const AuthHeaderKey = "Authorization"

// Config contains the configuration for the auth server.
type Config struct {
	JWTSecret                string `mapstructure:"jwtSecret"`
	AdminEmail               string `mapstructure:"adminEmail"`
	MasterPassword           string `mapstructure:"masterPassword"`
	PasswordHasherSaltSize   int    `mapstructure:"passwordHasherSaltSize"`
	PasswordHasherIterations int    `mapstructure:"passwordHasherIterations"`
	JWTTTL                   string `mapstructure:"jwtttl"`
}

// Session is the per-admin UI state the client round-trips between visits.
type Session struct {
	Email    string `json:"email"`
	LastView string `json:"lastView"`
}

// Server authenticates the single admin account.
type Server struct {
	pwhash     *pwhash.PasswordHasher
	JwtAuth    *jwtauth.JWTAuth
	jwtTTL     time.Duration
	adminEmail string
	masterHash string

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a new auth server. The master password is hashed on startup;
// the plaintext is never kept.
func New(c *Config) (*Server, error) {
	ph, err := pwhash.New(c.PasswordHasherSaltSize, c.PasswordHasherIterations)
	if err != nil {
		return nil, err
	}
	hash, err := ph.HashPassword(c.MasterPassword)
	if err != nil {
		return nil, err
	}
	if err := ph.Validate(c.MasterPassword, hash); err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(c.AdminEmail) == "" {
		return nil, fmt.Errorf("admin email is not configured")
	}

	s := &Server{
		pwhash:     ph,
		JwtAuth:    jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		jwtTTL:     ttl,
		adminEmail: strings.ToLower(c.AdminEmail),
		masterHash: hash,
		sessions:   map[string]*Session{},
	}
	return s, nil
}

// Login returns an auth token for the provided email and password. Failures
// do not reveal whether the email or the password was wrong.
func (s *Server) Login(email, password string) (string, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.adminEmail {
		return "", fmt.Errorf("not authenticated")
	}

	if err := s.pwhash.Validate(password, s.masterHash); err != nil {
		return "", fmt.Errorf("not authenticated")
	}

	token, err := jwt.NewTokenWithSubject(s.JwtAuth, s.jwtTTL, s.adminEmail)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Verify checks the token and returns the admin email it was issued for.
func (s *Server) Verify(token string) (string, error) {
	subject, err := jwt.VerifyToken(s.JwtAuth, token)
	if err != nil {
		return "", err
	}
	if subject != s.adminEmail {
		return "", fmt.Errorf("unknown subject")
	}
	return subject, nil
}

// Session returns the stored session for the subject, creating it on first
// access.
func (s *Server) Session(subject string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[subject]; ok {
		return *sess
	}
	sess := &Session{Email: subject}
	s.sessions[subject] = sess
	return *sess
}

// SetLastView records the admin view the client last visited.
func (s *Server) SetLastView(subject, view string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[subject]
	if !ok {
		sess = &Session{Email: subject}
		s.sessions[subject] = sess
	}
	sess.LastView = view
	return *sess
}

type ctxKey struct{}

// WithAuth middleware checks if the request carries a valid token and puts
// the authenticated subject on the context.
func (s *Server) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get(AuthHeaderKey), "Bearer ")
		subject, err := s.Verify(token)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid token %v", err.Error()), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the authenticated admin email, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ctxKey{}).(string)
	return subject, ok
}
