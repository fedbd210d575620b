package app

import (
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/render"

	"github.com/gemora/store-manager/internal/apisrv/auth"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (lr *LoginRequest) Bind(r *http.Request) error {
	if strings.TrimSpace(lr.Email) == "" || lr.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := &LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	token, err := s.auth.Login(data.Email, data.Password)
	if err != nil {
		slog.Default().InfoContext(ctx, "rejected login attempt",
			slog.String("email", data.Email),
		)
		render.Render(w, r, ErrUnauthorized(err))
		return
	}

	render.Render(w, r, &LoginResponse{AuthToken: token})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(fmt.Errorf("no session")))
		return
	}
	render.Render(w, r, &SessionResponse{Session: s.auth.Session(subject)})
}

type SessionRequest struct {
	LastView string `json:"lastView"`
}

func (sr *SessionRequest) Bind(r *http.Request) error {
	return nil
}

func (s *Server) putSession(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(fmt.Errorf("no session")))
		return
	}

	data := &SessionRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	render.Render(w, r, &SessionResponse{Session: s.auth.SetLastView(subject, data.LastView)})
}
