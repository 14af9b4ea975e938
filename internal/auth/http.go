package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"DemoShop/internal/model"
	"DemoShop/pkg/kit"
)

type Server struct {
	Auth    *Manager
	JWT     *TokenMaker
	Log     *zap.Logger
	Metrics *kit.Metrics

	// LoginLimiter and SignupLimiter are optional.
	LoginLimiter  *kit.RateLimiter
	SignupLimiter *kit.RateLimiter
}

func (s *Server) Register(r chi.Router) {
	r.Route("/auth", func(rr chi.Router) {
		rr.With(limit(s.LoginLimiter)).Post("/login", s.handleLogin)
		rr.With(limit(s.SignupLimiter)).Post("/signup", s.handleSignup)
		rr.Post("/logout", s.handleLogout)
		rr.Get("/me", s.handleMe)
	})
}

func limit(l *kit.RateLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware
}

type signupReq struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	Session     model.Session `json:"session"`
	AccessToken string        `json:"access_token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.BadJSON(w, r, err)
		return
	}

	sess, err := s.Auth.Signup(r.Context(), req.Email, req.Password, req.Name, req.Role)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return
	case errors.Is(err, ErrInvalidRole):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid role", map[string]any{"role": req.Role})
		return
	case errors.Is(err, ErrDuplicateEmail):
		s.Metrics.Event("signup_rejected")
		kit.WriteError(w, r, http.StatusConflict, "email already registered", nil)
		return
	case err != nil:
		s.serverError(w, r, "signup failed", err)
		return
	}

	s.Metrics.Event("signup")
	s.writeSession(w, r, http.StatusCreated, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.BadJSON(w, r, err)
		return
	}

	sess, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		s.Metrics.Event("login_failed")
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	case err != nil:
		s.serverError(w, r, "login failed", err)
		return
	}

	s.Metrics.Event("login")
	s.writeSession(w, r, http.StatusOK, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Auth.Logout(r.Context()); err != nil {
		s.serverError(w, r, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok, err := s.Auth.CurrentUser(r.Context())
	if err != nil {
		s.serverError(w, r, "current user failed", err)
		return
	}
	if !ok {
		kit.WriteJSON(w, http.StatusOK, map[string]any{"logged_in": false})
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"logged_in": true, "session": sess})
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, sess model.Session) {
	tok, err := s.JWT.New(sess)
	if err != nil {
		s.serverError(w, r, "token issue", err)
		return
	}
	kit.WriteJSON(w, status, sessionResp{Session: sess, AccessToken: tok})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
