package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hyperjump/dishhub/internal/models"
	"github.com/hyperjump/dishhub/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey int

const userKey ctxKey = iota

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (s *Server) cookieName() string {
	return s.config.Server.SessionCookie
}

// requireSession resolves the session cookie to a user and rejects the request
// with 401 when there is none.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(s.cookieName())
		if err != nil || ck.Value == "" {
			s.respondError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
			return
		}
		user, err := s.storage.GetSessionUser(r.Context(), ck.Value)
		if errors.Is(err, models.ErrUnauthorized) {
			s.respondError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
			return
		}
		if err != nil {
			s.logger.Error("session lookup failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// limitAuth rejects register and login requests with 429 once the shared
// limiter is exhausted.
func (s *Server) limitAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authLimiter.Allow() {
			s.logger.Warn("auth request throttled", zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			s.respondError(w, http.StatusTooManyRequests, "too many attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	acc := &storage.Account{
		User:         models.User{Username: req.Username, Email: strings.TrimSpace(req.Email)},
		PasswordHash: string(hash),
	}
	if _, err := s.storage.GetAccountByUsername(r.Context(), req.Username); err == nil {
		s.respondError(w, http.StatusConflict, "username already taken")
		return
	}
	if err := s.storage.CreateAccount(r.Context(), acc); err != nil {
		s.logger.Error("register failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("user registered", zap.String("username", acc.Username))
	s.respondJSON(w, http.StatusCreated, acc.User)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	acc, err := s.storage.GetAccountByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("login lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if acc == nil || bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := storage.NewToken()
	expires := s.now().Add(s.config.Server.SessionTTL)
	if err := s.storage.CreateSession(r.Context(), token, acc.ID, expires); err != nil {
		s.logger.Error("session creation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("user logged in", zap.String("username", acc.Username))
	s.respondJSON(w, http.StatusOK, loginResponse{UserID: acc.ID, Username: acc.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(s.cookieName()); err == nil && ck.Value != "" {
		if err := s.storage.DeleteSession(r.Context(), ck.Value); err != nil {
			s.logger.Error("logout failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: s.cookieName(), Value: "", Path: "/", MaxAge: -1})
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, userFrom(r.Context()))
}
