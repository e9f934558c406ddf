package hivetest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/hive/pkg/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct, err := s.accountByEmailLocked(req.Email)
	if err != nil || acct.password != req.Password {
		s.mu.Unlock()
		respondDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	tok, err := s.mintLocked(acct)
	user := acct.user
	s.mu.Unlock()
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, model.AuthResponse{AccessToken: tok, TokenType: "bearer", User: &user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	switch {
	case req.Username == "":
		respondInvalid(w, "username", "Field required")
		return
	case !strings.Contains(req.Email, "@"):
		respondInvalid(w, "email", "value is not a valid email address")
		return
	case len(req.Password) < 8:
		respondInvalid(w, "password", "Password must be at least 8 characters long")
		return
	case req.Password != req.ConfirmPassword:
		respondInvalid(w, "confirm_password", "Passwords do not match")
		return
	}

	s.mu.Lock()
	if _, err := s.accountByEmailLocked(req.Email); err == nil {
		s.mu.Unlock()
		respondDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	user := s.addUserLocked(req.Username, req.Email, req.Password, "user")
	acct := s.accounts[user.ID]
	acct.user.FullName = req.FullName
	acct.user.Bio = req.Bio
	acct.user.Location = req.Location
	user = acct.user
	var tok string
	var err error
	if s.registerToken {
		tok, err = s.mintLocked(acct)
	}
	s.mu.Unlock()
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !s.registerToken {
		respondJSON(w, http.StatusCreated, user)
		return
	}
	respondJSON(w, http.StatusCreated, model.AuthResponse{AccessToken: tok, TokenType: "bearer", User: &user})
}

func (s *Server) handleOAuthURL(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if provider != "google" && provider != "github" {
		respondDetail(w, http.StatusBadRequest, "Unsupported OAuth provider")
		return
	}
	respondJSON(w, http.StatusOK, model.OAuthURL{
		AuthURL: "https://" + provider + ".example/authorize?client_id=hivetest",
	})
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	email, ok := s.oauthCodes[body.Code]
	var acct *account
	if ok {
		acct, _ = s.accountByEmailLocked(email)
	}
	if acct == nil {
		s.mu.Unlock()
		respondDetail(w, http.StatusBadRequest, "Invalid authorization code")
		return
	}
	delete(s.oauthCodes, body.Code)
	tok, err := s.mintLocked(acct)
	user := acct.user
	s.mu.Unlock()
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, model.AuthResponse{AccessToken: tok, TokenType: "bearer", User: &user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.handleProfile(w, r)
}
