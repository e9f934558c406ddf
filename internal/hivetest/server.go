// Package hivetest is an in-process fake of The Hive API for tests and
// local development. It speaks the same JSON shapes as the real backend,
// issues HS256 JWTs, and can revoke a user's tokens to provoke 401s.
package hivetest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/me/hive/pkg/model"
)

// Request is one request the fake received.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type account struct {
	user     model.User
	password string
	gen      int
	saved    []string
}

// Server is the fake API.
type Server struct {
	router chi.Router
	logger *slog.Logger
	secret []byte
	ttl    time.Duration

	registerToken bool

	mu           sync.Mutex
	accounts     map[string]*account // by user id
	byEmail      map[string]string
	oauthCodes   map[string]string // code -> email
	services     []model.Service
	rooms        []model.ChatRoom
	messages     []model.ChatMessage
	discussions  []model.ForumDiscussion
	events       []model.ForumEvent
	comments     []model.ForumComment
	joinRequests []model.JoinRequest
	transactions []model.TimeBankTransaction
	requests     []Request
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the JWT signing key.
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.ttl = d
	}
}

// WithRegisterToken makes POST /auth/register answer with a token, as the
// login endpoint does. By default it returns only the new user.
func WithRegisterToken() Option {
	return func(s *Server) {
		s.registerToken = true
	}
}

// New creates an empty fake.
func New(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		logger:     logger.With("component", "hivetest"),
		secret:     []byte("hivetest-secret"),
		ttl:        time.Hour,
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		oauthCodes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves the fake on a local port. Callers close the returned server.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s)
}

// AddUser creates an account. An empty role means "user".
func (s *Server) AddUser(username, email, password, role string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, email, password, role)
}

func (s *Server) addUserLocked(username, email, password, role string) model.User {
	if role == "" {
		role = "user"
	}
	now := stamp()
	u := model.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		Role:            role,
		IsActive:        true,
		ProfileVisible:  true,
		TimeBankBalance: 3,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	s.byEmail[strings.ToLower(email)] = u.ID
	return u
}

// SetRole changes a user's role.
func (s *Server) SetRole(email, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return err
	}
	acct.user.Role = role
	return nil
}

// Revoke invalidates every token issued to the user so far.
func (s *Server) Revoke(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return err
	}
	acct.gen++
	return nil
}

// IssueToken mints a valid token for the user without a login request.
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accountByEmailLocked(email)
	if err != nil {
		return "", err
	}
	return s.mintLocked(acct)
}

// AddOAuthCode makes code a valid authorization code for email.
func (s *Server) AddOAuthCode(code, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauthCodes[code] = email
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns logged requests whose path starts with prefix.
func (s *Server) RequestsTo(prefix string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests empties the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) accountByEmailLocked(email string) (*account, error) {
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("no user %q", email)
	}
	return s.accounts[id], nil
}

func (s *Server) mintLocked(acct *account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": acct.user.ID,
		"gen": acct.gen,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

var errBadToken = errors.New("could not validate credentials")

// authenticate resolves the bearer token to an account.
func (s *Server) authenticate(r *http.Request) (*account, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, errBadToken
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errBadToken
	}
	sub, _ := claims.GetSubject()
	gen, _ := claims["gen"].(float64)

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[sub]
	if !ok || int(gen) != acct.gen {
		return nil, errBadToken
	}
	return acct, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Get("/oauth/{provider}", s.handleOAuthURL)
		r.Post("/oauth/{provider}/callback", s.handleOAuthCallback)
		r.With(s.requireUser).Get("/me", s.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", s.handleProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/settings", s.handleProfile)
			r.Put("/settings", s.handleUpdateSettings)
			r.Post("/change-password", s.handleChangePassword)
			r.Get("/timebank", s.handleTimeBank)
			r.Get("/badges", s.handleBadges)
			r.Get("/available-interests", s.handleInterests)
			r.With(s.requireRole("admin")).Get("/admin/timebank-transactions", s.handleAdminTransactions)
			r.Get("/{id}", s.handleGetUser)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleListServices)
			r.Post("/", s.handleCreateService)
			r.Get("/saved", s.handleSavedServices)
			r.Get("/{id}", s.handleGetService)
			r.Put("/{id}", s.handleUpdateService)
			r.Delete("/{id}", s.handleDeleteService)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/rooms", s.handleListRooms)
			r.Get("/rooms/{id}", s.handleGetRoom)
			r.Get("/rooms/{id}/messages", s.handleListMessages)
			r.Post("/rooms/transaction/{id}", s.handleTransactionRoom)
			r.Post("/messages", s.handleSendMessage)
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/discussions", s.handleListDiscussions)
			r.Post("/discussions", s.handleCreateDiscussion)
			r.Get("/discussions/{id}", s.handleGetDiscussion)
			r.Get("/events", s.handleListEvents)
			r.Get("/events/{id}", s.handleGetEvent)
			r.Get("/comments", s.handleListComments)
			r.Post("/comments", s.handleCreateComment)
		})

		r.Route("/join-requests", func(r chi.Router) {
			r.Post("/", s.handleCreateJoinRequest)
			r.Get("/my-requests", s.handleMyJoinRequests)
			r.Get("/service/{id}", s.handleServiceJoinRequests)
			r.Get("/{id}", s.handleGetJoinRequest)
			r.Put("/{id}", s.handleUpdateJoinRequest)
			r.Post("/{id}/cancel", s.handleCancelJoinRequest)
		})
	})
}

// record appends every request to the log.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, err := s.authenticate(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct)))
	})
}

func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct := accountFrom(r.Context())
			s.mu.Lock()
			have := acct.user.Role
			s.mu.Unlock()
			if rank(have) < rank(role) {
				respondDetail(w, http.StatusForbidden, "Not enough permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rank(role string) int {
	switch role {
	case "admin":
		return 3
	case "moderator":
		return 2
	case "user":
		return 1
	default:
		return 0
	}
}

// fieldError is one FastAPI validation entry.
type fieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]any{"detail": detail})
}

func respondInvalid(w http.ResponseWriter, field, msg string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []fieldError{{Loc: []any{"body", field}, Msg: msg, Type: "value_error"}},
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondInvalid(w, "body", "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// paginate slices items by the page and limit query parameters and writes
// the list envelope under key.
func paginate[T any](w http.ResponseWriter, r *http.Request, key string, items []T) {
	opts := model.PageOptions{
		Page:  atoi(r.URL.Query().Get("page")),
		Limit: atoi(r.URL.Query().Get("limit")),
	}
	opts.Clamp()
	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	page := items[start:end]
	if page == nil {
		page = []T{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		key:     page,
		"total": len(items),
		"page":  opts.Page,
		"limit": opts.Limit,
	})
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
