// Package apitest runs an in-memory DataVault backend for tests. It speaks
// the same wire format as the real API and keeps users in a map.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/models/dto"
)

// Account is a seeded backend user.
type Account struct {
	User     models.User
	Password string
}

type account struct {
	user         models.User
	passwordHash []byte
}

// Server owns the accounts and an httptest.Server serving them.
type Server struct {
	*httptest.Server

	// ExpiryDate and AppValid are returned with every successful sign-in.
	ExpiryDate *string
	AppValid   *bool

	mu       sync.Mutex
	accounts map[string]*account
	prompts  map[int64][]models.ChatHistoryItem
	resets   []string
	nextID   int64
	hits     map[string]int
}

// New starts a backend seeded with accounts. Close it when done.
func New(accounts ...Account) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		prompts:  make(map[int64][]models.ChatHistoryItem),
		nextID:   100,
		hits:     make(map[string]int),
	}
	for _, a := range accounts {
		s.add(a.User, a.Password)
	}

	mux := http.NewServeMux()
	s.Register(mux)
	s.Server = httptest.NewServer(mux)
	return s
}

// Register attaches the API routes to the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/signin", s.count(s.handleSignin))
	mux.HandleFunc("/api/v1/signup", s.count(s.handleSignup))
	mux.HandleFunc("/api/v1/user", s.count(s.handleUser))
	mux.HandleFunc("/api/v1/signin-forgotpwd", s.count(s.handleForgotPassword))
	mux.HandleFunc("/api/v1/prompts", s.count(s.handlePrompts))
}

// AddPrompt stores a chat history entry for userID.
func (s *Server) AddPrompt(userID int64, prompt, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.prompts[userID]) + 1)
	s.prompts[userID] = append(s.prompts[userID], models.ChatHistoryItem{ID: id, UserID: userID, Prompt: prompt, Response: response})
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Resets lists the emails a password reset was requested for.
func (s *Server) Resets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resets...)
}

func (s *Server) count(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next(w, r)
	}
}

func (s *Server) add(user models.User, password string) *account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	}
	a := &account{user: user, passwordHash: hash}
	s.accounts[strings.ToLower(user.Email)] = a
	return a
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !a.user.IsActive {
		respondJSON(w, http.StatusOK, dto.AuthResponse{Success: false, Msg: "account is inactive"})
		return
	}

	respondJSON(w, http.StatusOK, dto.AuthResponse{
		Success:    true,
		Data:       []models.User{a.user},
		ExpiryDate: s.ExpiryDate,
		IsAppValid: s.AppValid,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		respondJSON(w, http.StatusOK, dto.AuthResponse{Success: false, Msg: "user already exists"})
		return
	}
	s.add(models.User{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Gender:   req.Gender,
		IsActive: req.IsActive,
		Roles:    []models.RoleAssignment{{RoleID: models.RoleGuest}},
	}, req.Password)
	respondJSON(w, http.StatusOK, dto.AuthResponse{Success: true, Msg: "User created successfully"})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		roleID, err := strconv.Atoi(r.URL.Query().Get("role_id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "role_id is required")
			return
		}
		s.mu.Lock()
		var out []models.ManagedUser
		for _, a := range s.accounts {
			if a.user.PrimaryRole() == models.RoleID(roleID) {
				out = append(out, managed(a.user))
			}
		}
		s.mu.Unlock()
		respondJSON(w, http.StatusOK, dto.UsersResponse{Data: out})
	case http.MethodPut:
		var req models.ManagedUser
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for key, a := range s.accounts {
			if a.user.ID != req.ID {
				continue
			}
			a.user.Name = req.Name
			a.user.Mobile = req.Mobile
			a.user.IsActive = req.IsActive
			a.user.Roles = []models.RoleAssignment{{RoleID: req.RoleID}}
			if req.Email != "" && !strings.EqualFold(req.Email, a.user.Email) {
				delete(s.accounts, key)
				a.user.Email = req.Email
				s.accounts[strings.ToLower(req.Email)] = a
			}
			respondJSON(w, http.StatusOK, dto.AuthResponse{Success: true, Msg: "User updated"})
			return
		}
		respondError(w, http.StatusNotFound, "user not found")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	email := r.URL.Query().Get("user_email")
	s.mu.Lock()
	s.resets = append(s.resets, email)
	s.mu.Unlock()
	// never reveal whether the account exists
	respondJSON(w, http.StatusOK, dto.AuthResponse{Success: true, Msg: "If the account exists, a reset link was sent"})
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	s.mu.Lock()
	items := append([]models.ChatHistoryItem(nil), s.prompts[userID]...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, dto.ChatHistoryResponse{Data: items})
}

func managed(u models.User) models.ManagedUser {
	return models.ManagedUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Mobile:   u.Mobile,
		RoleID:   u.PrimaryRole(),
		IsActive: u.IsActive,
	}
}
