// Package session holds the client's identity projection: a bearer token and
// the profile the backend returned with it. Nothing here is authoritative;
// every call is re-authorized server-side.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"herbal-store-client/internal/api"
	"herbal-store-client/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrNotLoggedIn         = errors.New("not logged in")
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type User struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Role    string  `json:"role"`
	Address Address `json:"address"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

type Store struct {
	api *api.Client

	mu    sync.RWMutex
	token string
	user  *User
}

func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login authenticates against the backend and stores the returned token and
// profile projection.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	var resp authResponse
	err := s.api.Post(ctx, "/auth/login", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	s.set(resp.Token, resp.User)
	logger.L().Info("logged in", zap.String("email", resp.User.Email))
	return s.CurrentUser(), nil
}

// Register creates an account and logs the session in with the response.
func (s *Store) Register(ctx context.Context, name, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	var resp authResponse
	err := s.api.Post(ctx, "/auth/register", credentials{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	s.set(resp.Token, resp.User)
	return s.CurrentUser(), nil
}

// ProfileUpdate carries the fields to change; untouched fields are omitted
// from the payload so the backend keeps their current values. Personal
// details and the shipping address are updated through the same endpoint.
type ProfileUpdate struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Password string   `json:"password,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// UpdateProfile pushes profile changes to the backend and replaces the
// stored projection with the returned user. The token is unchanged.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	var updated User
	if err := s.api.Put(ctx, "/auth/profile", update, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &updated
	s.mu.Unlock()

	logger.L().Info("profile updated", zap.String("email", updated.Email))
	return s.CurrentUser(), nil
}

// Logout clears the token and profile; the backend keeps no client state.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Token feeds the API adapter's bearer header.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Store) set(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
}

// ExpiresSoon reports whether the token expires within the given window.
// Claims are decoded without verification; the signature only matters to the
// server. A token without an exp claim is treated as not expiring.
func (s *Store) ExpiresSoon(window time.Duration) bool {
	tok := s.Token()
	if tok == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		logger.L().Warn("failed decoding token claims", zap.Error(err))
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < window
}
