// Package session owns the authenticate/deauthenticate lifecycle: login,
// registration, logout, token persistence, and the identity decoded from
// the current access token.
package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/five82/rosarium/internal/api"
)

// Identity is the user identity carried in the access token's claims.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// claims adds the server's custom fields to the registered JWT set.
type claims struct {
	jwt.RegisteredClaims
	UserID   json.Number `json:"user_id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

// Store manages the session state. Authenticated is, by construction,
// exactly "an access token is held"; Identity is always decoded from the
// current token or nil.
type Store struct {
	client *api.Client
	tokens *FileTokens
	log    *zap.Logger
}

// NewStore builds a Store around the shared transport and the token file.
func NewStore(client *api.Client, tokens *FileTokens, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, tokens: tokens, log: logger}
}

// IsAuthenticated reports whether an access token is currently held.
func (s *Store) IsAuthenticated() bool {
	return s.tokens.AccessToken() != ""
}

// Identity decodes the current access token's claims. The token's
// signature is the server's business; the client only reads the payload.
func (s *Store) Identity() *Identity {
	return decodeIdentity(s.tokens.AccessToken())
}

func decodeIdentity(token string) *Identity {
	if token == "" {
		return nil
	}
	var c claims
	_, _ = jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation())
	id := &Identity{
		UserID:   c.UserID.String(),
		Username: c.Username,
		Email:    c.Email,
	}
	if id.UserID == "" && c.Subject != "" {
		id.UserID = c.Subject
	}
	if id.UserID == "" && id.Username == "" && id.Email == "" {
		return nil
	}
	return id
}

// Login exchanges credentials for a token pair and persists it. Concurrent
// logins are not deduplicated; the last response to land wins.
func (s *Store) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var payload struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := s.client.Do(ctx, http.MethodPost, "/token/", nil, body, &payload); err != nil {
		s.log.Info("login failed", zap.Error(err))
		return err
	}
	if err := s.tokens.SetTokens(payload.Access, payload.Refresh); err != nil {
		return err
	}
	s.log.Info("logged in", zap.String("email", email))
	return nil
}

// RegisterRequest carries the identity fields for account creation.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Register creates an account. Field-level validation errors pass through
// in the returned api.Error's Fields map.
func (s *Store) Register(ctx context.Context, req RegisterRequest) error {
	if err := s.client.Do(ctx, http.MethodPost, "/register/", nil, req, nil); err != nil {
		s.log.Info("registration failed", zap.Error(err))
		return err
	}
	s.log.Info("registered", zap.String("email", req.Email))
	return nil
}

// Logout clears local state unconditionally and tells the server on a
// best-effort basis. It never fails: a dead network must not keep the
// user logged in.
func (s *Store) Logout(ctx context.Context) {
	refresh := s.tokens.RefreshToken()
	s.tokens.Clear()
	if refresh != "" {
		body := map[string]string{"refresh": refresh}
		if err := s.client.Do(ctx, http.MethodPost, "/logout/", nil, body, nil); err != nil {
			s.log.Debug("remote logout failed", zap.Error(err))
		}
	}
	s.log.Info("logged out")
}
