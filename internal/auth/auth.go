// Package auth issues and verifies the bearer tokens that carry an Actor's
// identity. The core never owns a user table: credential lookup goes through
// the IdentityStore interface, and callers inject whatever backs it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docvault/internal/config"
	"docvault/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is an authenticated (email, name, role) triple.
type Identity struct {
	Email string
	Name  string
	Role  model.Role
}

// Actor converts the identity into the request-scoped actor shape.
func (i Identity) Actor() model.Actor {
	return model.Actor{Email: i.Email, Name: i.Name, Role: i.Role}
}

// IdentityStore resolves credentials to an identity.
type IdentityStore interface {
	Lookup(ctx context.Context, email, password string) (*Identity, error)
}

type staticUser struct {
	name string
	role model.Role
	hash []byte
}

// StaticStore is an env-seeded IdentityStore with bcrypt password hashes.
type StaticStore struct {
	users map[string]staticUser
}

var _ IdentityStore = (*StaticStore)(nil)

// NewStaticStore parses semicolon-separated "email:name:role:bcrypt-hash"
// records. Bcrypt hashes contain no ':' or ';' so the format is unambiguous.
func NewStaticStore(cfg config.AuthConfig) (*StaticStore, error) {
	users := make(map[string]staticUser)
	for _, record := range strings.Split(cfg.Users, ";") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		parts := strings.SplitN(record, ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("malformed auth user record %q", record)
		}
		role, err := model.ParseRole(parts[2])
		if err != nil {
			return nil, fmt.Errorf("auth user %s: %w", parts[0], err)
		}
		users[strings.ToLower(parts[0])] = staticUser{
			name: parts[1],
			role: role,
			hash: []byte(parts[3]),
		}
	}
	return &StaticStore{users: users}, nil
}

// Lookup resolves the credentials, comparing the password against the
// stored bcrypt hash. Wrong email and wrong password are indistinguishable.
func (s *StaticStore) Lookup(_ context.Context, email, password string) (*Identity, error) {
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Email: email, Name: u.name, Role: u.role}, nil
}

// Claims is the JWT payload shape.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenManager builds a TokenManager from config.
func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      time.Duration(cfg.ExpirationMin) * time.Minute,
	}, nil
}

// Issue mints a signed token for the identity.
func (m *TokenManager) Issue(id Identity) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name: id.Name,
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (m *TokenManager) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Identity{Email: claims.Subject, Name: claims.Name, Role: role}, nil
}
