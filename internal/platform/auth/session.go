package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are carried by a session token. Subject holds the actor id and ID the
// token's jti.
type Claims struct {
	jwt.RegisteredClaims
	Handle string `json:"handle"`
	Role   string `json:"role"`
}

// Principal returns the actor the claims were issued to.
func (c *Claims) Principal() (Principal, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("parse subject: %w", err)
	}
	return Principal{ID: id, Handle: c.Handle, Role: c.Role}, nil
}

// Session is an issued token together with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: secret,
		ttl:    ttl,
		issuer: "clinicbook",
		now:    time.Now,
	}
}

// Issue signs a new token for p with a fresh jti.
func (m *SessionManager) Issue(p Principal) (Session, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Handle: p.Handle,
		Role:   p.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature, algorithm, issuer and expiry and returns the claims.
func (m *SessionManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.ID == "" {
		return nil, errors.New("session token has no jti")
	}
	return claims, nil
}
