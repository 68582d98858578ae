package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what a verified token proves: who it was issued to and until when.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

// IssuedToken is a signed token string plus its type tag.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenService signs and verifies stateless HMAC tokens. The secret, method
// and default lifetime are fixed at construction.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService accepts HS256, HS384 or HS512.
func NewTokenService(secret []byte, algorithm string, defaultTTL time.Duration) (*TokenService, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty signing secret")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret:     key,
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// Issue signs a token for subject valid for the configured default lifetime.
func (s *TokenService) Issue(subject string) (*IssuedToken, error) {
	return s.IssueFor(subject, s.defaultTTL)
}

// IssueFor signs a token for subject that expires ttl from now. A zero or
// negative ttl yields a token that is already expired.
func (s *TokenService) IssueFor(subject string, ttl time.Duration) (*IssuedToken, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{AccessToken: signed, TokenType: common.TokenTypeBearer}, nil
}

// Verify returns the token's claims, or common.ErrInvalidCredential when the
// signature does not match, the payload is malformed, the subject is missing
// or the token has expired. The cause is deliberately not reported.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidCredential
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidCredential
	}

	out := &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
