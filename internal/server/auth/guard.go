// Package auth contains the credential primitives of the server: password
// hashing, token issuance and verification, and the guard chain that turns a
// presented bearer token into an active caller identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
)

// Outcome is the terminal state reached by the guard chain for one request.
type Outcome string

const (
	OutcomeAuthorized        Outcome = "authorized"
	OutcomeUnauthenticated   Outcome = "unauthenticated"
	OutcomeInvalidCredential Outcome = "invalid_credential"
	OutcomeInactive          Outcome = "inactive"
	OutcomeError             Outcome = "error"
)

// OutcomeOf classifies an error returned by Guard.Resolve.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAuthorized
	case errors.Is(err, common.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case errors.Is(err, common.ErrInvalidCredential):
		return OutcomeInvalidCredential
	case errors.Is(err, common.ErrInactive):
		return OutcomeInactive
	default:
		return OutcomeError
	}
}

// TokenVerifier is the part of TokenService the guard depends on.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// IdentityLookup is the part of identity.Store the guard depends on.
type IdentityLookup interface {
	Lookup(ctx context.Context, username string) (*identity.Record, error)
}

// Guard resolves presented tokens into active identities.
//
// Signature and expiry are checked before the store is consulted, and an
// unknown subject is reported exactly like a bad signature. Only a holder of
// an otherwise valid token for an existing account learns that the account is
// disabled.
type Guard struct {
	tokens TokenVerifier
	store  IdentityLookup
}

func NewGuard(tokens TokenVerifier, store IdentityLookup) *Guard {
	return &Guard{tokens: tokens, store: store}
}

// Resolve runs the chain for a raw token string ("" means none presented).
//
// Errors: common.ErrUnauthenticated, common.ErrInvalidCredential,
// common.ErrInactive, or a wrapped store failure.
func (g *Guard) Resolve(ctx context.Context, token string) (*identity.PublicIdentity, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrInvalidCredential
	}

	rec, err := g.store.Lookup(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: lookup subject: %v", common.ErrorInternal, err)
	}

	if rec.Disabled {
		return nil, common.ErrInactive
	}
	return rec.Public(), nil
}

// ResolveAuthorization runs the chain for a raw Authorization value. A
// missing header or another scheme means no token was presented; the Bearer
// scheme with an empty credential is a presented token that fails to verify.
func (g *Guard) ResolveAuthorization(ctx context.Context, header string) (*identity.PublicIdentity, error) {
	token, ok := ParseBearer(header)
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	if token == "" {
		return nil, common.ErrInvalidCredential
	}
	return g.Resolve(ctx, token)
}

// ParseBearer extracts the token from an Authorization header value. ok is
// false when the header is empty or uses another scheme. "Bearer" alone
// yields ok with an empty token.
func ParseBearer(header string) (token string, ok bool) {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
