// Package users composes the identity store, password hasher, token service
// and guard into the three operations exposed to transports: Register, Login
// and ResolveCaller.
package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"golang.org/x/crypto/bcrypt"
)

// placeholder verified against when the username is unknown, so a miss costs
// the same bcrypt work as a wrong password
const timingPlaceholder = "authkeeper-timing-placeholder"

type Service struct {
	store   identity.Store
	hasher  auth.Hasher
	tokens  *auth.TokenService
	guard   *auth.Guard
	metrics metrics.Recorder
	log     logging.Logger

	// held across the uniqueness checks and the insert
	registerMu sync.Mutex
	dummyHash  string
}

func NewService(store identity.Store, hasher auth.Hasher, tokens *auth.TokenService, rec metrics.Recorder, log logging.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = logging.Nop{}
	}

	dummy, err := hasher.Hash(timingPlaceholder)
	if err != nil {
		// unknown-user logins must still pay for one bcrypt verify
		b, _ := bcrypt.GenerateFromPassword([]byte(timingPlaceholder), bcrypt.DefaultCost)
		dummy = string(b)
		log.Warn(context.Background(), "placeholder hash fell back to default bcrypt cost", "error", err)
	}

	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		guard:     auth.NewGuard(tokens, store),
		metrics:   rec,
		log:       log.With("module", "users"),
		dummyHash: dummy,
	}
}

// Register creates an account and returns its public projection.
//
// Errors: common.ErrInvalidInput, common.ErrDuplicateUsername,
// common.ErrDuplicateEmail, or a wrapped common.ErrorInternal.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*identity.PublicIdentity, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordRegistration(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	// fail fast on obvious conflicts before paying for the hash
	if err := s.checkUnique(ctx, req.Username, req.Email); err != nil {
		return nil, s.registrationFailed(ctx, req.Username, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidInput) {
			err = fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		return nil, s.registrationFailed(ctx, req.Username, err)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if err := s.checkUnique(ctx, req.Username, req.Email); err != nil {
		return nil, s.registrationFailed(ctx, req.Username, err)
	}

	rec := &identity.Record{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		Disabled:       req.Disabled,
		CredentialHash: hash,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			err = common.ErrDuplicateUsername
		case errors.Is(err, common.ErrDuplicateEmail):
		default:
			err = fmt.Errorf("%w: insert identity: %v", common.ErrorInternal, err)
		}
		return nil, s.registrationFailed(ctx, req.Username, err)
	}

	s.metrics.RecordRegistration(metrics.ResultSuccess)
	s.log.Info(ctx, "user registered", "username", req.Username)
	return rec.Public(), nil
}

// checkUnique reports ErrDuplicateUsername before ErrDuplicateEmail.
func (s *Service) checkUnique(ctx context.Context, username, email string) error {
	_, err := s.store.Lookup(ctx, username)
	switch {
	case err == nil:
		return common.ErrDuplicateUsername
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("%w: lookup identity: %v", common.ErrorInternal, err)
	}

	all, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("%w: list identities: %v", common.ErrorInternal, err)
	}
	for _, r := range all {
		if r.Email == email {
			return common.ErrDuplicateEmail
		}
	}
	return nil
}

func (s *Service) registrationFailed(ctx context.Context, username string, err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername), errors.Is(err, common.ErrDuplicateEmail):
		s.metrics.RecordRegistration(metrics.ResultDuplicate)
		s.log.Info(ctx, "registration rejected", "username", username, "error", err)
	case errors.Is(err, common.ErrInvalidInput):
		s.metrics.RecordRegistration(metrics.ResultInvalid)
	default:
		s.metrics.RecordRegistration(metrics.ResultError)
		s.log.Error(ctx, "registration failed", "username", username, "error", err)
	}
	return err
}

// Login exchanges a username and password for a bearer token. An unknown
// username and a wrong password both yield common.ErrInvalidCredential.
// Disabled accounts can log in; they are stopped by the guard on use.
func (s *Service) Login(ctx context.Context, username, password string) (*auth.IssuedToken, error) {
	rec, err := s.store.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.metrics.RecordLogin(metrics.ResultFailure)
			s.log.Info(ctx, "login failed", "username", username)
			return nil, common.ErrInvalidCredential
		}
		s.metrics.RecordLogin(metrics.ResultError)
		s.log.Error(ctx, "login lookup failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: lookup identity: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, rec.CredentialHash) {
		s.metrics.RecordLogin(metrics.ResultFailure)
		s.log.Info(ctx, "login failed", "username", username)
		return nil, common.ErrInvalidCredential
	}

	tok, err := s.tokens.Issue(username)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		s.log.Error(ctx, "token issue failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.metrics.RecordLogin(metrics.ResultSuccess)
	s.log.Info(ctx, "user logged in", "username", username)
	return tok, nil
}

// ResolveCaller runs the guard chain for a raw token ("" when none was
// presented) and records the outcome.
func (s *Service) ResolveCaller(ctx context.Context, token string) (*identity.PublicIdentity, error) {
	caller, err := s.guard.Resolve(ctx, token)
	s.recordDecision(ctx, err)
	return caller, err
}

// ResolveAuthorization is ResolveCaller for a raw Authorization value, as
// received by the transports.
func (s *Service) ResolveAuthorization(ctx context.Context, header string) (*identity.PublicIdentity, error) {
	caller, err := s.guard.ResolveAuthorization(ctx, header)
	s.recordDecision(ctx, err)
	return caller, err
}

func (s *Service) recordDecision(ctx context.Context, err error) {
	outcome := auth.OutcomeOf(err)
	s.metrics.RecordGuardDecision(string(outcome))
	if outcome == auth.OutcomeError {
		s.log.Error(ctx, "resolve caller failed", "error", err)
	} else {
		s.log.Debug(ctx, "guard decision", "outcome", string(outcome))
	}
}
