// Package services contains server-side business logic. AuthService turns
// credentials into access tokens and tokens back into accounts; TaskService
// applies the per-user ownership rules to task operations.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/shared"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, record string) bool
}

type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
	metrics     *metrics.Metrics

	// dummyHash is verified against when the username is unknown, so a
	// miss costs one bcrypt comparison just like a wrong password.
	dummyHash string
}

func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer,
	logger logging.Logger, m *metrics.Metrics) *AuthService {

	s := &AuthService{
		db:          db,
		repomanager: rm,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		metrics:     m,
	}

	// on failure the empty record simply never verifies
	if seed, err := shared.MakeRandHexString(16); err == nil {
		s.dummyHash, _ = hasher.Hash(seed)
	}

	return s
}

// SignUp creates an account. A taken username yields common.ErrorConflict;
// anything else that goes wrong is common.ErrorInternal.
func (s *AuthService) SignUp(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		s.metrics.ObserveAuth("signup", metrics.ResultError)
		return common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Info(ctx, "signup rejected, username taken", "username", username)
			s.metrics.ObserveAuth("signup", metrics.ResultConflict)
			return common.ErrorConflict
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		s.metrics.ObserveAuth("signup", metrics.ResultError)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed up", "username", username)
	s.metrics.ObserveAuth("signup", metrics.ResultOK)
	return nil
}

// SignIn returns an access token. Unknown username and wrong password are
// both reported as common.ErrorUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.Info(ctx, "signin rejected", "username", username)
			s.metrics.ObserveAuth("signin", metrics.ResultDenied)
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		s.metrics.ObserveAuth("signin", metrics.ResultError)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "signin rejected", "username", username)
		s.metrics.ObserveAuth("signin", metrics.ResultDenied)
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.UserName)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		s.metrics.ObserveAuth("signin", metrics.ResultError)
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed in", "username", username)
	s.metrics.ObserveAuth("signin", metrics.ResultOK)
	return token, nil
}

// Authenticate resolves a bearer token to its account. The account is looked
// up on every call, so a token outliving its account is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "reason", err)
		s.metrics.ObserveAuth("authenticate", metrics.ResultDenied)
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "token for unknown user", "username", username)
			s.metrics.ObserveAuth("authenticate", metrics.ResultDenied)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		s.metrics.ObserveAuth("authenticate", metrics.ResultError)
		return nil, common.ErrorInternal
	}

	s.metrics.ObserveAuth("authenticate", metrics.ResultOK)
	return user, nil
}
