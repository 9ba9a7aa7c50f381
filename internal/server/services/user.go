// Package services contains server-side business logic shared by the web
// and gRPC transports. This file implements UserService: registration,
// authentication and session handling.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/passwords"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/metrics"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/dmitrijs2005/severity/internal/server/repositories/repomanager"
)

const MaxUserNameLength = 150

// Session is an authenticated login.
type Session struct {
	Token  string
	Claims *auth.Claims
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	sessions    *auth.Sessions
	metrics     *metrics.Metrics
	log         logging.Logger

	hash      func(string) (string, error)
	dummyHash string
}

func NewUserService(m repomanager.RepositoryManager, sessions *auth.Sessions, mt *metrics.Metrics, log logging.Logger) *UserService {
	s := &UserService{
		repomanager: m,
		sessions:    sessions,
		metrics:     mt,
		log:         log.With("service", "users"),
		hash:        passwords.Hash,
	}
	// verified on unknown usernames so both failure paths cost the same
	if seed, err := common.MakeRandHexString(16); err == nil {
		s.dummyHash, _ = passwords.Hash(seed)
	}
	return s
}

// Register creates an account. Empty or oversized input is
// common.ErrorValidation, a taken username common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *models.User
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		created, err = s.repomanager.Users(tx).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.log.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.metrics.ObserveRegistration()
	s.log.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords
// both yield common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = passwords.Verify(s.dummyHash, password)
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "lookup user failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := passwords.Verify(user.PasswordHash, password)
	if err != nil {
		s.log.Warn(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Login authenticates and mints a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	s.metrics.ObserveLogin(err == nil)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.sessions.Issue(user.ID, user.UserName)
	if err != nil {
		s.log.Error(ctx, "issue token failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{Token: token, Claims: claims}, nil
}

// VerifySession resolves a token to its claims.
func (s *UserService) VerifySession(token string) (*auth.Claims, error) {
	return s.sessions.Verify(token)
}

func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) {
	s.sessions.Revoke(claims)
	if claims != nil {
		s.log.Info(ctx, "user logged out", "user_id", claims.UserID)
	}
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	case utf8.RuneCountInString(username) > MaxUserNameLength:
		return fmt.Errorf("%w: username is longer than %d characters", common.ErrorValidation, MaxUserNameLength)
	}
	return nil
}
