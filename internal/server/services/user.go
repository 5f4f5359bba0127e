// Package services contains the server business logic: account management
// and token issuance in UserService, file upload, sharing and download in
// FileService.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type registerInput struct {
	UserName string `name:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `name:"email" validate:"required,email"`
	Password string `name:"password" validate:"required,min=6"`
}

// UserService registers users, logs them in and resolves bearer tokens.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	// dummyHash is compared against when the user does not exist so that
	// unknown and known usernames take comparable time.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	dummy, _ := auth.HashPassword("linkshare-dummy-password")
	return &UserService{
		db:                           db,
		repomanager:                  m,
		log:                          log,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		dummyHash:                    dummy,
	}
}

// Register creates an account. Invalid input wraps common.ErrorValidation;
// a taken username or email wraps common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validateStruct(registerInput{UserName: username, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{UserName: username, Email: email, PasswordHash: hash}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.UserName)
	return u, nil
}

// Login checks the credentials and mints a TokenPair. An unknown user and
// a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = auth.CheckPassword(s.dummyHash, password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Verify resolves an access token into the caller's identity. Any failure
// wraps common.ErrorUnauthorized except store outages, which wrap
// common.ErrorInternal.
func (s *UserService) Verify(ctx context.Context, accessToken string) (auth.Identity, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Identity{}, fmt.Errorf("%w: unknown user", common.ErrorUnauthorized)
		}
		return auth.Identity{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return auth.Identity{UserID: user.ID, UserName: user.UserName}, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
