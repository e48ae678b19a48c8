// Package services contains server-side business logic: account
// registration and login, and the file orchestrator that keeps the storage
// namespace and the metadata table in step.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/cryptox"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
)

const (
	maxUsernameLen = 64
	// bcrypt ignores everything past 72 bytes; longer passwords are refused.
	maxPasswordBytes = 72
)

// Session is an issued login: the signed token and when it stops being valid.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	logger                  logging.Logger
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	bcryptCost              int
	dummyHash               []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	s := &UserService{
		db:                      db,
		repomanager:             m,
		logger:                  logger.With("module", "users"),
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		bcryptCost:              cfg.BcryptCost,
	}
	// compared against when the username is unknown so both paths cost the same
	s.dummyHash, _ = cryptox.HashPassword([]byte("gophdrive-dummy-password"), cfg.BcryptCost)
	return s
}

// ValidateUsername accepts letters, digits and '_' only.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("%w: username is longer than %d characters", common.ErrorValidation, maxUsernameLen)
	}
	for _, r := range username {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: username may contain only letters, digits and underscore", common.ErrorValidation)
		}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, maxPasswordBytes)
	}
	return nil
}

// Register creates an account. A taken username yields common.ErrorAlreadyExists
// and the existing account is left untouched.
func (s *UserService) Register(ctx context.Context, username, password string) (u *models.User, err error) {
	defer func() { authAttemptsTotal.WithLabelValues("register", result(err)).Inc() }()

	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Warn(ctx, "duplicate registration", "username", username)
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (sess *Session, err error) {
	defer func() { authAttemptsTotal.WithLabelValues("login", result(err)).Inc() }()

	username = strings.TrimSpace(username)

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(s.dummyHash, []byte(password))
			s.logger.Warn(ctx, "login failed", "username", username)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		s.logger.Warn(ctx, "login failed", "username", username)
		return nil, common.ErrorUnauthorized
	}

	expires := time.Now().Add(s.sessionValidityDuration)
	token, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{Token: token, UserID: user.ID, Username: user.UserName, ExpiresAt: expires}, nil
}

// Authenticate resolves a session token to the owner id.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}
