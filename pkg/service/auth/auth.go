package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// dummyHash is compared against when the email is unknown so that a failed
// lookup costs the same as a wrong password.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

type Strategy interface {
	Login(ctx context.Context, email, password string) (*user.User, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, u *user.User) (string, error)
}

// SignupInput carries the registration form.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

type Service struct {
	uow      repository.UnitOfWork
	strategy Strategy
	logger   *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	strategy Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, strategy: strategy, logger: logger}
}

func NewWithBasic(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return New(uow, NewBasicAuthStrategy(uow, logger), logger)
}

func NewWithJWT(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return New(uow, NewJWTStrategy(uow, cfg, logger), logger)
}

// Signup registers a new user. The email must be unused and the password
// confirmation must match.
func (s *Service) Signup(ctx context.Context, in SignupInput) (u *user.User, err error) {
	log := s.logger.With("context", "Signup", "email", in.Email)
	log.Debug("Signup called")
	if in.Password != in.ConfirmPassword {
		return nil, domain.NewValidationError("confirmPassword", "passwords do not match")
	}
	u, err = user.New(in.FirstName, in.LastName, in.Email, in.Password)
	if err != nil {
		log.Warn("Signup rejected", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		exists, err := repo.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError(domain.ResourceUser, "email", "email is already registered")
		}
		return repo.Create(ctx, u)
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		err = domain.NewConflictError(domain.ResourceUser, "email", "email is already registered")
	}
	if err != nil {
		log.Error("Signup failed", "error", err)
		return nil, err
	}
	log.Info("Signup successful", "userID", u.ID)
	return u, nil
}

// GetCurrentUserId extracts the acting user's id from a verified token.
func (s *Service) GetCurrentUserId(
	token *jwt.Token,
) (userID uuid.UUID, err error) {
	log := s.logger.With("context", "GetCurrentUserId")
	userID, err = s.strategy.GetCurrentUserID(
		context.WithValue(
			context.Background(),
			userContextKey,
			token,
		),
	)
	if err != nil {
		log.Error("GetCurrentUserId failed", "error", err)
		return
	}
	log.Debug("GetCurrentUserId successful", "userID", userID)
	return
}

func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (u *user.User, err error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called", "email", email)
	u, err = s.strategy.Login(ctx, email, password)
	if err != nil {
		log.Error("Login failed", "email", email, "error", err)
		return nil, err
	}
	log.Info("Login successful", "userID", u.ID)
	return
}

func (s *Service) GenerateToken(
	ctx context.Context,
	u *user.User,
) (string, error) {
	log := s.logger.With("userID", u.ID)
	token, err := s.strategy.GenerateToken(ctx, u)
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Debug("GenerateToken successful")
	return token, nil
}

// lookup checks credentials against the stored bcrypt hash.
func lookup(ctx context.Context, uow repository.UnitOfWork, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u *user.User
	err := uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		_ = utils.CheckPasswordHash(password, dummyHash)
		return nil, user.ErrUserUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, user.ErrUserUnauthorized
	}
	return u, nil
}

// JWTStrategy authenticates with email and password and issues HS256 tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func NewJWTStrategy(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger}
}

func (s *JWTStrategy) GenerateToken(
	ctx context.Context,
	u *user.User,
) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["email"] = u.Email
	claims["user_id"] = u.ID.String()
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("GenerateToken failed", "userID", u.ID, "error", err)
		return "", err
	}
	return tokenString, nil
}

func (s *JWTStrategy) Login(
	ctx context.Context,
	email, password string,
) (*user.User, error) {
	return lookup(ctx, s.uow, email, password)
}

func (s *JWTStrategy) GetCurrentUserID(
	ctx context.Context,
) (uuid.UUID, error) {
	token, ok := ctx.Value(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Error("GetCurrentUserID failed", "error", err)
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return userID, nil
}

// BasicAuthStrategy checks credentials without issuing tokens. The operator
// CLI uses it; the acting user is carried in the context by WithUser.
type BasicAuthStrategy struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewBasicAuthStrategy(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *BasicAuthStrategy {
	return &BasicAuthStrategy{uow: uow, logger: logger}
}

// WithUser returns a context carrying userID for BasicAuthStrategy.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

func (s *BasicAuthStrategy) Login(
	ctx context.Context,
	email, password string,
) (*user.User, error) {
	s.logger.Debug("BasicAuth Login called", "email", email)
	return lookup(ctx, s.uow, email, password)
}

func (s *BasicAuthStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return userID, nil
}

func (s *BasicAuthStrategy) GenerateToken(ctx context.Context, u *user.User) (string, error) {
	return "", nil // no token for basic auth
}
