package service

import (
	"context"
	"fmt"
	"strings"

	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/auth"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/ratelimit"
)

// UserService is the authentication collaborator. Every position and trade
// query is scoped by the dto.AuthUser it returns.
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.AuthUser, error)
	Authenticate(ctx context.Context, externalID, password string) (*dto.AuthUser, error)
	IssueToken(ctx context.Context, user dto.AuthUser) (*dto.AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*dto.AuthUser, error)
}

type userService struct {
	cfg          *config.Config
	log          *logger.Logger
	userRepo     repository.UserRepository
	tokenIssuer  *auth.TokenIssuer
	loginLimiter *ratelimit.LimiterStore
}

// NewUserService builds the service. A nil tokenIssuer disables bearer tokens;
// Basic credentials keep working.
func NewUserService(
	cfg *config.Config,
	log *logger.Logger,
	userRepo repository.UserRepository,
	tokenIssuer *auth.TokenIssuer,
) UserService {
	return &userService{
		cfg:          cfg,
		log:          log,
		userRepo:     userRepo,
		tokenIssuer:  tokenIssuer,
		loginLimiter: ratelimit.NewLimiterStore(ratelimit.PerMinute(cfg.Auth.MaxLoginPerMinute), cfg.Auth.MaxLoginBurst, cfg.Auth.LoginLimiterTTL),
	}
}

func toAuthUser(u *model.User) *dto.AuthUser {
	return &dto.AuthUser{
		ID:         u.ID,
		Name:       u.Name,
		ExternalID: u.ExternalID,
		IsActive:   u.IsActive,
	}
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.AuthUser, error) {
	externalID := strings.TrimSpace(req.UserID)
	if externalID == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: userid and a password of at least 6 characters are required", dto.ErrValidation)
	}

	existing, err := s.userRepo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get user", logger.ErrorField(err), logger.StringField("userid", externalID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, dto.ErrUserExists
	}

	hashed, err := auth.HashPassword(req.Password, s.cfg.Auth.PasswordHashCostLevel)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to hash password", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user := &model.User{
		Name:       req.Name,
		ExternalID: externalID,
		Password:   hashed,
		IsActive:   isActive,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		s.log.ErrorContext(ctx, "Failed to create user", logger.ErrorField(err), logger.StringField("userid", externalID))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.InfoContext(ctx, "User created", logger.UintField("user_id", user.ID), logger.StringField("userid", externalID))
	return toAuthUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, externalID, password string) (*dto.AuthUser, error) {
	if !s.loginLimiter.Allow(externalID) {
		s.log.WarnContext(ctx, "Too many login attempts", logger.StringField("userid", externalID))
		return nil, dto.ErrTooManyAttempts
	}

	user, err := s.userRepo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get user", logger.ErrorField(err), logger.StringField("userid", externalID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, dto.ErrUserNotFound
	}
	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, dto.ErrInvalidCredentials
	}
	return toAuthUser(user), nil
}

func (s *userService) IssueToken(ctx context.Context, user dto.AuthUser) (*dto.AuthResponse, error) {
	resp := &dto.AuthResponse{AuthUser: user}
	if s.tokenIssuer == nil {
		return resp, nil
	}

	token, expiresAt, err := s.tokenIssuer.Generate(user.ID, user.ExternalID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to generate token", logger.ErrorField(err), logger.UintField("user_id", user.ID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	resp.Token = token
	resp.ExpiresAt = expiresAt
	return resp, nil
}

func (s *userService) VerifyToken(ctx context.Context, token string) (*dto.AuthUser, error) {
	if s.tokenIssuer == nil {
		return nil, dto.ErrUnauthorised
	}

	claims, err := s.tokenIssuer.Validate(token)
	if err != nil {
		s.log.DebugContext(ctx, "Rejected bearer token", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", dto.ErrUnauthorised, err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get user", logger.ErrorField(err), logger.UintField("user_id", claims.UserID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.ExternalID != claims.ExternalID {
		return nil, dto.ErrUserNotFound
	}
	return toAuthUser(user), nil
}
