package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xdf2508/e-family/pkg/errors"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/repository"
)

// UserService implements login and profile management.
type UserService struct {
	users    repository.UserRepository
	wechat   CodeExchanger
	tokens   TokenIssuer
	producer EventPublisher
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, wechat CodeExchanger, tokens TokenIssuer, producer EventPublisher, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		wechat:   wechat,
		tokens:   tokens,
		producer: producer,
		logger:   logger,
	}
}

// LoginResult is the outcome of a successful credential exchange.
type LoginResult struct {
	Token     string       `json:"token"`
	User      *domain.User `json:"userInfo"`
	IsNewUser bool         `json:"isNewUser"`
}

// Login exchanges a mini-program login code for a session token, registering
// the account on first sight of the openid.
func (s *UserService) Login(ctx context.Context, code string) (*LoginResult, error) {
	session, err := s.wechat.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate := &domain.User{
		ID:           uuid.New().String(),
		OpenID:       session.OpenID,
		UserName:     domain.DefaultUserName,
		VipLevel:     domain.VipLevelNormal,
		RegisterTime: now,
		UpdatedAt:    now,
	}

	user, created, err := s.users.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	if created {
		if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "user registered",
			slog.String("user_id", user.ID),
		)
	}

	token, err := s.tokens.Issue(user.OpenID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	if err := s.attachCounts(ctx, user); err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		User:      user,
		IsNewUser: created,
	}, nil
}

// GetProfile returns the profile for the openid with live order and
// favorite counts.
func (s *UserService) GetProfile(ctx context.Context, openid string) (*domain.User, error) {
	user, err := s.users.GetByOpenID(ctx, openid)
	if err != nil {
		return nil, fmt.Errorf("get user by openid: %w", err)
	}

	if err := s.attachCounts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput holds the optional profile fields to change. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	UserName *string
	Avatar   *string
	Phone    *string
}

// UpdateProfile applies a partial profile update and returns the new profile.
func (s *UserService) UpdateProfile(ctx context.Context, openid string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByOpenID(ctx, openid)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.UserName != nil {
		name := strings.TrimSpace(*input.UserName)
		if !domain.ValidNickname(name) {
			return nil, apperrors.InvalidInput("nickname must be 1-20 characters without special characters")
		}
		user.UserName = name
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID),
	)

	if err := s.attachCounts(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateNickname validates and sets a new display name.
func (s *UserService) UpdateNickname(ctx context.Context, openid, nickname string) (*domain.User, error) {
	return s.UpdateProfile(ctx, openid, UpdateProfileInput{UserName: &nickname})
}

func (s *UserService) attachCounts(ctx context.Context, user *domain.User) error {
	orders, favorites, err := s.users.Counts(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("count user collections: %w", err)
	}
	user.TotalOrders = orders
	user.TotalFavorites = favorites
	return nil
}
