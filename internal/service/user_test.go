package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xdf2508/e-family/pkg/errors"

	"github.com/xdf2508/e-family/internal/auth"
	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/wechat"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 7*24*time.Hour)
}

func newUserTestService(users *mockUserRepository, exchanger *mockCodeExchanger, producer *mockEventPublisher) *UserService {
	return NewUserService(users, exchanger, newTestJWTManager(), producer, newTestLogger())
}

func storedUser() *domain.User {
	now := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           "user-1",
		OpenID:       "wx-openid-1",
		UserName:     domain.DefaultUserName,
		VipLevel:     domain.VipLevelNormal,
		RegisterTime: now,
		UpdatedAt:    now,
	}
}

// --- Login Tests ---

func TestLogin_NewUser(t *testing.T) {
	users := new(mockUserRepository)
	exchanger := new(mockCodeExchanger)
	producer := new(mockEventPublisher)
	svc := newUserTestService(users, exchanger, producer)
	ctx := context.Background()

	exchanger.On("ExchangeCode", ctx, "abc123").
		Return(&wechat.Session{OpenID: "wx-openid-1", SessionKey: "sk"}, nil)
	users.On("GetOrCreate", ctx, mock.AnythingOfType("*domain.User")).
		Return(storedUser(), true, nil)
	producer.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	users.On("Counts", ctx, "user-1").Return(0, 0, nil)

	result, err := svc.Login(ctx, "abc123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, domain.DefaultUserName, result.User.UserName)

	users.AssertExpectations(t)
	exchanger.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestLogin_ReturningUser(t *testing.T) {
	users := new(mockUserRepository)
	exchanger := new(mockCodeExchanger)
	producer := new(mockEventPublisher)
	svc := newUserTestService(users, exchanger, producer)
	ctx := context.Background()

	existing := storedUser()
	existing.UserName = "海风"

	exchanger.On("ExchangeCode", ctx, "abc123").
		Return(&wechat.Session{OpenID: "wx-openid-1", SessionKey: "sk"}, nil)
	users.On("GetOrCreate", ctx, mock.AnythingOfType("*domain.User")).
		Return(existing, false, nil)
	users.On("Counts", ctx, "user-1").Return(3, 2, nil)

	result, err := svc.Login(ctx, "abc123")

	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, "海风", result.User.UserName)
	assert.Equal(t, 3, result.User.TotalOrders)
	assert.Equal(t, 2, result.User.TotalFavorites)

	// No registration event for a returning user.
	producer.AssertNotCalled(t, "PublishUserRegistered", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestLogin_ExchangeFails(t *testing.T) {
	users := new(mockUserRepository)
	exchanger := new(mockCodeExchanger)
	producer := new(mockEventPublisher)
	svc := newUserTestService(users, exchanger, producer)
	ctx := context.Background()

	exchanger.On("ExchangeCode", ctx, "badc0d").
		Return(nil, apperrors.Upstream("wechat", 40029, "invalid code"))

	result, err := svc.Login(ctx, "badc0d")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	users.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestLogin_PublishFailureDoesNotFailLogin(t *testing.T) {
	users := new(mockUserRepository)
	exchanger := new(mockCodeExchanger)
	producer := new(mockEventPublisher)
	svc := newUserTestService(users, exchanger, producer)
	ctx := context.Background()

	exchanger.On("ExchangeCode", ctx, "abc123").
		Return(&wechat.Session{OpenID: "wx-openid-1"}, nil)
	users.On("GetOrCreate", ctx, mock.AnythingOfType("*domain.User")).
		Return(storedUser(), true, nil)
	producer.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).
		Return(assert.AnError)
	users.On("Counts", ctx, "user-1").Return(0, 0, nil)

	result, err := svc.Login(ctx, "abc123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

// --- GetProfile Tests ---

func TestGetProfile_Success(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-openid-1").Return(storedUser(), nil)
	users.On("Counts", ctx, "user-1").Return(5, 1, nil)

	user, err := svc.GetProfile(ctx, "wx-openid-1")

	require.NoError(t, err)
	assert.Equal(t, 5, user.TotalOrders)
	assert.Equal(t, 1, user.TotalFavorites)
	users.AssertExpectations(t)
}

func TestGetProfile_NotFound(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetProfile(ctx, "wx-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- UpdateProfile Tests ---

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-openid-1").Return(storedUser(), nil)
	users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Phone == "13800000000" && u.UserName == domain.DefaultUserName
	})).Return(nil)
	users.On("Counts", ctx, "user-1").Return(0, 0, nil)

	user, err := svc.UpdateProfile(ctx, "wx-openid-1", UpdateProfileInput{Phone: strPtr("13800000000")})

	require.NoError(t, err)
	assert.Equal(t, "13800000000", user.Phone)
	users.AssertExpectations(t)
}

func TestUpdateProfile_InvalidNickname(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-openid-1").Return(storedUser(), nil)

	_, err := svc.UpdateProfile(ctx, "wx-openid-1", UpdateProfileInput{UserName: strPtr("bad<name>")})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- UpdateNickname Tests ---

func TestUpdateNickname_TrimsWhitespace(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-openid-1").Return(storedUser(), nil)
	users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserName == "小明"
	})).Return(nil)
	users.On("Counts", ctx, "user-1").Return(0, 0, nil)

	user, err := svc.UpdateNickname(ctx, "wx-openid-1", "  小明  ")

	require.NoError(t, err)
	assert.Equal(t, "小明", user.UserName)
}

func TestUpdateNickname_TooLong(t *testing.T) {
	users := new(mockUserRepository)
	svc := newUserTestService(users, new(mockCodeExchanger), new(mockEventPublisher))
	ctx := context.Background()

	users.On("GetByOpenID", ctx, "wx-openid-1").Return(storedUser(), nil)

	_, err := svc.UpdateNickname(ctx, "wx-openid-1", strings.Repeat("长", 21))

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
