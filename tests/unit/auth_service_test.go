package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/security"
	"propshare-backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthSvc(userRepo *MockUserRepo) service.AuthService {
	tokens := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)
	return service.NewAuthService(userRepo, tokens)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		userRepo.On("GetByEmail", ctx, "ada@test.com").Return(nil, domain.NewNotFoundError("user"))
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 1
		}).Return(nil)

		user, access, refresh, err := svc.Signup(ctx, "Ada", "Ada@Test.com", "", "supersecret")
		assert.NoError(t, err)
		assert.Equal(t, "ada@test.com", user.Email)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		// The stored hash must verify against the original password
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
	})

	t.Run("Duplicate email conflicts", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		userRepo.On("GetByEmail", ctx, "ada@test.com").Return(&domain.User{ID: 1, Email: "ada@test.com"}, nil)

		user, _, _, err := svc.Signup(ctx, "Ada", "ada@test.com", "", "supersecret")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	})

	t.Run("Short password is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		user, _, _, err := svc.Signup(ctx, "Ada", "ada@test.com", "", "short")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	user := &domain.User{ID: 1, Email: "ada@test.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		userRepo.On("GetByEmail", ctx, "ada@test.com").Return(user, nil)

		access, refresh, err := svc.Login(ctx, "ada@test.com", "supersecret")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		userRepo.On("GetByEmail", ctx, "ada@test.com").Return(user, nil)

		_, _, err := svc.Login(ctx, "ada@test.com", "wrong")
		assert.Error(t, err)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})

	t.Run("Unknown email gets the same error as wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := newAuthSvc(userRepo)

		userRepo.On("GetByEmail", ctx, "nobody@test.com").Return(nil, domain.NewNotFoundError("user"))

		_, _, err := svc.Login(ctx, "nobody@test.com", "whatever")
		assert.Error(t, err)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)

	t.Run("Refresh token issues a new pair", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens)

		refresh, err := tokens.GenerateRefreshToken(1, "ada@test.com")
		assert.NoError(t, err)

		userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Email: "ada@test.com"}, nil)

		access, newRefresh, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("Access token is rejected for refresh", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens)

		access, err := tokens.GenerateAccessToken(1, "ada@test.com")
		assert.NoError(t, err)

		_, _, err = svc.RefreshToken(ctx, access)
		assert.Error(t, err)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})
}
