package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adminpainel/users-api-go/internal/app/auth"
	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
	"github.com/adminpainel/users-api-go/internal/mocks"
	"github.com/adminpainel/users-api-go/internal/testutils"
	"github.com/adminpainel/users-api-go/pkg/security"
)

const testSecret = "segredo-de-teste-com-mais-de-32-bytes!"

func newAuthService(t *testing.T, repo auth.UserRepository) *auth.AuthService {
	t.Setenv("JWT_SECRET_KEY", testSecret)

	logger := testutils.TestLogger(t)
	keyManager, err := security.NewKeyManager(logger)
	require.NoError(t, err)

	return auth.NewAuthService(keyManager, repo, security.NewBcryptHasher(), logger)
}

func hashedPassword(t *testing.T, plaintext string) string {
	hash, err := security.NewBcryptHasher().Hash(plaintext)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return token and user", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newAuthService(t, mockRepo)

		entity := &model.UserEntity{
			ID:          5,
			Name:        "Admin",
			Email:       "admin@example.com",
			CPF:         "11122233344",
			NivelAcesso: 5,
			Password:    hashedPassword(t, "senha-forte"),
		}
		mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(entity, nil).Once()

		token, u, err := service.Login(ctx, "admin@example.com", "senha-forte")
		require.NoError(t, err)

		assert.NotEmpty(t, token)
		assert.Equal(t, uint(5), u.ID)
		assert.Equal(t, "admin@example.com", u.Email)
	})

	t.Run("wrong password and unknown email respond alike", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newAuthService(t, mockRepo)

		entity := &model.UserEntity{
			ID:       5,
			Email:    "admin@example.com",
			Password: hashedPassword(t, "senha-forte"),
		}
		mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(entity, nil).Once()
		mockRepo.On("FindByEmail", mock.Anything, "ninguem@example.com").
			Return(nil, repository.ErrUserNotFound).Once()

		_, _, errWrongPassword := service.Login(ctx, "admin@example.com", "errada")
		_, _, errUnknownEmail := service.Login(ctx, "ninguem@example.com", "qualquer")

		require.Error(t, errWrongPassword)
		require.Error(t, errUnknownEmail)
		// A mensagem não pode revelar se o email existe
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a freshly issued token", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newAuthService(t, mockRepo)

		entity := &model.UserEntity{
			ID:          5,
			Email:       "admin@example.com",
			NivelAcesso: 5,
			Password:    hashedPassword(t, "senha-forte"),
		}
		mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(entity, nil).Once()
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(entity, nil).Once()

		token, _, err := service.Login(ctx, "admin@example.com", "senha-forte")
		require.NoError(t, err)

		u, err := service.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, uint(5), u.ID)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newAuthService(t, mockRepo)

		_, err := service.ValidateToken(ctx, "nao-e-um-token")
		require.Error(t, err)

		mockRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newAuthService(t, mockRepo)

		logger := testutils.TestLogger(t)
		keyManager, err := security.NewKeyManager(logger)
		require.NoError(t, err)

		token, err := keyManager.GenerateToken(5, 5, -time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateToken(ctx, token)
		require.Error(t, err)
		assert.Equal(t, "token expirado", err.Error())
	})
}
