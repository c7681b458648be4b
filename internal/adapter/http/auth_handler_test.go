package http_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "github.com/adminpainel/users-api-go/internal/adapter/http"
	"github.com/adminpainel/users-api-go/internal/app/auth"
	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
	"github.com/adminpainel/users-api-go/internal/mocks"
	"github.com/adminpainel/users-api-go/internal/testutils"
	"github.com/adminpainel/users-api-go/pkg/security"
)

type loginEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	} `json:"data"`
}

func setupLoginRoute(t *testing.T, mockRepo *mocks.MockUserRepository) *gin.Engine {
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste-com-mais-de-32-bytes!")

	logger := testutils.TestLogger(t)
	keyManager, err := security.NewKeyManager(logger)
	require.NoError(t, err)

	service := auth.NewAuthService(keyManager, mockRepo, security.NewBcryptHasher(), logger)
	handler := handlers.NewAuthHandler(service, logger)

	router := testutils.SetupTestRouter(t)
	router.POST("/auth/login", handler.Login)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return token and user", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		router := setupLoginRoute(t, mockRepo)

		hash, err := security.NewBcryptHasher().Hash("senha-forte")
		require.NoError(t, err)

		entity := &model.UserEntity{
			ID:          5,
			Name:        "Admin",
			Email:       "admin@example.com",
			NivelAcesso: 5,
			Password:    hash,
		}
		mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(entity, nil).Once()

		body := map[string]string{"email": "admin@example.com", "password": "senha-forte"}
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/auth/login", body, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusOK)

		var env loginEnvelope
		testutils.ParseResponse(t, resp, &env)
		assert.Equal(t, "success", env.Status)
		assert.NotEmpty(t, env.Data.Token)
		assert.Equal(t, "admin@example.com", env.Data.User.Email)
		assert.NotContains(t, resp.Body.String(), hash)
	})

	t.Run("wrong password responds 401", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		router := setupLoginRoute(t, mockRepo)

		hash, err := security.NewBcryptHasher().Hash("senha-forte")
		require.NoError(t, err)

		entity := &model.UserEntity{ID: 5, Email: "admin@example.com", Password: hash}
		mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(entity, nil).Once()

		body := map[string]string{"email": "admin@example.com", "password": "errada"}
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/auth/login", body, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

		var env loginEnvelope
		testutils.ParseResponse(t, resp, &env)
		assert.Equal(t, "Credenciais inválidas", env.Message)
	})

	t.Run("unknown email responds 401 with the same message", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		router := setupLoginRoute(t, mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "ninguem@example.com").
			Return(nil, repository.ErrUserNotFound).Once()

		body := map[string]string{"email": "ninguem@example.com", "password": "qualquer"}
		resp := testutils.MakeRequest(t, router, http.MethodPost, "/auth/login", body, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

		var env loginEnvelope
		testutils.ParseResponse(t, resp, &env)
		assert.Equal(t, "Credenciais inválidas", env.Message)
	})

	t.Run("missing fields respond 400", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		router := setupLoginRoute(t, mockRepo)

		resp := testutils.MakeRequest(t, router, http.MethodPost, "/auth/login", map[string]string{}, nil)
		testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

		mockRepo.AssertNotCalled(t, "FindByEmail")
	})
}
