package service

import (
	"github.com/adminpainel/users-api-go/internal/app/auth"
	"github.com/adminpainel/users-api-go/internal/app/user"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
	"github.com/adminpainel/users-api-go/pkg/cache"
	"github.com/adminpainel/users-api-go/pkg/security"
	"github.com/adminpainel/users-api-go/pkg/storage"
	"go.uber.org/zap"
)

// Services contém todos os serviços da aplicação
type Services struct {
	UserService *user.Service
	AuthService *auth.AuthService
}

// NewServices cria todos os serviços necessários
func NewServices(userRepo repository.UserRepository, store storage.Storage, cache cache.Cache, protectedEmails []string, logger *zap.Logger) (*Services, error) {
	// Criar gerenciador de chaves
	keyManager, err := security.NewKeyManager(logger)
	if err != nil {
		return nil, err
	}

	hasher := security.NewBcryptHasher()

	// Criar serviço de autenticação
	authService := auth.NewAuthService(keyManager, userRepo, hasher, logger)

	// Criar serviço de usuários
	userService := user.NewService(userRepo, store, hasher, cache, logger, protectedEmails)

	return &Services{
		UserService: userService,
		AuthService: authService,
	}, nil
}
