package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/pkg/security"
)

// UserRepository define a interface para acesso a dados de usuário
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)
	FindByID(ctx context.Context, id uint) (*model.UserEntity, error)
}

// AuthService gerencia operações de autenticação do painel
type AuthService struct {
	keyManager *security.KeyManager
	userRepo   UserRepository
	hasher     security.PasswordHasher
	logger     *zap.Logger
}

// NewAuthService cria um novo serviço de autenticação
func NewAuthService(keyManager *security.KeyManager, userRepo UserRepository, hasher security.PasswordHasher, logger *zap.Logger) *AuthService {
	return &AuthService{
		keyManager: keyManager,
		userRepo:   userRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

// Login autentica um usuário por email/senha e gera um token JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	entity, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("falha na autenticação", zap.String("email", email), zap.Error(err))
		return "", nil, errors.New("credenciais inválidas")
	}

	if err := s.hasher.Compare(entity.Password, password); err != nil {
		s.logger.Warn("senha inválida", zap.String("email", email))
		return "", nil, errors.New("credenciais inválidas")
	}

	// Gerar token com duração de 24 horas
	token, err := s.keyManager.GenerateToken(entity.ID, entity.NivelAcesso, 24*time.Hour)
	if err != nil {
		s.logger.Error("falha ao gerar token", zap.Uint("user_id", entity.ID), zap.Error(err))
		return "", nil, err
	}

	s.logger.Info("login bem-sucedido", zap.Uint("user_id", entity.ID))
	return token, entity.ToUser(), nil
}

// ValidateToken valida um token JWT e retorna o usuário correspondente
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.keyManager.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	entity, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("usuário do token não encontrado", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, errors.New("usuário inválido")
	}

	return entity.ToUser(), nil
}
