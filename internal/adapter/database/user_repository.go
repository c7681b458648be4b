package database

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository sobre GORM.
// Os índices únicos de email e cpf são a garantia de unicidade mesmo sob
// inserções concorrentes; violações do banco são traduzidas para os erros
// sentinela do domínio.
type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository cria um novo repositório de usuários
func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Insert persiste um novo usuário e preenche o ID gerado
func (r *UserRepository) Insert(ctx context.Context, user *model.UserEntity) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return r.translateError(err)
	}
	return nil
}

// FindByID busca um usuário pelo ID
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail busca um usuário pelo email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update aplica os campos do usuário existente. Usa Select para garantir
// que campos zerados (como ProfilePhoto nulo) também sejam escritos.
func (r *UserRepository) Update(ctx context.Context, user *model.UserEntity) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserEntity{ID: user.ID}).
		Select("Name", "Email", "CPF", "NivelAcesso", "ProfilePhoto").
		Updates(map[string]interface{}{
			"name":          user.Name,
			"email":         user.Email,
			"cpf":           user.CPF,
			"nivel_acesso":  user.NivelAcesso,
			"profile_photo": user.ProfilePhoto,
		})
	if result.Error != nil {
		return r.translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Delete remove um usuário pelo ID
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.UserEntity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// ListAll retorna todos os usuários em ordem de inserção
func (r *UserRepository) ListAll(ctx context.Context) ([]*model.UserEntity, error) {
	var users []*model.UserEntity
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// EmailInUse verifica se o email pertence a outro usuário
func (r *UserRepository) EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.inUse(ctx, "email = ?", email, excludeID)
}

// CPFInUse verifica se o cpf (apenas dígitos) pertence a outro usuário
func (r *UserRepository) CPFInUse(ctx context.Context, cpf string, excludeID uint) (bool, error) {
	return r.inUse(ctx, "cpf = ?", cpf, excludeID)
}

func (r *UserRepository) inUse(ctx context.Context, condition, value string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.UserEntity{}).Where(condition, value)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// translateError converte violações de índice único do driver nos erros
// sentinela do domínio. A checagem por nome de coluna cobre sqlite
// ("UNIQUE constraint failed: users.email"), postgres (nome do índice) e
// mysql (nome da chave).
func (r *UserRepository) translateError(err error) error {
	msg := strings.ToLower(err.Error())

	isDuplicate := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate")

	if !isDuplicate {
		return err
	}

	r.logger.Warn("violação de unicidade detectada pelo banco", zap.Error(err))

	if strings.Contains(msg, "cpf") {
		return repository.ErrDuplicateCPF
	}
	return repository.ErrDuplicateEmail
}
