package repository

import (
	"context"
	"errors"

	"github.com/adminpainel/users-api-go/internal/domain/model"
)

var (
	ErrUserNotFound   = errors.New("usuário não encontrado")
	ErrDuplicateEmail = errors.New("email já cadastrado")
	ErrDuplicateCPF   = errors.New("cpf já cadastrado")
)

// UserRepository define a interface para armazenamento de usuários.
// A unicidade de email e cpf é garantida pelo próprio store (índices
// únicos); violações são reportadas como ErrDuplicateEmail/ErrDuplicateCPF.
type UserRepository interface {
	// Insert persiste um novo usuário e preenche o ID gerado
	Insert(ctx context.Context, user *model.UserEntity) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id uint) (*model.UserEntity, error)

	// FindByEmail busca um usuário pelo email
	FindByEmail(ctx context.Context, email string) (*model.UserEntity, error)

	// Update aplica os campos informados ao usuário existente
	Update(ctx context.Context, user *model.UserEntity) error

	// Delete remove um usuário pelo ID
	Delete(ctx context.Context, id uint) error

	// ListAll retorna todos os usuários em ordem de inserção
	ListAll(ctx context.Context) ([]*model.UserEntity, error)

	// EmailInUse verifica se o email pertence a outro usuário (excludeID = 0 considera todos)
	EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error)

	// CPFInUse verifica se o cpf (apenas dígitos) pertence a outro usuário
	CPFInUse(ctx context.Context, cpf string, excludeID uint) (bool, error)
}
