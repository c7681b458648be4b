package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
	"github.com/adminpainel/users-api-go/pkg/cache"
	apperrors "github.com/adminpainel/users-api-go/pkg/errors"
	"github.com/adminpainel/users-api-go/pkg/security"
	"github.com/adminpainel/users-api-go/pkg/storage"
)

const listCacheKey = "users"

// Service implementa o ciclo de vida de usuários: validação, unicidade
// de email/cpf, hash de senha e o ciclo de vida da foto de perfil.
type Service struct {
	repo      repository.UserRepository
	storage   storage.Storage
	hasher    security.PasswordHasher
	cache     cache.Cache
	logger    *zap.Logger
	protected map[string]struct{}
}

// NewService cria um novo serviço de usuários. protectedEmails lista as
// contas que não podem ser alteradas nem removidas (vazio desabilita a
// política).
func NewService(repo repository.UserRepository, blobStorage storage.Storage, hasher security.PasswordHasher, cache cache.Cache, logger *zap.Logger, protectedEmails []string) *Service {
	protected := make(map[string]struct{}, len(protectedEmails))
	for _, email := range protectedEmails {
		protected[strings.ToLower(email)] = struct{}{}
	}

	return &Service{
		repo:      repo,
		storage:   blobStorage,
		hasher:    hasher,
		cache:     cache,
		logger:    logger,
		protected: protected,
	}
}

// Create valida e persiste um novo usuário. A foto, quando presente, é
// gravada no armazenamento de blobs somente depois de toda a validação
// passar; se a inserção do registro falhar, o blob recém-gravado é
// removido (melhor esforço) e o erro original é retornado.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if verrs := input.Validate(); verrs.HasErrors() {
		return nil, verrs
	}

	cpf := NormalizeCPF(input.CPF)

	if err := s.checkUniqueness(ctx, input.Email, cpf, 0); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("falha ao gerar hash da senha", zap.Error(err))
		return nil, err
	}

	var photoKey *string
	if input.Photo != nil && !input.RemovePhoto {
		key, err := s.storage.Put(ctx, input.Photo.Data, input.Photo.ContentType)
		if err != nil {
			s.logger.Error("falha ao gravar foto de perfil", zap.Error(err))
			return nil, err
		}
		photoKey = &key
	}

	entity := &model.UserEntity{
		Name:         input.Name,
		Email:        input.Email,
		CPF:          cpf,
		NivelAcesso:  input.NivelAcesso,
		Password:     hashed,
		ProfilePhoto: photoKey,
	}

	if err := s.repo.Insert(ctx, entity); err != nil {
		// A escrita do blob precede o insert; em caso de falha o blob
		// órfão é removido e o erro original é preservado.
		if photoKey != nil {
			s.discardBlob(ctx, *photoKey)
		}
		return nil, s.mapRepositoryError(entity.ID, err)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("usuário criado",
		zap.Uint("id", entity.ID),
		zap.String("email", entity.Email))

	return entity.ToUser(), nil
}

// Update aplica os campos presentes no input ao usuário. O ciclo de vida
// da foto tem exatamente três desfechos: remoção (RemovePhoto), troca
// (nova foto presente) ou nenhuma alteração.
func (s *Service) Update(ctx context.Context, id uint, input UpdateUserInput) (*model.User, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepositoryError(id, err)
	}

	if s.isProtected(entity.Email) {
		return nil, apperrors.NewForbidden("conta protegida não pode ser alterada")
	}

	if verrs := input.Validate(); verrs.HasErrors() {
		return nil, verrs
	}

	email := entity.Email
	if input.Email != nil {
		email = *input.Email
	}

	cpf := entity.CPF
	if input.CPF != nil {
		cpf = NormalizeCPF(*input.CPF)
	}

	if err := s.checkUniqueness(ctx, email, cpf, id); err != nil {
		return nil, err
	}

	if input.Name != nil {
		entity.Name = *input.Name
	}
	entity.Email = email
	entity.CPF = cpf
	if input.NivelAcesso != nil {
		entity.NivelAcesso = *input.NivelAcesso
	}

	// Ciclo de vida da foto: o registro só passa a apontar para a nova
	// chave depois que o blob novo foi gravado; o blob antigo só é
	// removido depois que o registro foi atualizado, para que nenhum
	// registro aponte para um blob já removido.
	var oldPhoto *string
	var newPhoto *string

	switch {
	case input.RemovePhoto:
		oldPhoto = entity.ProfilePhoto
		entity.ProfilePhoto = nil
	case input.Photo != nil:
		key, err := s.storage.Put(ctx, input.Photo.Data, input.Photo.ContentType)
		if err != nil {
			s.logger.Error("falha ao gravar nova foto de perfil",
				zap.Uint("id", id),
				zap.Error(err))
			return nil, err
		}
		oldPhoto = entity.ProfilePhoto
		newPhoto = &key
		entity.ProfilePhoto = newPhoto
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		if newPhoto != nil {
			s.discardBlob(ctx, *newPhoto)
		}
		return nil, s.mapRepositoryError(id, err)
	}

	// Blob antigo: remoção em melhor esforço. Falha aqui deixa um blob
	// obsoleto para trás, é logada e não desfaz a atualização.
	if oldPhoto != nil {
		s.deleteIfExists(ctx, *oldPhoto)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("usuário atualizado", zap.Uint("id", entity.ID))

	return entity.ToUser(), nil
}

// Delete remove o registro do usuário. A foto de perfil NÃO é removida
// do armazenamento de blobs: a limpeza é responsabilidade do chamador.
func (s *Service) Delete(ctx context.Context, id uint) error {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepositoryError(id, err)
	}

	if s.isProtected(entity.Email) {
		return apperrors.NewForbidden("conta protegida não pode ser removida")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepositoryError(id, err)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("usuário removido", zap.Uint("id", id))
	return nil
}

// GetByID busca um usuário pelo ID
func (s *Service) GetByID(ctx context.Context, id uint) (*model.User, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepositoryError(id, err)
	}
	return entity.ToUser(), nil
}

// List retorna todos os usuários em ordem de inserção, sem o hash de senha
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User

	// Tentar cache primeiro
	found, err := s.cache.Get(ctx, listCacheKey, &users)
	if err != nil {
		s.logger.Error("erro ao buscar usuários do cache", zap.Error(err))
		return nil, err
	}

	if found {
		return users, nil
	}

	// Se não estiver no cache, buscar do repositório
	entities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	users = make([]*model.User, 0, len(entities))
	for _, entity := range entities {
		users = append(users, entity.ToUser())
	}

	// Armazenar no cache para futuras requisições
	if err := s.cache.Set(ctx, listCacheKey, users, 5*time.Minute); err != nil {
		s.logger.Warn("erro ao armazenar usuários no cache", zap.Error(err))
	}

	return users, nil
}

// checkUniqueness verifica email e cpf contra o repositório, ignorando o
// próprio registro quando excludeID > 0
func (s *Service) checkUniqueness(ctx context.Context, email, cpf string, excludeID uint) error {
	inUse, err := s.repo.EmailInUse(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.NewConflict("email", "Este email já foi cadastrado")
	}

	inUse, err = s.repo.CPFInUse(ctx, cpf, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.NewConflict("cpf", "Este cpf já foi cadastrado")
	}

	return nil
}

// mapRepositoryError converte erros sentinela do repositório nos tipos de
// erro de domínio correspondentes
func (s *Service) mapRepositoryError(id uint, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return apperrors.NewNotFound("usuário", id)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict("email", "Este email já foi cadastrado")
	case errors.Is(err, repository.ErrDuplicateCPF):
		return apperrors.NewConflict("cpf", "Este cpf já foi cadastrado")
	default:
		return err
	}
}

// deleteIfExists remove um blob apenas se ele ainda existir; chave ausente
// não é erro (remoção idempotente)
func (s *Service) deleteIfExists(ctx context.Context, key string) {
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("falha ao verificar blob antigo",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	if !exists {
		return
	}

	if _, err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("falha ao remover blob antigo",
			zap.String("key", key),
			zap.Error(err))
	}
}

// discardBlob remove, em melhor esforço, um blob recém-gravado cuja
// operação de registro falhou
func (s *Service) discardBlob(ctx context.Context, key string) {
	if _, err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("falha ao descartar blob órfão",
			zap.String("key", key),
			zap.Error(err))
	}
}

// isProtected verifica se o email pertence a uma conta protegida
func (s *Service) isProtected(email string) bool {
	_, ok := s.protected[strings.ToLower(email)]
	return ok
}

// invalidateListCache descarta a listagem em cache após qualquer mutação
func (s *Service) invalidateListCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("erro ao invalidar cache de usuários", zap.Error(err))
	}
}
