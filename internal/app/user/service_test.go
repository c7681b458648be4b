package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adminpainel/users-api-go/internal/app/user"
	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/internal/domain/repository"
	"github.com/adminpainel/users-api-go/internal/mocks"
	"github.com/adminpainel/users-api-go/internal/testutils"
	"github.com/adminpainel/users-api-go/pkg/cache"
	apperrors "github.com/adminpainel/users-api-go/pkg/errors"
	"github.com/adminpainel/users-api-go/pkg/security"
	"github.com/adminpainel/users-api-go/pkg/storage"
)

func newService(t *testing.T, repo repository.UserRepository, store storage.Storage, protected ...string) *user.Service {
	logger := testutils.TestLogger(t)
	return user.NewService(repo, store, security.NewBcryptHasher(), &cache.NoOpCache{}, logger, protected)
}

func validCreateInput() user.CreateUserInput {
	return user.CreateUserInput{
		Name:        "Maria Silva",
		Email:       "maria@example.com",
		CPF:         "123.456.789-01",
		NivelAcesso: 3,
		Password:    "segredo123",
	}
}

func existingUser() *model.UserEntity {
	return &model.UserEntity{
		ID:          7,
		Name:        "Maria Silva",
		Email:       "maria@example.com",
		CPF:         "12345678901",
		NivelAcesso: 3,
		Password:    "$2a$10$hash",
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists normalized cpf and hashed password", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		mockRepo.On("EmailInUse", mock.Anything, "maria@example.com", uint(0)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, "12345678901", uint(0)).Return(false, nil).Once()

		var saved *model.UserEntity
		mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.UserEntity")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*model.UserEntity)
				saved.ID = 1
			}).
			Return(nil).Once()

		created, err := service.Create(ctx, validCreateInput())
		require.NoError(t, err)

		assert.Equal(t, "12345678901", saved.CPF)
		assert.NotEqual(t, "segredo123", saved.Password)
		require.NoError(t, security.NewBcryptHasher().Compare(saved.Password, "segredo123"))

		// A representação retornada nunca inclui a senha
		assert.Equal(t, uint(1), created.ID)
		assert.Equal(t, "maria@example.com", created.Email)
		assert.Nil(t, created.ProfilePhoto)

		mockRepo.AssertExpectations(t)
	})

	t.Run("collects all validation errors at once", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		input := user.CreateUserInput{
			Name:        "",
			Email:       "not-an-email",
			CPF:         "123",
			NivelAcesso: 9,
			Password:    "",
		}

		_, err := service.Create(ctx, input)
		require.Error(t, err)

		var verrs *apperrors.ValidationError
		require.ErrorAs(t, err, &verrs)

		assert.Contains(t, verrs.Fields, "name")
		assert.Contains(t, verrs.Fields, "email")
		assert.Contains(t, verrs.Fields, "cpf")
		assert.Contains(t, verrs.Fields, "nivel_acesso")
		assert.Contains(t, verrs.Fields, "password")

		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("rejects nivel_acesso outside range", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		for _, nivel := range []int{0, 6} {
			input := validCreateInput()
			input.NivelAcesso = nivel

			_, err := service.Create(ctx, input)

			var verrs *apperrors.ValidationError
			require.ErrorAs(t, err, &verrs, "nivel_acesso %d deveria ser rejeitado", nivel)
			assert.Contains(t, verrs.Fields, "nivel_acesso")
		}

		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		mockRepo.On("EmailInUse", mock.Anything, "maria@example.com", uint(0)).Return(true, nil).Once()

		_, err := service.Create(ctx, validCreateInput())

		var conflict *apperrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "email", conflict.Field)

		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("duplicate cpf detected across formatting variants", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		// O input formatado é comparado pelo valor normalizado
		input := validCreateInput()
		input.CPF = "123 456 789 01"

		mockRepo.On("EmailInUse", mock.Anything, "maria@example.com", uint(0)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, "12345678901", uint(0)).Return(true, nil).Once()

		_, err := service.Create(ctx, input)

		var conflict *apperrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "cpf", conflict.Field)

		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("photo is stored only after validation passes", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		input := validCreateInput()
		input.Email = "invalid"
		input.Photo = &user.PhotoUpload{Data: []byte("img"), ContentType: "image/png"}

		_, err := service.Create(ctx, input)
		require.Error(t, err)

		assert.Zero(t, store.Len(), "nenhum blob deve ser gravado quando a validação falha")
	})

	t.Run("stores photo and references its key", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		input := validCreateInput()
		input.Photo = &user.PhotoUpload{Data: []byte("img-bytes"), ContentType: "image/png"}

		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.UserEntity")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.UserEntity).ID = 2
			}).
			Return(nil).Once()

		created, err := service.Create(ctx, input)
		require.NoError(t, err)

		require.NotNil(t, created.ProfilePhoto)
		exists, err := store.Exists(ctx, *created.ProfilePhoto)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("discards stored photo when insert fails", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		input := validCreateInput()
		input.Photo = &user.PhotoUpload{Data: []byte("img-bytes"), ContentType: "image/jpeg"}

		dbErr := errors.New("disk full")
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("Insert", mock.Anything, mock.Anything).Return(dbErr).Once()

		_, err := service.Create(ctx, input)
		require.ErrorIs(t, err, dbErr)

		assert.Zero(t, store.Len(), "o blob órfão deve ser descartado")
	})

	t.Run("invalidates list cache on success", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		mockCache := new(mocks.MockCache)
		logger := testutils.TestLogger(t)
		service := user.NewService(mockRepo, storage.NewMemoryStorage(), security.NewBcryptHasher(), mockCache, logger, nil)

		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(0)).Return(false, nil).Once()
		mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		mockCache.On("Delete", mock.Anything, "users").Return(nil).Once()

		_, err := service.Create(ctx, validCreateInput())
		require.NoError(t, err)

		mockCache.AssertExpectations(t)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is not found", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, repository.ErrUserNotFound).Once()

		_, err := service.Update(ctx, 99, user.UpdateUserInput{})

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, uint(99), notFound.ID)
	})

	t.Run("empty update changes nothing", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		entity := existingUser()
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, "maria@example.com", uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, "12345678901", uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		updated, err := service.Update(ctx, 7, user.UpdateUserInput{})
		require.NoError(t, err)

		assert.Equal(t, "Maria Silva", updated.Name)
		assert.Equal(t, "maria@example.com", updated.Email)
		assert.Equal(t, "12345678901", updated.CPF)
		assert.Equal(t, 3, updated.NivelAcesso)
	})

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		entity := existingUser()
		newName := "Maria Souza"

		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, "maria@example.com", uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, "12345678901", uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		updated, err := service.Update(ctx, 7, user.UpdateUserInput{Name: &newName})
		require.NoError(t, err)

		assert.Equal(t, "Maria Souza", updated.Name)
		assert.Equal(t, "maria@example.com", updated.Email)
	})

	t.Run("accepts nivel_acesso inside range and rejects outside", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		for _, nivel := range []int{0, 6} {
			nivel := nivel
			mockRepo.On("FindByID", mock.Anything, uint(7)).Return(existingUser(), nil).Once()

			_, err := service.Update(ctx, 7, user.UpdateUserInput{NivelAcesso: &nivel})

			var verrs *apperrors.ValidationError
			require.ErrorAs(t, err, &verrs, "nivel_acesso %d deveria ser rejeitado", nivel)
		}

		valid := 5
		entity := existingUser()
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		updated, err := service.Update(ctx, 7, user.UpdateUserInput{NivelAcesso: &valid})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.NivelAcesso)
	})

	t.Run("remove_photo deletes blob and clears reference", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		key, err := store.Put(ctx, []byte("old"), "image/png")
		require.NoError(t, err)

		entity := existingUser()
		entity.ProfilePhoto = &key

		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		updated, err := service.Update(ctx, 7, user.UpdateUserInput{RemovePhoto: true})
		require.NoError(t, err)

		assert.Nil(t, updated.ProfilePhoto)
		exists, _ := store.Exists(ctx, key)
		assert.False(t, exists, "o blob antigo deve ser removido")
	})

	t.Run("remove_photo without photo is a no-op", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		entity := existingUser()
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		updated, err := service.Update(ctx, 7, user.UpdateUserInput{RemovePhoto: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ProfilePhoto)
	})

	t.Run("new photo replaces the old blob", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		oldKey, err := store.Put(ctx, []byte("old"), "image/png")
		require.NoError(t, err)

		entity := existingUser()
		entity.ProfilePhoto = &oldKey

		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, entity).Return(nil).Once()

		input := user.UpdateUserInput{
			Photo: &user.PhotoUpload{Data: []byte("new"), ContentType: "image/jpeg"},
		}

		updated, err := service.Update(ctx, 7, input)
		require.NoError(t, err)

		require.NotNil(t, updated.ProfilePhoto)
		assert.NotEqual(t, oldKey, *updated.ProfilePhoto)

		oldExists, _ := store.Exists(ctx, oldKey)
		assert.False(t, oldExists, "o blob antigo deve ser removido após a troca")

		newExists, _ := store.Exists(ctx, *updated.ProfilePhoto)
		assert.True(t, newExists)
	})

	t.Run("failed record update discards the new blob and keeps the old", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		oldKey, err := store.Put(ctx, []byte("old"), "image/png")
		require.NoError(t, err)

		entity := existingUser()
		entity.ProfilePhoto = &oldKey

		dbErr := errors.New("connection reset")
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("EmailInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("CPFInUse", mock.Anything, mock.Anything, uint(7)).Return(false, nil).Once()
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(dbErr).Once()

		input := user.UpdateUserInput{
			Photo: &user.PhotoUpload{Data: []byte("new"), ContentType: "image/jpeg"},
		}

		_, err = service.Update(ctx, 7, input)
		require.ErrorIs(t, err, dbErr)

		oldExists, _ := store.Exists(ctx, oldKey)
		assert.True(t, oldExists, "o blob antigo permanece quando a atualização falha")
		assert.Equal(t, 1, store.Len(), "o blob novo deve ser descartado")
	})

	t.Run("protected account cannot be updated", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage(), "admin@admin")

		entity := existingUser()
		entity.Email = "admin@admin"
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()

		newName := "Outro Nome"
		_, err := service.Update(ctx, 7, user.UpdateUserInput{Name: &newName})

		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes record but keeps photo blob", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		store := storage.NewMemoryStorage()
		service := newService(t, mockRepo, store)

		key, err := store.Put(ctx, []byte("img"), "image/png")
		require.NoError(t, err)

		entity := existingUser()
		entity.ProfilePhoto = &key

		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()
		mockRepo.On("Delete", mock.Anything, uint(7)).Return(nil).Once()

		require.NoError(t, service.Delete(ctx, 7))

		// A limpeza do blob é responsabilidade do chamador
		exists, _ := store.Exists(ctx, key)
		assert.True(t, exists)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage())

		mockRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, repository.ErrUserNotFound).Once()

		err := service.Delete(ctx, 42)

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("protected account cannot be deleted", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		service := newService(t, mockRepo, storage.NewMemoryStorage(), "admin@admin")

		entity := existingUser()
		entity.Email = "Admin@Admin"
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(entity, nil).Once()

		err := service.Delete(ctx, 7)

		var forbidden *apperrors.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		mockRepo.AssertNotCalled(t, "Delete")
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("from repository on cache miss", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		mockCache := new(mocks.MockCache)
		logger := testutils.TestLogger(t)
		service := user.NewService(mockRepo, storage.NewMemoryStorage(), security.NewBcryptHasher(), mockCache, logger, nil)

		entities := []*model.UserEntity{existingUser()}

		mockCache.On("Get", mock.Anything, "users", mock.AnythingOfType("*[]*model.User")).
			Return(false, nil).Once()
		mockRepo.On("ListAll", mock.Anything).Return(entities, nil).Once()
		mockCache.On("Set", mock.Anything, "users", mock.Anything, 5*time.Minute).
			Return(nil).Once()

		users, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "maria@example.com", users[0].Email)

		mockCache.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("from cache on hit", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		mockCache := new(mocks.MockCache)
		logger := testutils.TestLogger(t)
		service := user.NewService(mockRepo, storage.NewMemoryStorage(), security.NewBcryptHasher(), mockCache, logger, nil)

		cached := []*model.User{{ID: 1, Email: "cached@example.com"}}

		mockCache.On("Get", mock.Anything, "users", mock.AnythingOfType("*[]*model.User")).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*[]*model.User)
				*dest = cached
			}).
			Return(true, nil).Once()

		users, err := service.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, users)

		mockRepo.AssertNotCalled(t, "ListAll")
	})
}
