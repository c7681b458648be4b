package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adminpainel/users-api-go/pkg/errors"
)

func TestValidationError(t *testing.T) {
	verrs := apperrors.NewValidationError()
	assert.False(t, verrs.HasErrors())

	verrs.Add("email", "O campo email deve ser um email válido")
	verrs.Add("cpf", "O campo cpf deve conter 11 dígitos")
	verrs.Add("cpf", "O campo cpf é obrigatório")

	require.True(t, verrs.HasErrors())
	assert.Len(t, verrs.Fields["cpf"], 2)
	assert.Equal(t, "erro de validação: cpf, email", verrs.Error())
}

func TestFromDomain(t *testing.T) {
	t.Run("validation error becomes 422 with details", func(t *testing.T) {
		verrs := apperrors.NewValidationError()
		verrs.Add("name", "O campo name é obrigatório")

		apiErr := apperrors.FromDomain(verrs)

		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Code)
		assert.Equal(t, "Erro de validação", apiErr.Message)
		assert.Equal(t, verrs.Fields, apiErr.Details)
	})

	t.Run("conflict becomes 409 keyed by field", func(t *testing.T) {
		conflict := apperrors.NewConflict("email", "Este email já foi cadastrado")

		apiErr := apperrors.FromDomain(conflict)

		assert.Equal(t, http.StatusConflict, apiErr.Code)
		assert.Equal(t, "Este email já foi cadastrado", apiErr.Message)
		assert.Equal(t,
			map[string][]string{"email": {"Este email já foi cadastrado"}},
			apiErr.Details)
	})

	t.Run("not found becomes 404", func(t *testing.T) {
		apiErr := apperrors.FromDomain(apperrors.NewNotFound("usuário", 42))

		assert.Equal(t, http.StatusNotFound, apiErr.Code)
		assert.Equal(t, "usuário 42 não encontrado", apiErr.Message)
	})

	t.Run("forbidden becomes 403", func(t *testing.T) {
		apiErr := apperrors.FromDomain(apperrors.NewForbidden("conta protegida não pode ser removida"))

		assert.Equal(t, http.StatusForbidden, apiErr.Code)
		assert.Equal(t, "conta protegida não pode ser removida", apiErr.Message)
	})

	t.Run("wrapped domain errors are still recognized", func(t *testing.T) {
		wrapped := fmt.Errorf("ao atualizar: %w", apperrors.NewNotFound("usuário", 7))

		apiErr := apperrors.FromDomain(wrapped)
		assert.Equal(t, http.StatusNotFound, apiErr.Code)
	})

	t.Run("unknown errors become 500 without leaking the cause", func(t *testing.T) {
		cause := stderrors.New("dial tcp: connection refused")

		apiErr := apperrors.FromDomain(cause)

		assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
		assert.Equal(t, "Erro interno do servidor", apiErr.Message)
		assert.ErrorIs(t, apiErr, cause)
	})
}

func TestAPIError(t *testing.T) {
	cause := stderrors.New("causa original")
	apiErr := apperrors.New(http.StatusBadRequest, "Requisição inválida", cause)

	assert.Equal(t, "Requisição inválida: causa original", apiErr.Error())
	assert.ErrorIs(t, apiErr, cause)

	apiErr.WithDetails(map[string]string{"campo": "valor"})
	assert.NotNil(t, apiErr.Details)
}
