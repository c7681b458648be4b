package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Tipos de erro comuns
var (
	ErrNotFound       = errors.New("recurso não encontrado")
	ErrBadRequest     = errors.New("requisição inválida")
	ErrUnauthorized   = errors.New("não autorizado")
	ErrForbidden      = errors.New("acesso negado")
	ErrInternalServer = errors.New("erro interno do servidor")
	ErrDuplicate      = errors.New("recurso já existe")
)

// ValidationError agrega todas as violações de validação de uma operação
// como um mapa campo -> mensagens. Nunca é parcial: o chamador acumula
// todos os campos inválidos antes de retornar.
type ValidationError struct {
	Fields map[string][]string `json:"erros"`
}

// NewValidationError cria um ValidationError vazio
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add acumula uma mensagem de violação para um campo
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors indica se alguma violação foi registrada
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error implementa a interface error
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("erro de validação: %s", strings.Join(fields, ", "))
}

// ConflictError indica violação de unicidade em email ou cpf
type ConflictError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implementa a interface error
func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict cria um ConflictError para o campo informado
func NewConflict(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

// NotFoundError indica que nenhum registro existe para o ID informado
type NotFoundError struct {
	Resource string
	ID       uint
}

// Error implementa a interface error
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d não encontrado", e.Resource, e.ID)
}

// NewNotFound cria um NotFoundError
func NewNotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError indica que a operação foi negada por política de acesso
// (por exemplo, contas protegidas configuradas em auth.protectedEmails)
type ForbiddenError struct {
	Message string
}

// Error implementa a interface error
func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "acesso negado"
	}
	return e.Message
}

// NewForbidden cria um ForbiddenError
func NewForbidden(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// APIError representa um erro da API com informações adicionais
type APIError struct {
	Code        int         `json:"-"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	OriginalErr error       `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As
func (e *APIError) Unwrap() error {
	return e.OriginalErr
}

// New cria um novo APIError
func New(code int, message string, err error) *APIError {
	return &APIError{
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// FromDomain converte um erro de domínio para um APIError com o status
// HTTP apropriado (422, 409, 404, 403); erros desconhecidos viram 500.
func FromDomain(err error) *APIError {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		notFoundErr   *NotFoundError
		forbiddenErr  *ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		return New(http.StatusUnprocessableEntity, "Erro de validação", err).
			WithDetails(validationErr.Fields)
	case errors.As(err, &conflictErr):
		return New(http.StatusConflict, conflictErr.Message, err).
			WithDetails(map[string][]string{conflictErr.Field: {conflictErr.Message}})
	case errors.As(err, &notFoundErr):
		return New(http.StatusNotFound, notFoundErr.Error(), err)
	case errors.As(err, &forbiddenErr):
		return New(http.StatusForbidden, forbiddenErr.Error(), err)
	default:
		return New(http.StatusInternalServerError, "Erro interno do servidor", err)
	}
}

// WithDetails adiciona detalhes ao erro
func (e *APIError) WithDetails(details interface{}) *APIError {
	e.Details = details
	return e
}

// NotFound cria um erro 404
func NotFound(resource string, err error) *APIError {
	message := fmt.Sprintf("%s não encontrado", resource)
	return New(http.StatusNotFound, message, err)
}

// BadRequest cria um erro 400
func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

// Unauthorized cria um erro 401
func Unauthorized(message string, err error) *APIError {
	if message == "" {
		message = "Autenticação necessária"
	}
	return New(http.StatusUnauthorized, message, err)
}

// InternalServer cria um erro 500
func InternalServer(message string, err error) *APIError {
	if message == "" {
		message = "Erro interno do servidor"
	}
	return New(http.StatusInternalServerError, message, err)
}
