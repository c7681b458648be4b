package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/app/user"
	"github.com/adminpainel/users-api-go/internal/infra/metrics"
	apperrors "github.com/adminpainel/users-api-go/pkg/errors"
)

// UserHandler expõe as operações de CRUD de usuários via HTTP.
// Create e Update aceitam multipart/form-data com os campos do usuário,
// o arquivo profile_photo e o flag remove_photo.
type UserHandler struct {
	service *user.Service
	metrics *metrics.APIMetrics
	logger  *zap.Logger
}

// NewUserHandler cria um novo handler de usuários
func NewUserHandler(service *user.Service, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		metrics: apiMetrics,
		logger:  logger,
	}
}

// List retorna todos os usuários em ordem de inserção
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list", err)
		return
	}

	h.recordOperation("list", "success")
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   users,
	})
}

// Get retorna um usuário pelo ID
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   u,
	})
}

// Create cadastra um novo usuário
func (h *UserHandler) Create(c *gin.Context) {
	photo, err := h.readPhoto(c)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	input := user.CreateUserInput{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		CPF:         c.PostForm("cpf"),
		Password:    c.PostForm("password"),
		Photo:       photo,
		RemovePhoto: c.PostForm("remove_photo") == "true",
	}

	if raw, present := c.GetPostForm("nivel_acesso"); present {
		nivel, err := strconv.Atoi(raw)
		if err != nil {
			verrs := apperrors.NewValidationError()
			verrs.Add("nivel_acesso", "O campo nivel_acesso deve estar entre 1 e 5")
			h.respondError(c, "create", verrs)
			return
		}
		input.NivelAcesso = nivel
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	h.recordOperation("create", "success")
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Usuário cadastrado com sucesso!",
		"data":    created,
	})
}

// Update altera os campos enviados de um usuário existente
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		h.respondError(c, "update", err)
		return
	}

	// Campos ausentes do formulário permanecem inalterados no registro
	input := user.UpdateUserInput{
		Photo:       photo,
		RemovePhoto: c.PostForm("remove_photo") == "true",
	}

	if v, present := c.GetPostForm("name"); present {
		input.Name = &v
	}
	if v, present := c.GetPostForm("email"); present {
		input.Email = &v
	}
	if v, present := c.GetPostForm("cpf"); present {
		input.CPF = &v
	}
	if raw, present := c.GetPostForm("nivel_acesso"); present {
		nivel, err := strconv.Atoi(raw)
		if err != nil {
			verrs := apperrors.NewValidationError()
			verrs.Add("nivel_acesso", "O campo nivel_acesso deve estar entre 1 e 5")
			h.respondError(c, "update", verrs)
			return
		}
		input.NivelAcesso = &nivel
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, "update", err)
		return
	}

	h.recordOperation("update", "success")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Usuário atualizado com sucesso!",
		"data":    updated,
	})
}

// Delete remove um usuário pelo ID
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete", err)
		return
	}

	h.recordOperation("delete", "success")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Usuário removido com sucesso!",
	})
}

// parseID extrai o ID numérico da rota; IDs não numéricos respondem 404
func (h *UserHandler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Usuário não encontrado",
		})
		return 0, false
	}
	return uint(id), true
}

// readPhoto lê o arquivo profile_photo do formulário multipart, quando
// presente. A ausência do arquivo não é erro.
func (h *UserHandler) readPhoto(c *gin.Context) (*user.PhotoUpload, error) {
	fileHeader, err := c.FormFile("profile_photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.BadRequest("Falha ao ler o arquivo enviado", err)
	}

	return readUpload(fileHeader)
}

// readUpload materializa o upload em memória, limitado ao tamanho máximo
// aceito para que a validação de tamanho ainda enxergue o excesso
func readUpload(fileHeader *multipart.FileHeader) (*user.PhotoUpload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.BadRequest("Falha ao ler o arquivo enviado", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, user.MaxPhotoSize+1))
	if err != nil {
		return nil, apperrors.BadRequest("Falha ao ler o arquivo enviado", err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &user.PhotoUpload{
		Data:        data,
		ContentType: contentType,
	}, nil
}

// respondError converte o erro de domínio em resposta HTTP e registra a
// operação nas métricas
func (h *UserHandler) respondError(c *gin.Context, operation string, err error) {
	apiErr := &apperrors.APIError{}
	if !errors.As(err, &apiErr) {
		apiErr = apperrors.FromDomain(err)
	}

	if apiErr.Code >= 500 {
		h.logger.Error("falha na operação de usuário",
			zap.String("operation", operation),
			zap.Error(err))
	}

	h.recordOperation(operation, outcomeFor(apiErr.Code))

	body := gin.H{
		"status":  "error",
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		body["erros"] = apiErr.Details
	}

	c.JSON(apiErr.Code, body)
}

// recordOperation registra a operação nas métricas, quando habilitadas
func (h *UserHandler) recordOperation(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.UserOperation(operation, outcome)
	}
}

// outcomeFor classifica o status HTTP para o rótulo de métrica
func outcomeFor(code int) string {
	switch {
	case code == http.StatusUnprocessableEntity:
		return "validation_error"
	case code == http.StatusConflict:
		return "conflict"
	case code == http.StatusNotFound:
		return "not_found"
	case code == http.StatusForbidden:
		return "forbidden"
	case code >= 500:
		return "error"
	default:
		return "client_error"
	}
}
