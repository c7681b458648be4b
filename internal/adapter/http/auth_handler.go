package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/app/auth"
)

// AuthHandler expõe o endpoint de login do painel
type AuthHandler struct {
	service *auth.AuthService
	logger  *zap.Logger
}

// NewAuthHandler cria um novo handler de autenticação
func NewAuthHandler(service *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// LoginRequest são as credenciais enviadas no login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login autentica o usuário e retorna um token JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Email e senha são obrigatórios",
		})
		return
	}

	token, u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Credencial errada e email inexistente respondem igual
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Credenciais inválidas",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user":  u,
		},
	})
}
