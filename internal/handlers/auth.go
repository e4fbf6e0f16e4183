// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/commercekit/catalog-backend/internal/config"
	"github.com/commercekit/catalog-backend/internal/utils"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "username and password are required", nil)
		return
	}

	if req.Username != h.cfg.Admin.Username || h.cfg.Admin.PasswordHash == "" {
		utils.UnauthorizedResponse(c, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.Admin.PasswordHash), []byte(req.Password)); err != nil {
		utils.UnauthorizedResponse(c, "invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(req.Username, "admin", h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		utils.InternalErrorResponse(c, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, gin.H{"token": token})
}
