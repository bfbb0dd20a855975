package controllers

import (
	"net/http"

	"penjahit-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	base
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService, logger *zap.Logger, debug bool) *AuthController {
	return &AuthController{base: newBase(logger, debug), auth: auth}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username dan password harus diisi"})
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat login")
		return
	}

	ac.logger.Info("user logged in", zap.String("username", result.User.Username))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login berhasil",
		"data":    result,
	})
}

// Logout is stateless; the client drops its token.
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout berhasil"})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := ac.userID(c)
	if !ok {
		return
	}
	user, err := ac.auth.Me(c.Request.Context(), userID)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengambil data user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}
