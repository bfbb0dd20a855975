package controllers

import (
	"net/http"

	"penjahit-backend/services"

	"github.com/gin-gonic/gin"
)

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := ac.userID(c)
	if !ok {
		return
	}
	var input services.UpdateProfileInput
	if !ac.bind(c, &input) {
		return
	}

	user, err := ac.auth.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengupdate profil")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profil berhasil diupdate",
		"data":    user,
	})
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := ac.userID(c)
	if !ok {
		return
	}
	var input services.ChangePasswordInput
	if !ac.bind(c, &input) {
		return
	}

	if err := ac.auth.ChangePassword(c.Request.Context(), userID, input); err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengganti password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password berhasil diganti"})
}
