package controllers

import (
	"net/http"
	"strconv"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MaterialController struct {
	base
	materials *services.MaterialService
}

func NewMaterialController(materials *services.MaterialService, logger *zap.Logger, debug bool) *MaterialController {
	return &MaterialController{base: newBase(logger, debug), materials: materials}
}

func (mc *MaterialController) Add(c *gin.Context) {
	var input services.AddMaterialInput
	if !mc.bind(c, &input) {
		return
	}
	material, err := mc.materials.Add(c.Request.Context(), input)
	if err != nil {
		mc.fail(c, err, "Gagal menambahkan")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Berhasil", "data": material})
}

func (mc *MaterialController) ListByLine(c *gin.Context) {
	lineID, ok := uintParam(c, "idDetail")
	if !ok {
		return
	}
	rows, err := mc.materials.ListByLine(c.Request.Context(), lineID)
	if err != nil {
		mc.fail(c, err, "Gagal mengambil data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (mc *MaterialController) Remove(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mc.materials.Remove(c.Request.Context(), id); err != nil {
		mc.fail(c, err, "Gagal menghapus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Berhasil dihapus"})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}
	return uint(n), true
}
