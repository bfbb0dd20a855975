package controllers

import (
	"net/http"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GarmentController struct {
	base
	garments *services.GarmentService
}

func NewGarmentController(garments *services.GarmentService, logger *zap.Logger, debug bool) *GarmentController {
	return &GarmentController{base: newBase(logger, debug), garments: garments}
}

func (gc *GarmentController) List(c *gin.Context) {
	params := services.GarmentListParams{
		PageParams: utils.ParsePageParams(c),
		Search:     c.Query("search"),
		Category:   c.Query("kategori"),
		SortBy:     c.DefaultQuery("sortBy", "nama-az"),
	}

	rows, total, err := gc.garments.List(c.Request.Context(), params)
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat mengambil data jenis pakaian")
		return
	}
	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: utils.BuildPagination(total, params.PageParams)})
}

func (gc *GarmentController) Get(c *gin.Context) {
	garment, err := gc.garments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat mengambil detail jenis pakaian")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": garment})
}

func (gc *GarmentController) Create(c *gin.Context) {
	var input services.GarmentInput
	if !gc.bind(c, &input) {
		return
	}
	garment, err := gc.garments.Create(c.Request.Context(), input)
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat menambah jenis pakaian")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Jenis pakaian berhasil ditambahkan",
		"data":    garment,
	})
}

func (gc *GarmentController) Update(c *gin.Context) {
	var input services.GarmentInput
	if !gc.bind(c, &input) {
		return
	}
	garment, err := gc.garments.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat mengupdate jenis pakaian")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Jenis pakaian berhasil diupdate",
		"data":    garment,
	})
}

func (gc *GarmentController) Delete(c *gin.Context) {
	if err := gc.garments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat menghapus jenis pakaian")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Jenis pakaian berhasil dihapus"})
}

func (gc *GarmentController) Templates(c *gin.Context) {
	rows, err := gc.garments.Templates(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat mengambil template ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ReplaceTemplates accepts {"templates": [...]}.
func (gc *GarmentController) ReplaceTemplates(c *gin.Context) {
	var input struct {
		Templates []services.TemplateInput `json:"templates"`
	}
	if !gc.bind(c, &input) {
		return
	}
	if input.Templates == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data template harus diisi"})
		return
	}

	rows, err := gc.garments.ReplaceTemplates(c.Request.Context(), c.Param("id"), input.Templates)
	if err != nil {
		gc.fail(c, err, "Terjadi kesalahan saat menyimpan template ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Template ukuran berhasil disimpan",
		"data":    rows,
	})
}
