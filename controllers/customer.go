package controllers

import (
	"net/http"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerController serves customers and their measurements.
type CustomerController struct {
	base
	customers    *services.CustomerService
	measurements *services.MeasurementService
}

func NewCustomerController(customers *services.CustomerService, measurements *services.MeasurementService, logger *zap.Logger, debug bool) *CustomerController {
	return &CustomerController{
		base:         newBase(logger, debug),
		customers:    customers,
		measurements: measurements,
	}
}

func (cc *CustomerController) List(c *gin.Context) {
	params := services.CustomerListParams{
		PageParams: utils.ParsePageParams(c),
		Search:     c.Query("search"),
		Gender:     c.Query("gender"),
		SortBy:     c.DefaultQuery("sortBy", "terbaru"),
	}

	rows, total, err := cc.customers.List(c.Request.Context(), params)
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengambil data pelanggan")
		return
	}
	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: utils.BuildPagination(total, params.PageParams)})
}

func (cc *CustomerController) Get(c *gin.Context) {
	customer, err := cc.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengambil detail pelanggan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (cc *CustomerController) Create(c *gin.Context) {
	var input services.CustomerInput
	if !cc.bind(c, &input) {
		return
	}

	customer, err := cc.customers.Create(c.Request.Context(), input)
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat menambah pelanggan")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Pelanggan berhasil ditambahkan",
		"data":    customer,
	})
}

func (cc *CustomerController) Update(c *gin.Context) {
	var input services.UpdateCustomerInput
	if !cc.bind(c, &input) {
		return
	}

	customer, err := cc.customers.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengupdate pelanggan")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Pelanggan berhasil diupdate",
		"data":    customer,
	})
}

func (cc *CustomerController) Delete(c *gin.Context) {
	if err := cc.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat menghapus pelanggan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pelanggan berhasil dihapus"})
}

func (cc *CustomerController) Measurements(c *gin.Context) {
	rows, err := cc.measurements.ListByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengambil data ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (cc *CustomerController) GarmentMeasurements(c *gin.Context) {
	rows, err := cc.measurements.ListByCustomerGarment(c.Request.Context(), c.Param("id"), c.Param("idJenis"))
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengambil data ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (cc *CustomerController) SaveMeasurements(c *gin.Context) {
	var input services.SaveMeasurementsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID jenis pakaian dan data ukuran harus diisi")
		return
	}

	rows, err := cc.measurements.Save(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat menyimpan ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ukuran pelanggan berhasil disimpan",
		"data":    rows,
	})
}

func (cc *CustomerController) MeasurementHistory(c *gin.Context) {
	rows, err := cc.measurements.History(c.Request.Context(), c.Param("id"), c.Param("idJenis"))
	if err != nil {
		cc.fail(c, err, "Terjadi kesalahan saat mengambil history ukuran")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
