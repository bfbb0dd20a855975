package controllers

import (
	"net/http"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	base
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService, logger *zap.Logger, debug bool) *OrderController {
	return &OrderController{base: newBase(logger, debug), orders: orders}
}

func (oc *OrderController) List(c *gin.Context) {
	params := services.OrderListParams{
		PageParams: utils.ParsePageParams(c),
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		SortBy:     c.DefaultQuery("sortBy", "terbaru"),
	}
	rows, total, err := oc.orders.List(c.Request.Context(), params)
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat mengambil data pesanan")
		return
	}
	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: utils.BuildPagination(total, params.PageParams)})
}

func (oc *OrderController) Get(c *gin.Context) {
	order, err := oc.orders.Get(c.Request.Context(), c.Param("noNota"))
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat mengambil detail pesanan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (oc *OrderController) Create(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	var input services.CreateOrderInput
	if !oc.bind(c, &input) {
		return
	}

	order, err := oc.orders.Create(c.Request.Context(), userID, input)
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat membuat pesanan")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Pesanan berhasil dibuat",
		"data":    order,
	})
}

func (oc *OrderController) Update(c *gin.Context) {
	var input services.UpdateOrderInput
	if !oc.bind(c, &input) {
		return
	}
	order, err := oc.orders.UpdateHeader(c.Request.Context(), c.Param("noNota"), input)
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat mengupdate pesanan")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Pesanan berhasil diupdate",
		"data":    order,
	})
}

func (oc *OrderController) Delete(c *gin.Context) {
	if err := oc.orders.Delete(c.Request.Context(), c.Param("noNota")); err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat menghapus pesanan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pesanan berhasil dihapus"})
}

func (oc *OrderController) ChangeStatus(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	var input services.ChangeStatusInput
	if !oc.bind(c, &input) {
		return
	}

	order, err := oc.orders.ChangeStatus(c.Request.Context(), c.Param("noNota"), userID, input)
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat mengupdate status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Status pesanan berhasil diupdate",
		"data":    order,
	})
}

func (oc *OrderController) History(c *gin.Context) {
	rows, err := oc.orders.StatusHistory(c.Request.Context(), c.Param("noNota"))
	if err != nil {
		oc.fail(c, err, "Terjadi kesalahan saat mengambil history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
