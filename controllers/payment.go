package controllers

import (
	"net/http"

	"penjahit-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	base
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService, logger *zap.Logger, debug bool) *PaymentController {
	return &PaymentController{base: newBase(logger, debug), payments: payments}
}

func (pc *PaymentController) Record(c *gin.Context) {
	var input services.PaymentInput
	if !pc.bind(c, &input) {
		return
	}
	payment, err := pc.payments.Record(c.Request.Context(), c.Param("noNota"), input)
	if err != nil {
		pc.fail(c, err, "Terjadi kesalahan saat mencatat pembayaran")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Pembayaran berhasil dicatat",
		"data":    payment,
	})
}

func (pc *PaymentController) History(c *gin.Context) {
	history, err := pc.payments.History(c.Request.Context(), c.Param("noNota"))
	if err != nil {
		pc.fail(c, err, "Terjadi kesalahan saat mengambil history pembayaran")
		return
	}
	c.JSON(http.StatusOK, history)
}
