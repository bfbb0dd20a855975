package controllers

import (
	"net/http"
	"strconv"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationController exposes the WhatsApp notification log and lets the
// shop resend messages by hand.
type NotificationController struct {
	base
	notifications *services.NotificationService
	reminderDays  int
}

func NewNotificationController(notifications *services.NotificationService, reminderDays int, logger *zap.Logger, debug bool) *NotificationController {
	return &NotificationController{base: newBase(logger, debug), notifications: notifications, reminderDays: reminderDays}
}

func (nc *NotificationController) List(c *gin.Context) {
	params := services.NotificationListParams{
		PageParams: utils.ParsePageParams(c),
		NoNota:     c.Query("noNota"),
		Kind:       c.Query("kind"),
	}
	rows, total, err := nc.notifications.List(c.Request.Context(), params)
	if err != nil {
		nc.fail(c, err, "Terjadi kesalahan saat mengambil log notifikasi")
		return
	}
	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: utils.BuildPagination(total, params.PageParams)})
}

// SendReady resends the "ready for pickup" message of one order.
func (nc *NotificationController) SendReady(c *gin.Context) {
	if err := nc.notifications.OrderReady(c.Request.Context(), c.Param("noNota")); err != nil {
		nc.fail(c, err, "Gagal mengirim notifikasi")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifikasi berhasil dikirim"})
}

// SendReminders runs the pickup reminder job now. ?days= overrides the
// configured waiting period.
func (nc *NotificationController) SendReminders(c *gin.Context) {
	days := nc.reminderDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Parameter days tidak valid")
			return
		}
		days = n
	}

	sent, err := nc.notifications.SendPickupReminders(c.Request.Context(), days)
	if err != nil {
		nc.fail(c, err, "Gagal mengirim pengingat")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Pengingat diproses",
		"data":    gin.H{"terkirim": sent},
	})
}
