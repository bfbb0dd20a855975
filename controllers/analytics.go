package controllers

import (
	"net/http"
	"strconv"
	"time"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsController serves the dashboard cards and charts.
type AnalyticsController struct {
	base
	analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService, logger *zap.Logger, debug bool) *AnalyticsController {
	return &AnalyticsController{base: newBase(logger, debug), analytics: analytics}
}

// Overview accepts optional startDate and endDate (YYYY-MM-DD).
func (ac *AnalyticsController) Overview(c *gin.Context) {
	start, ok := dateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "endDate")
	if !ok {
		return
	}
	if len(c.Query("endDate")) == len("2006-01-02") {
		// A bare end date covers that whole day.
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	overview, err := ac.analytics.Overview(c.Request.Context(), start, end)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengambil data analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overview})
}

func (ac *AnalyticsController) StatusDistribution(c *gin.Context) {
	data, err := ac.analytics.StatusDistribution(c.Request.Context())
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengambil distribusi status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (ac *AnalyticsController) RevenueMonthly(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(services.DefaultChartMonths)))
	series, err := ac.analytics.RevenueMonthly(c.Request.Context(), months)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengambil data revenue bulanan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": series})
}

func (ac *AnalyticsController) TrendDaily(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultChartDays)))
	series, err := ac.analytics.TrendDaily(c.Request.Context(), days)
	if err != nil {
		ac.fail(c, err, "Terjadi kesalahan saat mengambil data trend harian")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": series})
}

func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDate(v)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format tanggal "+name+" tidak valid")
		return time.Time{}, false
	}
	return t, true
}
