package controllers

import (
	"errors"
	"net/http"

	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// base carries what every controller needs to report failures.
type base struct {
	logger *zap.Logger
	debug  bool
}

func newBase(logger *zap.Logger, debug bool) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{logger: logger, debug: debug}
}

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
	services.KindUnauthorized: http.StatusUnauthorized,
}

// fail writes err as a JSON error. Service errors keep their message; anything
// else is logged and answered with fallback.
func (b base) fail(c *gin.Context, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			utils.RespondWithErrorFields(c, status, svcErr.Message, svcErr.Fields)
			return
		}
	}

	b.logger.Error(fallback,
		zap.Error(err),
		zap.String("path", c.FullPath()),
		zap.String("requestId", c.GetString("requestId")))
	if b.debug {
		utils.RespondWithErrorFields(c, http.StatusInternalServerError, fallback, map[string]any{"detail": err.Error()})
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, fallback)
}

// bind decodes the JSON body into dst, answering 400 on failure.
func (b base) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Input tidak valid: "+err.Error())
		return false
	}
	return true
}

func (b base) userID(c *gin.Context) (uint, bool) {
	id, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User tidak ditemukan")
	}
	return id, ok
}

type listResponse struct {
	Data       any              `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
}
