package controller

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

// writeServiceError переводит ошибки сервисного слоя в HTTP-статусы:
// invalid argument → 400, not found → 404, contention → 409,
// всё остальное — сбой хранилища → 503
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrRuleNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSlotContention):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "storage failure"})
	}
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
