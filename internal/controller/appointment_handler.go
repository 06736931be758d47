package controller

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

// AppointmentHandler обслуживает бронирование и жизненный цикл записей
type AppointmentHandler struct {
	booking *service.BookingService
}

func NewAppointmentHandler(booking *service.BookingService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking}
}

// Book подтверждает выбранный слот
// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	appt, err := h.booking.BookAppointment(c.Request.Context(),
		req.UserID, req.ProviderID, req.StartTime, req.EndTime, req.ServiceDescription)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appt)
}

// Cancel отменяет запись от имени актора из тела запроса.
// Повторная отмена возвращает 200 с текущим состоянием.
// POST /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid appointment id")
		return
	}

	var req cancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	appt, err := h.booking.CancelAppointment(c.Request.Context(), id, req.Actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// Get возвращает запись по ID
// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid appointment id")
		return
	}

	appt, err := h.booking.GetAppointment(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// ListByUser возвращает записи пользователя
// GET /api/v1/users/:id/appointments
func (h *AppointmentHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid user id")
		return
	}

	appts, err := h.booking.GetUserAppointments(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ListByProvider возвращает записи поставщика
// GET /api/v1/providers/:id/appointments
func (h *AppointmentHandler) ListByProvider(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid provider id")
		return
	}

	appts, err := h.booking.GetProviderAppointments(c.Request.Context(), providerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
