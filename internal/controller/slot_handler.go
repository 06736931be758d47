package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

// SlotHandler обслуживает запросы доступных слотов
type SlotHandler struct {
	availability *service.AvailabilityService
}

func NewSlotHandler(availability *service.AvailabilityService) *SlotHandler {
	return &SlotHandler{availability: availability}
}

// GetProviderSlots возвращает ранжированные слоты одного поставщика
// GET /api/v1/providers/:id/slots?date=&duration=&user_id=
func (h *SlotHandler) GetProviderSlots(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid provider id")
		return
	}

	date, duration, userID, ok := slotQueryParams(c)
	if !ok {
		return
	}

	slots, err := h.availability.GetAvailableSlots(c.Request.Context(), providerID, date, duration, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GetSlots возвращает общую ранжированную выдачу нескольких поставщиков
// GET /api/v1/slots?provider_ids=1,2&date=&duration=&user_id=
func (h *SlotHandler) GetSlots(c *gin.Context) {
	rawIDs := c.Query("provider_ids")
	if rawIDs == "" {
		writeBadRequest(c, "provider_ids is required")
		return
	}

	var providerIDs []int64
	for _, part := range strings.Split(rawIDs, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeBadRequest(c, "invalid provider id "+part)
			return
		}
		providerIDs = append(providerIDs, id)
	}

	date, duration, userID, ok := slotQueryParams(c)
	if !ok {
		return
	}

	slots, err := h.availability.GetAvailableSlotsForProviders(c.Request.Context(), providerIDs, date, duration, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// slotQueryParams разбирает общие параметры запросов слотов.
// При ошибке пишет ответ 400 и возвращает ok=false.
func slotQueryParams(c *gin.Context) (date time.Time, duration time.Duration, userID int64, ok bool) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		writeBadRequest(c, "date must be in YYYY-MM-DD format")
		return
	}

	minutes, err := strconv.Atoi(c.Query("duration"))
	if err != nil || minutes <= 0 {
		writeBadRequest(c, "duration must be a positive number of minutes")
		return
	}
	duration = time.Duration(minutes) * time.Minute

	// user_id опционален: без него выдача не ранжируется по предпочтениям
	if raw := c.Query("user_id"); raw != "" {
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(c, "invalid user_id")
			return
		}
	}

	ok = true
	return
}
