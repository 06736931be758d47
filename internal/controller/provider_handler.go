package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

// ProviderHandler обслуживает поставщиков и управление их расписанием
type ProviderHandler struct {
	providers *service.ProviderService
}

func NewProviderHandler(providers *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{providers: providers}
}

// List возвращает всех поставщиков
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.providers.ListProviders(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// Get возвращает поставщика по ID
// GET /api/v1/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}

	provider, err := h.providers.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// AddRule создаёт правило доступности
// POST /api/v1/providers/:id/rules
func (h *ProviderHandler) AddRule(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}

	var req addRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rule := &model.AvailabilityRule{
		ProviderID:  providerID,
		Weekday:     req.Weekday,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	}
	if req.ValidFrom != "" {
		from, err := time.Parse(dateLayout, req.ValidFrom)
		if err != nil {
			writeBadRequest(c, "valid_from must be in YYYY-MM-DD format")
			return
		}
		rule.ValidFrom = &from
	}
	if req.ValidUntil != "" {
		until, err := time.Parse(dateLayout, req.ValidUntil)
		if err != nil {
			writeBadRequest(c, "valid_until must be in YYYY-MM-DD format")
			return
		}
		rule.ValidUntil = &until
	}

	created, err := h.providers.AddRule(c.Request.Context(), rule)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListRules возвращает активные правила поставщика
// GET /api/v1/providers/:id/rules
func (h *ProviderHandler) ListRules(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}

	rules, err := h.providers.ListRules(c.Request.Context(), providerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// DeactivateRule деактивирует правило
// DELETE /api/v1/providers/:id/rules/:rule_id
func (h *ProviderHandler) DeactivateRule(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}
	ruleID, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid rule id")
		return
	}

	if err := h.providers.DeactivateRule(c.Request.Context(), providerID, ruleID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddTimeOff создаёт перерыв и возвращает записи, требующие переноса
// POST /api/v1/providers/:id/time-off
func (h *ProviderHandler) AddTimeOff(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}

	var req addTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	period, affected, err := h.providers.AddTimeOff(c.Request.Context(), &model.TimeOffPeriod{
		ProviderID: providerID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, timeOffResponse{Period: period, Affected: affected})
}

// ListTimeOff возвращает перерывы поставщика за окно
// GET /api/v1/providers/:id/time-off?from=&to=
func (h *ProviderHandler) ListTimeOff(c *gin.Context) {
	providerID, ok := providerParam(c)
	if !ok {
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		writeBadRequest(c, "from must be in YYYY-MM-DD format")
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		writeBadRequest(c, "to must be in YYYY-MM-DD format")
		return
	}

	periods, err := h.providers.ListTimeOff(c.Request.Context(), providerID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_off": periods})
}

func providerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid provider id")
		return 0, false
	}
	return id, true
}
