package controller

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает HTTP-маршруты поверх сервисного слоя
func NewRouter(
	availability *service.AvailabilityService,
	booking *service.BookingService,
	providers *service.ProviderService,
	users *service.UserService,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	slots := NewSlotHandler(availability)
	appointments := NewAppointmentHandler(booking)
	providerHandler := NewProviderHandler(providers)
	userHandler := NewUserHandler(users)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/slots", slots.GetSlots)

		v1.POST("/appointments", appointments.Book)
		v1.GET("/appointments/:id", appointments.Get)
		v1.POST("/appointments/:id/cancel", appointments.Cancel)

		v1.POST("/users", userHandler.Register)
		v1.GET("/users/:id", userHandler.Get)
		v1.GET("/users/:id/appointments", appointments.ListByUser)

		p := v1.Group("/providers")
		{
			p.GET("", providerHandler.List)
			p.GET("/:id", providerHandler.Get)
			p.GET("/:id/slots", slots.GetProviderSlots)
			p.GET("/:id/appointments", appointments.ListByProvider)

			p.POST("/:id/rules", providerHandler.AddRule)
			p.GET("/:id/rules", providerHandler.ListRules)
			p.DELETE("/:id/rules/:rule_id", providerHandler.DeactivateRule)

			p.POST("/:id/time-off", providerHandler.AddTimeOff)
			p.GET("/:id/time-off", providerHandler.ListTimeOff)
		}
	}

	return r
}

// requestLogger пишет строку на каждый обработанный запрос
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
