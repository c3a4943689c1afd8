package controller

import (
	"context"
	"fieldfuze-scheduler/middelware"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/services"
	"fieldfuze-scheduler/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthReporter exposes background worker health to the health endpoint
type HealthReporter interface {
	GetHealthStatus() map[string]interface{}
}

type Controller struct {
	Calendar   *CalendarController
	jwtManager *middelware.JWTManager
	health     HealthReporter
	config     *models.Config
}

func NewController(ctx context.Context, cfg *models.Config, svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, health HealthReporter, log logger.Logger) *Controller {
	return &Controller{
		Calendar:   NewCalendarController(ctx, svc.GetCalendarService(), log),
		jwtManager: jwtManager,
		health:     health,
		config:     cfg,
	}
}

func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", c.Health)

	calendar := v1.Group("/calendar", c.jwtManager.AuthMiddleware())
	calendar.GET("/events", c.Calendar.GetEvents)
	calendar.GET("/schedule", c.Calendar.GetSchedule)
	calendar.GET("/technicians", c.Calendar.GetTechnicians)
	calendar.GET("/board", c.Calendar.GetBoard)
	calendar.GET("/feed.ics", c.Calendar.ExportICS)
	calendar.POST("/appointments/:id/reposition", c.jwtManager.RequireRole(models.DispatcherRole), c.Calendar.RepositionAppointment)
}

// Health handles GET /api/v1/health
func (c *Controller) Health(ctx *gin.Context) {
	data := gin.H{
		"status":  "healthy",
		"version": c.config.AppVersion,
		"service": c.config.AppName,
	}
	if c.health != nil {
		data["worker"] = c.health.GetHealthStatus()
	}
	ctx.JSON(http.StatusOK, data)
}
