package controller

import (
	"context"
	"errors"
	"fieldfuze-scheduler/middelware"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/services"
	"fieldfuze-scheduler/utils/logger"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CalendarController struct {
	ctx       context.Context
	service   services.CalendarServiceInterface
	logger    logger.Logger
	validator *validator.Validate
}

func NewCalendarController(ctx context.Context, service services.CalendarServiceInterface, logger logger.Logger) *CalendarController {
	v := validator.New()
	_ = v.RegisterValidation("technician_key", func(fl validator.FieldLevel) bool {
		return models.IsTechnicianKey(fl.Field().String())
	})
	_ = v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
		return models.IsAppointmentStatus(fl.Field().String())
	})

	return &CalendarController{
		ctx:       ctx,
		service:   service,
		logger:    logger,
		validator: v,
	}
}

// formatValidationErrors formats validation errors into readable messages
func (h *CalendarController) formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "gt", "gte":
				errorMessages = append(errorMessages, fieldError.Field()+" must be greater than "+fieldError.Param())
			case "appointment_status":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+statusList())
			case "technician_key":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a technician id or "+models.UnassignedTechnicianKey)
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

func statusList() string {
	names := make([]string, 0, len(models.AppointmentStatuses()))
	for _, s := range models.AppointmentStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// bindQuery reads and validates the calendar query string. It writes the error
// response and returns false when the query is rejected.
func (h *CalendarController) bindQuery(c *gin.Context) (models.AppointmentFilter, bool) {
	var query models.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Failed to bind query:", err)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid query", "ValidationError", err.Error()))
		return models.AppointmentFilter{}, false
	}

	if err := h.validator.Struct(&query); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Validation failed", "ValidationError", h.formatValidationErrors(err)))
		return models.AppointmentFilter{}, false
	}

	return query.ToFilter(), true
}

func (h *CalendarController) handleServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, message, "ValidationError", err.Error()))
	case errors.Is(err, models.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, message, "NotFoundError", err.Error()))
	default:
		h.logger.Errorf("%s: %v", message, err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, message, "DatabaseError", err.Error()))
	}
}

// GetEvents handles GET /api/v1/calendar/events
// @Summary List calendar events
// @Description Project the appointments of a window into filtered calendar events
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param startDate query int false "Window start (unix seconds)"
// @Param endDate query int false "Window end (unix seconds)"
// @Param selectedDate query int false "Anchor date when no window is given"
// @Param excludeStatus query []string false "Statuses to hide"
// @Param excludeTechnician query []string false "Technician ids to hide, or unassigned"
// @Success 200 {object} models.APIResponse "Events retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid query"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /calendar/events [get]
func (h *CalendarController) GetEvents(c *gin.Context) {
	filter, ok := h.bindQuery(c)
	if !ok {
		return
	}

	events, err := h.service.GetEvents(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, "Failed to get events", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(http.StatusOK, "Events retrieved successfully", map[string]interface{}{
		"events": events,
		"total":  len(events),
	}))
}

// GetSchedule handles GET /api/v1/calendar/schedule
// @Summary Day schedule
// @Description Lay out the selected day into positioned events and hourly slots
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param selectedDate query int false "Day to lay out (unix seconds), defaults to today"
// @Success 200 {object} models.APIResponse "Schedule retrieved successfully"
// @Router /calendar/schedule [get]
func (h *CalendarController) GetSchedule(c *gin.Context) {
	filter, ok := h.bindQuery(c)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, "Failed to get schedule", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(http.StatusOK, "Schedule retrieved successfully", schedule))
}

// GetTechnicians handles GET /api/v1/calendar/technicians
// @Summary Technician roster
// @Description Colored technician roster including the Unassigned entry
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Technicians retrieved successfully"
// @Router /calendar/technicians [get]
func (h *CalendarController) GetTechnicians(c *gin.Context) {
	technicians, err := h.service.GetTechnicians(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, "Failed to get technicians", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(http.StatusOK, "Technicians retrieved successfully", technicians))
}

// GetBoard handles GET /api/v1/calendar/board
func (h *CalendarController) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewSuccessResponse(http.StatusOK, "Board retrieved successfully", h.service.GetBoard()))
}

// RepositionAppointment handles POST /api/v1/calendar/appointments/:id/reposition
// @Summary Drag and drop an appointment
// @Description Move an appointment to a new start time and technician, keeping its duration
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param request body models.RepositionRequest true "Drop target"
// @Success 200 {object} models.APIResponse "Appointment repositioned successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid reposition data"
// @Failure 403 {object} models.APIResponse "Forbidden - Dispatcher role required"
// @Failure 404 {object} models.APIResponse "Not Found - Appointment does not exist"
// @Router /calendar/appointments/{id}/reposition [post]
func (h *CalendarController) RepositionAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid appointment ID", "ValidationError", "id must be an integer"))
		return
	}

	var req models.RepositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request", "ValidationError", err.Error()))
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Validation failed", "ValidationError", h.formatValidationErrors(err)))
		return
	}

	patch, err := h.service.RepositionAppointment(c.Request.Context(), id, req, c.GetString(middelware.ContextUserID))
	if err != nil {
		h.handleServiceError(c, "Failed to reposition appointment", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccessResponse(http.StatusOK, "Appointment repositioned successfully", patch))
}

// ExportICS handles GET /api/v1/calendar/feed.ics
// @Summary iCalendar feed
// @Description Export the filtered events of a window as an iCalendar document
// @Tags Calendar
// @Security BearerAuth
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Router /calendar/feed.ics [get]
func (h *CalendarController) ExportICS(c *gin.Context) {
	filter, ok := h.bindQuery(c)
	if !ok {
		return
	}

	feed, err := h.service.ExportICS(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, "Failed to export calendar", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fieldfuze.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
