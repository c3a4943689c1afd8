package services

import (
	"context"
	"fieldfuze-scheduler/models"
)

// CalendarServiceInterface defines the contract for the calendar service
type CalendarServiceInterface interface {
	GetEvents(ctx context.Context, filter models.AppointmentFilter) ([]models.Event, error)
	GetSchedule(ctx context.Context, filter models.AppointmentFilter) (*models.DaySchedule, error)
	GetTechnicians(ctx context.Context) ([]models.Technician, error)
	RepositionAppointment(ctx context.Context, id int64, req models.RepositionRequest, rescheduledBy string) (*models.RepositionPatch, error)
	ExportICS(ctx context.Context, filter models.AppointmentFilter) (string, error)
	RefreshBoard(ctx context.Context) error
	GetBoard() models.BoardSnapshot
	Flush()
}

// CalendarCache caches appointment windows keyed by their bounds and the
// cache version current when the window was read
type CalendarCache interface {
	Version(ctx context.Context) (int64, error)
	GetAppointments(ctx context.Context, version, start, end int64) ([]models.Appointment, bool, error)
	SetAppointments(ctx context.Context, version, start, end int64, appointments []models.Appointment) error
	Invalidate(ctx context.Context) error
	Close() error
}

// ReschedulePublisher announces persisted repositions to other services
type ReschedulePublisher interface {
	PublishReschedule(ctx context.Context, msg models.RescheduleMessage) error
	Close() error
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetCalendarService() CalendarServiceInterface
}
