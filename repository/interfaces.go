package repository

import (
	"context"
	"fieldfuze-scheduler/models"
)

// AppointmentRepositoryInterface defines the contract for appointment repository operations
type AppointmentRepositoryInterface interface {
	GetAppointment(ctx context.Context, id int64) (*models.Appointment, error)
	GetAppointmentsInWindow(ctx context.Context, start, end int64) ([]models.Appointment, error)
	UpdateSchedule(ctx context.Context, appointment models.Appointment) (*models.Appointment, error)
}

// TechnicianRepositoryInterface defines the contract for technician repository operations
type TechnicianRepositoryInterface interface {
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetAppointmentRepository() AppointmentRepositoryInterface
	GetTechnicianRepository() TechnicianRepositoryInterface
}
