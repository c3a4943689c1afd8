package repository

import (
	"fieldfuze-scheduler/dal"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
)

const (
	appointmentsTable = "appointments"
	techniciansTable  = "technicians"
)

// RepositoryContainer holds all repositories
type RepositoryContainer struct {
	appointmentRepository AppointmentRepositoryInterface
	technicianRepository  TechnicianRepositoryInterface
}

// NewRepositoryContainer creates a new repository container
func NewRepositoryContainer(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *RepositoryContainer {
	return &RepositoryContainer{
		appointmentRepository: NewAppointmentRepository(db, cfg, log),
		technicianRepository:  NewTechnicianRepository(db, cfg, log),
	}
}

// GetAppointmentRepository returns the appointment repository
func (r *RepositoryContainer) GetAppointmentRepository() AppointmentRepositoryInterface {
	return r.appointmentRepository
}

// GetTechnicianRepository returns the technician repository
func (r *RepositoryContainer) GetTechnicianRepository() TechnicianRepositoryInterface {
	return r.technicianRepository
}

func tableName(cfg *models.Config, name string) string {
	return cfg.DynamoDBTablePrefix + "_" + name
}
