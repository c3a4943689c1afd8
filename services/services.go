package services

import (
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/repository"
	"fieldfuze-scheduler/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	calendarService CalendarServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	cache CalendarCache,
	publisher ReschedulePublisher,
	logger logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	return &Service{
		calendarService: NewCalendarService(
			repoContainer.GetAppointmentRepository(),
			repoContainer.GetTechnicianRepository(),
			cache,
			publisher,
			logger,
			config,
		),
	}
}

// GetCalendarService returns the calendar service interface
func (s *Service) GetCalendarService() CalendarServiceInterface {
	return s.calendarService
}
