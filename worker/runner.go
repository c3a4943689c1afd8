package worker

import (
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"time"
)

// Service wraps the worker for the server's lifecycle and health endpoint
type Service struct {
	worker *Worker
	logger logger.Logger
}

// NewService creates a new worker service
func NewService(cfg *models.Config, db models.DBClient, refresher BoardRefresher, log logger.Logger) (*Service, error) {
	worker, err := NewWorker(cfg, nil, db, refresher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the worker; the bootstrap runs asynchronously
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting worker service in background")
	return s.worker.Start()
}

// Stop stops the worker service
func (s *Service) Stop() error {
	s.logger.Info("Stopping worker service")
	return s.worker.Stop()
}

// GetStatus returns the current worker status
func (s *Service) GetStatus() models.ExecutionResult {
	return s.worker.GetStatus()
}

// IsSetupCompleted checks if table setup is completed
func (s *Service) IsSetupCompleted() bool {
	return s.worker.status.IsSetupCompleted()
}

// GetHealthStatus returns a health status for monitoring
func (s *Service) GetHealthStatus() map[string]interface{} {
	status := s.worker.GetStatus()

	health := map[string]interface{}{
		"running":        s.worker.IsRunning(),
		"status":         status.Status,
		"setup_complete": status.Status == models.StatusCompleted && status.Success,
		"tables":         len(status.TablesCreated),
		"retry_count":    status.RetryCount,
		"refresh_count":  status.RefreshCount,
	}

	if status.ErrorMessage != "" {
		health["error"] = status.ErrorMessage
	}
	if status.LastRefresh != nil {
		health["last_refresh"] = status.LastRefresh.Format(time.RFC3339)
	}
	if status.LastRefreshError != "" {
		health["last_refresh_error"] = status.LastRefreshError
	}

	return health
}
