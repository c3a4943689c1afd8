package worker

import (
	"encoding/json"
	"fieldfuze-scheduler/models"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StatusManager keeps the worker's ExecutionResult in memory and mirrors it to
// a JSON file so a restart can skip a completed bootstrap
type StatusManager struct {
	statusFilePath string
	mu             sync.RWMutex
	current        models.ExecutionResult
}

// NewStatusManager creates a status manager, resuming from statusPath when it
// holds a previous result
func NewStatusManager(statusPath, environment string) *StatusManager {
	sm := &StatusManager{
		statusFilePath: statusPath,
		current: models.ExecutionResult{
			Status:        models.StatusIdle,
			StartTime:     time.Now(),
			Environment:   environment,
			TablesCreated: make([]models.TableStatus, 0),
		},
	}
	if loaded, err := sm.LoadStatus(); err == nil {
		sm.current = *loaded
	}
	return sm
}

// LoadStatus reads the persisted result
func (sm *StatusManager) LoadStatus() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(sm.statusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &result, nil
}

// Current returns a copy of the in-memory result
func (sm *StatusManager) Current() models.ExecutionResult {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := sm.current
	result.TablesCreated = append([]models.TableStatus(nil), sm.current.TablesCreated...)
	return result
}

// IsSetupCompleted checks if table bootstrap has completed
func (sm *StatusManager) IsSetupCompleted() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current.Status == models.StatusCompleted && sm.current.Success
}

// Begin resets the result for a new bootstrap run
func (sm *StatusManager) Begin() error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Status = models.StatusCreatingTables
		r.Success = false
		r.StartTime = time.Now()
		r.EndTime = nil
		r.ErrorMessage = ""
		r.TablesCreated = make([]models.TableStatus, 0)
	})
}

// UpdatePhase records the current bootstrap phase
func (sm *StatusManager) UpdatePhase(status models.WorkerStatus) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Status = status
	})
}

// AddTableCreated records a table, updating it when already listed
func (sm *StatusManager) AddTableCreated(table models.TableStatus) error {
	return sm.update(func(r *models.ExecutionResult) {
		for i := range r.TablesCreated {
			if r.TablesCreated[i].Name == table.Name {
				r.TablesCreated[i] = table
				return
			}
		}
		r.TablesCreated = append(r.TablesCreated, table)
	})
}

// IncrementRetryCount counts a failed bootstrap attempt
func (sm *StatusManager) IncrementRetryCount() error {
	return sm.update(func(r *models.ExecutionResult) {
		r.RetryCount++
		r.Status = models.StatusRetrying
	})
}

// MarkCompleted marks the bootstrap as completed
func (sm *StatusManager) MarkCompleted() error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Success = true
		r.Status = models.StatusCompleted
		r.ErrorMessage = ""
		finish(r)
	})
}

// MarkFailed marks the bootstrap as failed
func (sm *StatusManager) MarkFailed(errorMsg string) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Success = false
		r.Status = models.StatusFailed
		r.ErrorMessage = errorMsg
		finish(r)
	})
}

// RecordRefresh records the outcome of a board refresh
func (sm *StatusManager) RecordRefresh(at time.Time, err error) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.LastRefresh = &at
		r.RefreshCount++
		r.LastRefreshError = ""
		if err != nil {
			r.LastRefreshError = err.Error()
		}
	})
}

func finish(r *models.ExecutionResult) {
	now := time.Now()
	r.EndTime = &now
	r.Duration = now.Sub(r.StartTime)
}

func (sm *StatusManager) update(fn func(*models.ExecutionResult)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	fn(&sm.current)
	return sm.save(&sm.current)
}

func (sm *StatusManager) save(result *models.ExecutionResult) error {
	if err := os.MkdirAll(filepath.Dir(sm.statusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	tempFile := sm.statusFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp status file: %w", err)
	}
	if err := os.Rename(tempFile, sm.statusFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename status file: %w", err)
	}
	return nil
}
