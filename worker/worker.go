package worker

import (
	"context"
	"errors"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// BoardRefresher reloads the shared dispatch board
type BoardRefresher interface {
	RefreshBoard(ctx context.Context) error
}

// Worker bootstraps the DynamoDB tables once, then refreshes the dispatch
// board on the configured cron schedule
type Worker struct {
	config       *models.Config
	workerConfig *models.WorkerConfig
	logger       logger.Logger
	cronJob      *cron.Cron
	lockManager  *LockManager
	status       *StatusManager
	tableSetup   *TableSetup
	refresher    BoardRefresher
	ownerID      string

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once
	now       func() time.Time
}

// DefaultWorkerConfig derives the worker configuration from the application config
func DefaultWorkerConfig(cfg *models.Config) *models.WorkerConfig {
	return &models.WorkerConfig{
		CronSchedule:      cfg.WorkerCronSchedule,
		LockTimeout:       30 * time.Minute,
		MaxRetries:        3,
		RetryDelay:        5 * time.Second,
		BackoffMultiplier: 2.0,
		TableWaitTimeout:  5 * time.Minute,
		TablePollInterval: 5 * time.Second,
		RefreshTimeout:    time.Minute,
		Environment:       cfg.AppEnv,
		RequiredTables:    cfg.Tables,
		LockFilePath:      filepath.Join(os.TempDir(), fmt.Sprintf("fieldfuze-scheduler-tables-%s.lock", cfg.AppEnv)),
		StatusFilePath:    filepath.Join(os.TempDir(), fmt.Sprintf("fieldfuze-scheduler-status-%s.json", cfg.AppEnv)),
	}
}

func NewWorker(cfg *models.Config, workerConfig *models.WorkerConfig, db models.DBClient, refresher BoardRefresher, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if workerConfig == nil {
		workerConfig = DefaultWorkerConfig(cfg)
	}
	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		config:       cfg,
		workerConfig: workerConfig,
		logger:       log.WithFields(map[string]interface{}{"component": "worker"}),
		cronJob:      cron.New(),
		lockManager:  NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment),
		status:       NewStatusManager(workerConfig.StatusFilePath, workerConfig.Environment),
		tableSetup:   NewTableSetup(cfg, workerConfig, db, log),
		refresher:    refresher,
		ownerID:      fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8]),
		ctx:          ctx,
		cancel:       cancel,
		now:          time.Now,
	}, nil
}

// Start schedules the board refresh and runs the bootstrap, followed by a
// first refresh, in the background
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	if err := w.cronJob.AddFunc(w.workerConfig.CronSchedule, w.refreshJob); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	w.logger.Infof("Starting worker %s with schedule: %s", w.ownerID, w.workerConfig.CronSchedule)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				w.logger.Errorf("Table bootstrap panicked: %v", r)
			}
		}()

		if err := w.Bootstrap(w.ctx); err != nil {
			w.logger.Errorf("Table bootstrap failed: %v", err)
		}
		w.refreshJob()
	}()

	w.cronJob.Start()
	w.isRunning = true
	return nil
}

// Bootstrap creates the required tables unless a previous run completed.
// Failures are retried with exponential backoff up to MaxRetries.
func (w *Worker) Bootstrap(ctx context.Context) error {
	if w.status.IsSetupCompleted() {
		w.logger.Info("Table setup already completed")
		return nil
	}

	if err := w.lockManager.CleanupExpiredLocks(); err != nil {
		w.logger.Warnf("Failed to clean up expired locks: %v", err)
	}

	lock, err := w.lockManager.AcquireLock(w.ownerID)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			w.logger.Infof("Skipping table setup: %v", err)
			return nil
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if err := w.lockManager.ReleaseLock(lock); err != nil {
			w.logger.Warnf("Failed to release lock: %v", err)
		}
	}()

	if err := w.status.Begin(); err != nil {
		w.logger.Warnf("Failed to save status: %v", err)
	}

	var setupErr error
	for attempt := 0; attempt <= w.workerConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.calculateRetryDelay(attempt - 1)
			w.logger.Warnf("Table setup failed (attempt %d/%d), retrying in %v: %v", attempt, w.workerConfig.MaxRetries+1, delay, setupErr)
			if err := w.status.IncrementRetryCount(); err != nil {
				w.logger.Warnf("Failed to save status: %v", err)
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				w.status.MarkFailed(ctx.Err().Error())
				return ctx.Err()
			}
		}

		if setupErr = w.tableSetup.Execute(ctx, w.status); setupErr == nil {
			w.logger.Info("Table setup completed")
			return w.status.MarkCompleted()
		}
	}

	w.status.MarkFailed(setupErr.Error())
	return fmt.Errorf("table setup failed after %d attempts: %w", w.workerConfig.MaxRetries+1, setupErr)
}

// refreshJob is the cron job reloading the dispatch board
func (w *Worker) refreshJob() {
	if w.refresher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.workerConfig.RefreshTimeout)
	defer cancel()

	err := w.refresher.RefreshBoard(ctx)
	if err != nil {
		w.logger.Errorf("Board refresh failed: %v", err)
	}
	if serr := w.status.RecordRefresh(w.now(), err); serr != nil {
		w.logger.Warnf("Failed to save status: %v", serr)
	}
}

// Stop stops the cron scheduler and waits for the bootstrap to return
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		w.logger.Info("Stopping worker")
		w.cancel()
		w.cronJob.Stop()
		w.wg.Wait()
		w.isRunning = false
	})
	return nil
}

// IsRunning reports whether Start has been called and Stop has not
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// GetStatus returns the current worker status
func (w *Worker) GetStatus() models.ExecutionResult {
	return w.status.Current()
}

func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	delay := float64(w.workerConfig.RetryDelay)
	for range retryCount {
		delay *= w.workerConfig.BackoffMultiplier
	}

	maxDelay := float64(time.Hour)
	if delay > maxDelay {
		delay = maxDelay
	}
	return time.Duration(int64(delay))
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if config.BackoffMultiplier < 1.0 {
		return fmt.Errorf("backoff multiplier must be at least 1.0")
	}
	if config.TableWaitTimeout <= 0 || config.TablePollInterval <= 0 {
		return fmt.Errorf("table wait timeout and poll interval must be positive")
	}
	if config.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh timeout must be positive")
	}
	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}

	cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := cronParser.Parse(config.CronSchedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
	}

	return nil
}
