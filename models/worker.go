package models

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DBClient is the table administration surface the worker needs
type DBClient interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// WorkerConfig holds configuration for the background worker
type WorkerConfig struct {
	// Board refresh schedule, six fields with seconds
	CronSchedule string `json:"cron_schedule"`

	// Lock settings
	LockTimeout time.Duration `json:"lock_timeout"`

	// Retry settings
	MaxRetries        int           `json:"max_retries"`
	RetryDelay        time.Duration `json:"retry_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`

	// Table readiness polling
	TableWaitTimeout  time.Duration `json:"table_wait_timeout"`
	TablePollInterval time.Duration `json:"table_poll_interval"`

	RefreshTimeout time.Duration `json:"refresh_timeout"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	// Paths
	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`
}

// LockInfo represents the table bootstrap lock
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerStatus represents the current phase of the worker
type WorkerStatus string

const (
	StatusIdle             WorkerStatus = "idle"
	StatusCreatingTables   WorkerStatus = "creating_tables"
	StatusWaitingForTables WorkerStatus = "waiting_for_tables"
	StatusRetrying         WorkerStatus = "retrying"
	StatusCompleted        WorkerStatus = "completed"
	StatusFailed           WorkerStatus = "failed"
)

// ExecutionResult is the persisted state of table bootstrap and board refreshes
type ExecutionResult struct {
	Success     bool          `json:"success"`
	Status      WorkerStatus  `json:"status"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Duration    time.Duration `json:"duration"`
	Environment string        `json:"environment"`

	TablesCreated []TableStatus `json:"tables_created"`

	ErrorMessage string `json:"error_message,omitempty"`
	RetryCount   int    `json:"retry_count"`

	LastRefresh      *time.Time `json:"last_refresh,omitempty"`
	RefreshCount     int        `json:"refresh_count"`
	LastRefreshError string     `json:"last_refresh_error,omitempty"`
}

// TableStatus tracks one bootstrapped table
type TableStatus struct {
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	BecameActiveAt *time.Time `json:"became_active_at,omitempty"`
	IndexCount     int        `json:"index_count"`
}
