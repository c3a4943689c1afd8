package worker

import (
	"context"
	"errors"
	"fieldfuze-scheduler/infrastructure"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// TableSetup creates the configured DynamoDB tables from the embedded schemas
type TableSetup struct {
	config       *models.Config
	workerConfig *models.WorkerConfig
	logger       logger.Logger
	db           models.DBClient
}

// NewTableSetup creates a new table setup handler
func NewTableSetup(cfg *models.Config, workerConfig *models.WorkerConfig, db models.DBClient, log logger.Logger) *TableSetup {
	return &TableSetup{
		config:       cfg,
		workerConfig: workerConfig,
		logger:       log,
		db:           db,
	}
}

// TableNames returns the prefixed names of the required tables
func (ts *TableSetup) TableNames() []string {
	names := make([]string, 0, len(ts.workerConfig.RequiredTables))
	for _, table := range ts.workerConfig.RequiredTables {
		names = append(names, ts.config.DynamoDBTablePrefix+"_"+table)
	}
	return names
}

// Execute creates every missing table and waits for all of them to be ACTIVE
func (ts *TableSetup) Execute(ctx context.Context, status *StatusManager) error {
	ts.logger.Info("Starting table setup...")

	if err := status.UpdatePhase(models.StatusCreatingTables); err != nil {
		ts.logger.Warnf("Failed to update status: %v", err)
	}

	names := ts.TableNames()
	for _, name := range names {
		created, err := ts.createTableWithRetry(ctx, name)
		if err != nil {
			return err
		}

		state := "ACTIVE"
		if created {
			state = "CREATING"
		}
		if err := status.AddTableCreated(models.TableStatus{
			Name:       name,
			Status:     state,
			CreatedAt:  time.Now(),
			IndexCount: len(infrastructure.IndexNames(name)),
		}); err != nil {
			ts.logger.Warnf("Failed to record table %s: %v", name, err)
		}
	}

	if err := status.UpdatePhase(models.StatusWaitingForTables); err != nil {
		ts.logger.Warnf("Failed to update status: %v", err)
	}

	for _, name := range names {
		if err := ts.waitForActive(ctx, name); err != nil {
			return err
		}
		now := time.Now()
		if err := status.AddTableCreated(models.TableStatus{
			Name:           name,
			Status:         "ACTIVE",
			CreatedAt:      now,
			BecameActiveAt: &now,
			IndexCount:     len(infrastructure.IndexNames(name)),
		}); err != nil {
			ts.logger.Warnf("Failed to record table %s: %v", name, err)
		}
	}

	return ts.validate(ctx, names)
}

// createTableWithRetry creates a table unless it exists. It reports whether
// a create request was sent.
func (ts *TableSetup) createTableWithRetry(ctx context.Context, tableName string) (bool, error) {
	maxRetries := ts.workerConfig.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * ts.workerConfig.RetryDelay
			ts.logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableName, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		exists, err := ts.tableExists(ctx, tableName)
		if err != nil {
			ts.logger.Errorf("Failed to check if table exists: %v", err)
			if attempt == maxRetries {
				return false, fmt.Errorf("failed to describe table %s: %w", tableName, err)
			}
			continue
		}
		if exists {
			ts.logger.Infof("Table %s already exists, skipping creation", tableName)
			return false, nil
		}

		input, err := infrastructure.GetTables(tableName)
		if err != nil {
			return false, fmt.Errorf("failed to get table input: %w", err)
		}

		if err := ts.db.CreateTable(ctx, input); err != nil {
			ts.logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableName, err)
			if attempt == maxRetries {
				return false, fmt.Errorf("failed to create table %s after %d attempts: %w", tableName, maxRetries+1, err)
			}
			continue
		}

		ts.logger.Infof("Created table %s", tableName)
		return true, nil
	}

	return false, fmt.Errorf("exhausted all retry attempts for table %s", tableName)
}

func (ts *TableSetup) waitForActive(ctx context.Context, tableName string) error {
	waitCtx, cancel := context.WithTimeout(ctx, ts.workerConfig.TableWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(ts.workerConfig.TablePollInterval)
	defer ticker.Stop()

	for {
		desc, err := ts.db.DescribeTable(waitCtx, tableName)
		if err == nil && desc.Table != nil && desc.Table.TableStatus == types.TableStatusActive {
			return nil
		}
		if err != nil && !isTableNotFoundError(err) {
			ts.logger.Warnf("Failed to describe table %s: %v", tableName, err)
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("timeout waiting for table %s to become active", tableName)
		case <-ticker.C:
		}
	}
}

// validate checks that every table carries the indexes of its schema
func (ts *TableSetup) validate(ctx context.Context, names []string) error {
	for _, name := range names {
		desc, err := ts.db.DescribeTable(ctx, name)
		if err != nil {
			return fmt.Errorf("table %s validation failed: %w", name, err)
		}

		present := make(map[string]bool)
		for _, gsi := range desc.Table.GlobalSecondaryIndexes {
			if gsi.IndexName != nil {
				present[*gsi.IndexName] = true
			}
		}
		for _, idx := range infrastructure.IndexNames(name) {
			if !present[idx] {
				return fmt.Errorf("table %s is missing index %s", name, idx)
			}
		}
	}

	ts.logger.Info("Table validation completed successfully")
	return nil
}

func (ts *TableSetup) tableExists(ctx context.Context, tableName string) (bool, error) {
	if _, err := ts.db.DescribeTable(ctx, tableName); err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isTableNotFoundError checks if error indicates table not found
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Requested resource not found")
}
