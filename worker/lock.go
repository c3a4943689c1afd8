package worker

import (
	"encoding/json"
	"errors"
	"fieldfuze-scheduler/models"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrLockHeld is returned when another owner holds an unexpired lock
var ErrLockHeld = errors.New("lock held by another owner")

// LockManager guards table bootstrap across instances sharing a filesystem
type LockManager struct {
	lockFilePath string
	lockTimeout  time.Duration
	environment  string
	mu           sync.Mutex
}

// NewLockManager creates a new lock manager
func NewLockManager(lockPath string, timeout time.Duration, env string) *LockManager {
	return &LockManager{
		lockFilePath: lockPath,
		lockTimeout:  timeout,
		environment:  env,
	}
}

// AcquireLock takes the lock for ownerID, extending it when ownerID already
// holds it. An expired lock of another owner is taken over.
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(lm.lockFilePath), 0755); err != nil {
		return nil, err
	}

	if existing, err := lm.readLockFile(); err == nil && time.Now().Before(existing.ExpiresAt) {
		if existing.Owner != ownerID || existing.Environment != lm.environment {
			return nil, fmt.Errorf("%w: %s until %s", ErrLockHeld, existing.Owner, existing.ExpiresAt.Format(time.RFC3339))
		}
		existing.ExpiresAt = time.Now().Add(lm.lockTimeout)
		if err := lm.writeLockFile(existing); err != nil {
			return nil, fmt.Errorf("failed to extend lock: %w", err)
		}
		return existing, nil
	}

	now := time.Now()
	lockInfo := &models.LockInfo{
		ID:          fmt.Sprintf("tables-lock-%d", now.UnixNano()),
		Owner:       ownerID,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(lm.lockTimeout),
		Environment: lm.environment,
	}

	if err := lm.writeLockFile(lockInfo); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return lockInfo, nil
}

// ReleaseLock removes the lock when lockInfo's owner still holds it
func (lm *LockManager) ReleaseLock(lockInfo *models.LockInfo) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	currentLock, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if currentLock.Owner != lockInfo.Owner {
		return fmt.Errorf("cannot release lock owned by %s", currentLock.Owner)
	}

	if err := os.Remove(lm.lockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// CleanupExpiredLocks removes an expired lock file
func (lm *LockManager) CleanupExpiredLocks() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lockInfo, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if time.Now().After(lockInfo.ExpiresAt) {
		return os.Remove(lm.lockFilePath)
	}
	return nil
}

func (lm *LockManager) readLockFile() (*models.LockInfo, error) {
	data, err := os.ReadFile(lm.lockFilePath)
	if err != nil {
		return nil, err
	}

	var lockInfo models.LockInfo
	if err := json.Unmarshal(data, &lockInfo); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &lockInfo, nil
}

func (lm *LockManager) writeLockFile(lockInfo *models.LockInfo) error {
	data, err := json.MarshalIndent(lockInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}

	tempFile := lm.lockFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp lock file: %w", err)
	}
	if err := os.Rename(tempFile, lm.lockFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp lock file: %w", err)
	}
	return nil
}
