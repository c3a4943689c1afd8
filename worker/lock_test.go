package worker

import (
	"errors"
	"fieldfuze-scheduler/models"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockManagerAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "tables.lock")
	lm := NewLockManager(path, time.Hour, "test")

	lock, err := lm.AcquireLock("a")
	require.NoError(t, err)
	assert.Equal(t, "a", lock.Owner)
	assert.FileExists(t, path)

	extended, err := lm.AcquireLock("a")
	require.NoError(t, err)
	assert.Equal(t, lock.ID, extended.ID)

	_, err = lm.AcquireLock("b")
	assert.True(t, errors.Is(err, ErrLockHeld))

	assert.Error(t, lm.ReleaseLock(&models.LockInfo{Owner: "b"}))
	require.NoError(t, lm.ReleaseLock(lock))
	assert.NoFileExists(t, path)
	assert.NoError(t, lm.ReleaseLock(lock))
}

func TestLockManagerExpiredLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.lock")
	expired := NewLockManager(path, -time.Minute, "test")
	_, err := expired.AcquireLock("a")
	require.NoError(t, err)

	lm := NewLockManager(path, time.Hour, "test")
	lock, err := lm.AcquireLock("b")
	require.NoError(t, err)
	assert.Equal(t, "b", lock.Owner)
}

func TestLockManagerCleanupExpiredLocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.lock")
	assert.NoError(t, NewLockManager(path, time.Hour, "test").CleanupExpiredLocks())

	_, err := NewLockManager(path, -time.Minute, "test").AcquireLock("a")
	require.NoError(t, err)

	require.NoError(t, NewLockManager(path, time.Hour, "test").CleanupExpiredLocks())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStatusManagerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	sm := NewStatusManager(path, "test")
	assert.Equal(t, models.StatusIdle, sm.Current().Status)

	require.NoError(t, sm.Begin())
	require.NoError(t, sm.AddTableCreated(models.TableStatus{Name: "dev_technicians", Status: "CREATING"}))
	require.NoError(t, sm.AddTableCreated(models.TableStatus{Name: "dev_technicians", Status: "ACTIVE"}))
	require.NoError(t, sm.MarkCompleted())

	reloaded := NewStatusManager(path, "test")
	current := reloaded.Current()
	assert.True(t, reloaded.IsSetupCompleted())
	assert.Len(t, current.TablesCreated, 1)
	assert.Equal(t, "ACTIVE", current.TablesCreated[0].Status)
	assert.NotNil(t, current.EndTime)

	require.NoError(t, reloaded.MarkFailed("boom"))
	assert.False(t, reloaded.IsSetupCompleted())
	assert.Equal(t, "boom", reloaded.Current().ErrorMessage)
}

func TestStatusManagerCurrentIsCopy(t *testing.T) {
	sm := NewStatusManager(filepath.Join(t.TempDir(), "status.json"), "test")
	require.NoError(t, sm.AddTableCreated(models.TableStatus{Name: "t"}))

	current := sm.Current()
	current.TablesCreated[0].Name = "changed"

	assert.Equal(t, "t", sm.Current().TablesCreated[0].Name)
}
