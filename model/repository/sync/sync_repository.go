package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
)

type SyncRepository struct {
	db *gorm.DB
}

func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// Start creates the in_progress row for a run. A second concurrent
// invocation of the same sync type is refused.
func (r *SyncRepository) Start(syncType, entityType string, total int) (*entity.SyncRun, error) {
	active, err := r.Active(syncType)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("sync %q already running (run %d)", syncType, active.ID)
	}
	run := &entity.SyncRun{
		SyncType:   syncType,
		EntityType: entityType,
		Status:     entity.SyncStatusInProgress,
		Total:      total,
	}
	if err := r.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// SaveProgress persists the run's live counters. Best effort: callers
// treat a failed tick as non-fatal.
func (r *SyncRepository) SaveProgress(run *entity.SyncRun) error {
	return r.db.Model(&entity.SyncRun{ID: run.ID}).Updates(map[string]interface{}{
		"total":      run.Total,
		"imported":   run.Imported,
		"skipped":    run.Skipped,
		"failed":     run.Failed,
		"last_error": run.LastError,
		"updated_at": time.Now(),
	}).Error
}

// Finish moves the run to its terminal status and embeds a capped error
// sample in the details column.
func (r *SyncRepository) Finish(run *entity.SyncRun, status string, errSample interface{}) error {
	run.Status = status
	updates := map[string]interface{}{
		"status":     status,
		"total":      run.Total,
		"imported":   run.Imported,
		"skipped":    run.Skipped,
		"failed":     run.Failed,
		"last_error": run.LastError,
		"updated_at": time.Now(),
	}
	if errSample != nil {
		if raw, err := json.Marshal(errSample); err == nil {
			run.Details = raw
			updates["details"] = raw
		}
	}
	return r.db.Model(&entity.SyncRun{ID: run.ID}).Updates(updates).Error
}

// Active returns the in_progress run for a sync type, or nil.
func (r *SyncRepository) Active(syncType string) (*entity.SyncRun, error) {
	var run entity.SyncRun
	err := r.db.Where("sync_type = ? AND status = ?", syncType, entity.SyncStatusInProgress).
		Order("created_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LastCompleted returns the most recent terminal run for a sync type, or nil.
func (r *SyncRepository) LastCompleted(syncType string) (*entity.SyncRun, error) {
	var run entity.SyncRun
	err := r.db.Where("sync_type = ? AND status IN ?", syncType, []string{
		entity.SyncStatusSuccess, entity.SyncStatusPartial, entity.SyncStatusFailed,
	}).Order("created_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentErrors pages through runs that recorded an error, newest first.
func (r *SyncRepository) RecentErrors(page, pageSize int) ([]entity.SyncRun, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}
	q := r.db.Model(&entity.SyncRun{}).Where("last_error IS NOT NULL")
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var runs []entity.SyncRun
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&runs).Error
	return runs, total, err
}

// ReapStale fails in_progress runs whose last update is older than the
// cutoff. A crashed process leaves its run stuck; this is the cleanup.
func (r *SyncRepository) ReapStale(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := r.db.Model(&entity.SyncRun{}).
		Where("status = ? AND updated_at < ?", entity.SyncStatusInProgress, cutoff).
		Updates(map[string]interface{}{
			"status":     entity.SyncStatusFailed,
			"last_error": "reaped: run stalled",
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
