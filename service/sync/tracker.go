package sync

import (
	"log"

	entity "catalogsync.GO/model/entity"
	syncRepo "catalogsync.GO/model/repository/sync"
)

// Tracker owns the persisted run record of one import. Progress ticks
// are fire and forget: a failed persist never aborts the run itself.
type Tracker struct {
	repo *syncRepo.SyncRepository
}

func NewTracker(repo *syncRepo.SyncRepository) *Tracker {
	return &Tracker{repo: repo}
}

// Start opens the in_progress run. Errors here (including an already
// running sync of the same type) are fatal to the invocation.
func (t *Tracker) Start(syncType, entityType string) (*entity.SyncRun, error) {
	return t.repo.Start(syncType, entityType, 0)
}

// Tick persists the live counters, best effort.
func (t *Tracker) Tick(run *entity.SyncRun) {
	if err := t.repo.SaveProgress(run); err != nil {
		log.Printf("sync: progress tick failed for run %d: %v", run.ID, err)
	}
}

// Finish closes the run: success with zero failures, partial otherwise.
// errSample is a capped slice of per-item errors embedded as JSON.
func (t *Tracker) Finish(run *entity.SyncRun, errSample interface{}) {
	status := entity.SyncStatusSuccess
	if run.Failed > 0 {
		status = entity.SyncStatusPartial
	}
	if err := t.repo.Finish(run, status, errSample); err != nil {
		log.Printf("sync: finish failed for run %d: %v", run.ID, err)
	}
}

// Fail closes the run as failed after a fatal pre-item error.
func (t *Tracker) Fail(run *entity.SyncRun, cause error) {
	msg := cause.Error()
	run.LastError = &msg
	if err := t.repo.Finish(run, entity.SyncStatusFailed, nil); err != nil {
		log.Printf("sync: fail persist failed for run %d: %v", run.ID, err)
	}
}
