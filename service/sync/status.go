package sync

import (
	"encoding/json"
	"math"
	"time"

	"github.com/mitchellh/mapstructure"

	entity "catalogsync.GO/model/entity"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
)

// RunInfo is the status-surface view of one sync run.
type RunInfo struct {
	Status    string      `json:"status"`
	StartedAt time.Time   `json:"startedAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Total     int         `json:"total"`
	Imported  int         `json:"imported"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	LastError *string     `json:"lastError"`
	Errors    []RunError  `json:"errors,omitempty"`
}

// RunError is one entry of the embedded error sample.
type RunError struct {
	ProductID string `json:"product_id,omitempty" mapstructure:"product_id"`
	Path      string `json:"path,omitempty" mapstructure:"path"`
	Message   string `json:"message" mapstructure:"message"`
}

// RecentError is one row of the paginated error history.
type RecentError struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	LastError *string   `json:"lastError"`
}

// StatusPayload is the full response of the status query surface.
type StatusPayload struct {
	Running           *RunInfo      `json:"running"`
	LastCompleted     *RunInfo      `json:"lastCompleted"`
	ProductCount      int64         `json:"productCount"`
	UnassociatedMedia MediaStats    `json:"unassociatedMedia"`
	RecentErrors      []RecentError `json:"recentErrors"`
	RecentErrorsMeta  ErrorsMeta    `json:"recentErrorsMeta"`
}

type MediaStats struct {
	Count       int64      `json:"count"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

type ErrorsMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// StatusService assembles the dashboard status payload.
type StatusService struct {
	syncs    *syncRepo.SyncRepository
	products *productRepo.ProductRepository
}

func NewStatusService(syncs *syncRepo.SyncRepository, products *productRepo.ProductRepository) *StatusService {
	return &StatusService{syncs: syncs, products: products}
}

// Status returns the live view for one sync type: the active run (or
// nil), the most recent terminal run, aggregate counts and a page of
// the error history.
func (s *StatusService) Status(syncType string, errorsPage, errorsPageSize int) (*StatusPayload, error) {
	active, err := s.syncs.Active(syncType)
	if err != nil {
		return nil, err
	}
	last, err := s.syncs.LastCompleted(syncType)
	if err != nil {
		return nil, err
	}

	productCount, err := s.products.Count()
	if err != nil {
		return nil, err
	}
	mediaCount, mediaLast, err := s.products.StagedMediaStats()
	if err != nil {
		return nil, err
	}

	runs, totalErrs, err := s.syncs.RecentErrors(errorsPage, errorsPageSize)
	if err != nil {
		return nil, err
	}
	recent := make([]RecentError, 0, len(runs))
	for _, r := range runs {
		recent = append(recent, RecentError{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Status:    r.Status,
			LastError: r.LastError,
		})
	}

	if errorsPage < 1 {
		errorsPage = 1
	}
	if errorsPageSize < 1 {
		errorsPageSize = 10
	}
	if errorsPageSize > 50 {
		errorsPageSize = 50
	}
	totalPages := 1
	if totalErrs > 0 {
		totalPages = int(math.Ceil(float64(totalErrs) / float64(errorsPageSize)))
	}

	return &StatusPayload{
		Running:           runInfo(active),
		LastCompleted:     runInfo(last),
		ProductCount:      productCount,
		UnassociatedMedia: MediaStats{Count: mediaCount, LastUpdated: mediaLast},
		RecentErrors:      recent,
		RecentErrorsMeta: ErrorsMeta{
			Page:       errorsPage,
			PageSize:   errorsPageSize,
			Total:      totalErrs,
			TotalPages: totalPages,
		},
	}, nil
}

func runInfo(run *entity.SyncRun) *RunInfo {
	if run == nil {
		return nil
	}
	info := &RunInfo{
		Status:    run.Status,
		StartedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
		Total:     run.Total,
		Imported:  run.Imported,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
		LastError: run.LastError,
	}
	info.Errors = decodeErrorSample(run.Details)
	return info
}

// decodeErrorSample pulls the error sample out of the details JSON.
// Decoded through a generic map so older rows with extra fields still
// round-trip cleanly.
func decodeErrorSample(details []byte) []RunError {
	if len(details) == 0 {
		return nil
	}
	var raw struct {
		Errors []map[string]interface{} `json:"errors"`
	}
	if err := json.Unmarshal(details, &raw); err != nil || len(raw.Errors) == 0 {
		return nil
	}
	out := make([]RunError, 0, len(raw.Errors))
	for _, m := range raw.Errors {
		var e RunError
		if err := mapstructure.Decode(m, &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}
