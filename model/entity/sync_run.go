package entity

import (
	"time"

	"gorm.io/datatypes"
)

// SyncRun statuses. At most one run per sync type may sit in
// StatusInProgress at a time; terminal rows are kept as history.
const (
	SyncStatusInProgress = "in_progress"
	SyncStatusSuccess    = "success"
	SyncStatusPartial    = "partial"
	SyncStatusFailed     = "failed"
)

// Sync type identifiers for the two import pipelines.
const (
	SyncTypeShopifyImport = "import_from_shopify"
	SyncTypeDriveImport   = "import_from_gdrive"
)

// SyncRun is the persisted progress log for one import invocation.
// Counters are mutated in place while the run is live and polled by the
// status API. Details carries a capped error sample as JSON.
type SyncRun struct {
	ID         uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SyncType   string         `gorm:"column:sync_type;type:varchar(64);not null;index" json:"sync_type"`
	EntityType string         `gorm:"column:entity_type;type:varchar(32);not null" json:"entity_type"`
	Status     string         `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Total      int            `gorm:"column:total;not null;default:0" json:"total"`
	Imported   int            `gorm:"column:imported;not null;default:0" json:"imported"`
	Skipped    int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failed     int            `gorm:"column:failed;not null;default:0" json:"failed"`
	LastError  *string        `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
