package entity

import "time"

// StagedMedia holds catalog-provided images that are not yet linked into
// the asset library. ProductID may be nil: media can arrive before its
// product resolves. Keyed by shopify_media_id.
type StagedMedia struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ShopifyMediaID   string    `gorm:"column:shopify_media_id;type:varchar(128);not null;uniqueIndex" json:"shopify_media_id"`
	ShopifyProductID uint64    `gorm:"column:shopify_product_id;not null;index" json:"shopify_product_id"`
	ProductID        *uint     `gorm:"column:product_id;index" json:"product_id,omitempty"`
	SourceURL        string    `gorm:"column:source_url;type:text;not null" json:"source_url"`
	Filename         string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	AltText          *string   `gorm:"column:alt_text;type:text" json:"alt_text,omitempty"`
	MimeType         *string   `gorm:"column:mime_type;type:varchar(64)" json:"mime_type,omitempty"`
	Width            *int      `gorm:"column:width" json:"width,omitempty"`
	Height           *int      `gorm:"column:height" json:"height,omitempty"`
	Position         int       `gorm:"column:position;not null;default:1" json:"position"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (StagedMedia) TableName() string {
	return "staged_media"
}

// MediaBucket groups assets under one SKU label and storage path prefix.
// Two uniqueness keys exist on purpose: the drive import upserts by
// sku_label, the catalog import by product_id. A bucket may exist before
// its product does.
type MediaBucket struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID       *uint      `gorm:"column:product_id;uniqueIndex" json:"product_id,omitempty"`
	SkuLabel        string     `gorm:"column:sku_label;type:varchar(128);not null;uniqueIndex" json:"sku_label"`
	StoragePath     string     `gorm:"column:storage_path;type:varchar(512);not null" json:"storage_path"`
	Status          string     `gorm:"column:status;type:varchar(32);not null;default:active" json:"status"`
	SourceFolder    *string    `gorm:"column:source_folder_path;type:varchar(1024)" json:"source_folder_path,omitempty"`
	LastUploadAt    *time.Time `gorm:"column:last_upload_at" json:"last_upload_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MediaBucket) TableName() string {
	return "media_buckets"
}

// MediaAsset is one file in the asset library. FileKey (the object-store
// key) is the dedup anchor: a second import of the same key is skipped.
type MediaAsset struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MediaBucketID    uint      `gorm:"column:media_bucket_id;not null;index" json:"media_bucket_id"`
	MediaType        string    `gorm:"column:media_type;type:varchar(16);not null" json:"media_type"`
	WorkflowState    string    `gorm:"column:workflow_state;type:varchar(32);not null;default:raw" json:"workflow_state"`
	WorkflowCategory string    `gorm:"column:workflow_category;type:varchar(32);not null" json:"workflow_category"`
	FileURL          string    `gorm:"column:file_url;type:varchar(1024);not null" json:"file_url"`
	FileKey          string    `gorm:"column:file_key;type:varchar(768);not null;uniqueIndex" json:"file_key"`
	FileSize         int64     `gorm:"column:file_size;not null;default:0" json:"file_size"`
	FileMimeType     string    `gorm:"column:file_mime_type;type:varchar(64);not null" json:"file_mime_type"`
	OriginalFilename string    `gorm:"column:original_filename;type:varchar(255);not null" json:"original_filename"`
	SourcePath       string    `gorm:"column:source_folder_path;type:varchar(1024);not null" json:"source_folder_path"`
	DriveFileID      string    `gorm:"column:drive_file_id;type:varchar(128);not null" json:"drive_file_id"`
	ImportSource     string    `gorm:"column:import_source;type:varchar(32);not null;default:google_drive" json:"import_source"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
