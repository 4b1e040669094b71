package media

import (
	"errors"
	"time"

	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// UpsertBucketBySkuLabel is the drive-import path: keyed by sku_label,
// refreshing the source folder and last-upload timestamp on every hit.
// The incoming struct receives the existing primary key on update.
func (r *MediaRepository) UpsertBucketBySkuLabel(b *entity.MediaBucket) error {
	var existing entity.MediaBucket
	err := r.db.Select("id").Where("sku_label = ?", b.SkuLabel).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(b).Error
	}
	if err != nil {
		return err
	}
	b.ID = existing.ID
	return r.db.Model(&entity.MediaBucket{ID: existing.ID}).Updates(map[string]interface{}{
		"product_id":         b.ProductID,
		"storage_path":       b.StoragePath,
		"status":             b.Status,
		"source_folder_path": b.SourceFolder,
		"last_upload_at":     b.LastUploadAt,
	}).Error
}

// EnsureBucketForProduct is the catalog-import path: keyed by product_id,
// insert-only. An already existing bucket (by product or by label) is a
// success, not an error.
func (r *MediaRepository) EnsureBucketForProduct(b *entity.MediaBucket) error {
	var existing entity.MediaBucket
	err := r.db.Select("id").Where("product_id = ?", b.ProductID).First(&existing).Error
	if err == nil {
		b.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := r.db.Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// FindBucketBySkuLabel returns nil when no bucket exists for the label.
func (r *MediaRepository) FindBucketBySkuLabel(label string) (*entity.MediaBucket, error) {
	var b entity.MediaBucket
	err := r.db.Where("sku_label = ?", label).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// AssetExistsByFileKey reports whether an asset row already owns the
// object-store key. This is the import dedup check.
func (r *MediaRepository) AssetExistsByFileKey(key string) (bool, error) {
	var n int64
	err := r.db.Model(&entity.MediaAsset{}).Where("file_key = ?", key).Count(&n).Error
	return n > 0, err
}

// CreateAsset inserts one asset row. Callers must have checked the
// file_key first; a duplicate here is a real error.
func (r *MediaRepository) CreateAsset(a *entity.MediaAsset) error {
	return r.db.Create(a).Error
}

// CountAssets returns the asset count for one bucket.
func (r *MediaRepository) CountAssets(bucketID uint) (int64, error) {
	var n int64
	err := r.db.Model(&entity.MediaAsset{}).Where("media_bucket_id = ?", bucketID).Count(&n).Error
	return n, err
}

// TouchBucketUpload refreshes last_upload_at after a successful write.
func (r *MediaRepository) TouchBucketUpload(bucketID uint) error {
	return r.db.Model(&entity.MediaBucket{ID: bucketID}).
		Update("last_upload_at", time.Now()).Error
}
