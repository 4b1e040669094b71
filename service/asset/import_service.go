package asset

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"catalogsync.GO/core/storage"
	entity "catalogsync.GO/model/entity"
	mediaRepo "catalogsync.GO/model/repository/media"
	productRepo "catalogsync.GO/model/repository/product"
	"catalogsync.GO/remote/gdrive"
	syncService "catalogsync.GO/service/sync"
)

const maxErrorSample = 25

// ImportOptions configures one drive-folder import run.
type ImportOptions struct {
	FolderID   string
	Bucket     string
	BasePath   string
	Thumbnails bool
}

// ImportError records one failed leaf without aborting the batch.
type ImportError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ImportResult holds counters from a folder import run.
type ImportResult struct {
	Total          int           `json:"total"`
	Uploaded       int           `json:"uploaded"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	BucketsCreated int           `json:"buckets_created"`
	Errors         []ImportError `json:"errors"`
}

// Service walks a remote folder tree and imports every file leaf into
// object storage plus the media_assets table.
type Service struct {
	lister     gdrive.Lister
	downloader gdrive.Downloader
	store      storage.ObjectStore
	products   *productRepo.ProductRepository
	media      *mediaRepo.MediaRepository
	tracker    *syncService.Tracker
}

func NewService(db *gorm.DB, lister gdrive.Lister, downloader gdrive.Downloader,
	store storage.ObjectStore, tracker *syncService.Tracker) *Service {
	return &Service{
		lister:     lister,
		downloader: downloader,
		store:      store,
		products:   productRepo.NewProductRepository(db),
		media:      mediaRepo.NewMediaRepository(db),
		tracker:    tracker,
	}
}

// bucketCacheEntry is the run-scoped cache value for one SKU label.
type bucketCacheEntry struct {
	bucket  *entity.MediaBucket
	created bool
}

// ImportFolder runs one complete drive import. Walking the tree is
// fatal when it fails; each leaf afterwards is isolated: failures are
// recorded with their path and originating SKU and the walk continues.
func (s *Service) ImportFolder(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	if opts.FolderID == "" {
		return nil, fmt.Errorf("asset: folder id is required")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("asset: target bucket is required")
	}
	basePath := cleanPrefix(opts.BasePath)

	run, err := s.tracker.Start(entity.SyncTypeDriveImport, "media_asset")
	if err != nil {
		return nil, err
	}

	leaves, err := gdrive.ListTree(ctx, s.lister, opts.FolderID)
	if err != nil {
		s.tracker.Fail(run, fmt.Errorf("list folder tree: %w", err))
		return nil, fmt.Errorf("list folder tree: %w", err)
	}

	run.Total = len(leaves)
	s.tracker.Tick(run)

	result := &ImportResult{Total: len(leaves)}

	// Bucket lookups are cached for this invocation only; the cache is
	// never shared across runs.
	bucketCache := make(map[string]*bucketCacheEntry)
	seenSkus := make(map[string]bool)

	for i := range leaves {
		leaf := &leaves[i]
		sku := firstSegment(leaf.Path)
		if sku != "" && !seenSkus[sku] {
			log.Printf("asset: importing SKU folder %s", sku)
			seenSkus[sku] = true
		}

		uploaded, err := s.importLeaf(ctx, leaf, basePath, opts, bucketCache, result)
		if err != nil {
			result.Failed++
			run.Failed++
			msg := err.Error()
			run.LastError = &msg
			result.Errors = append(result.Errors, ImportError{Path: leaf.Path, Message: msg})
			if sku == "" {
				sku = "unknown"
			}
			log.Printf("asset: import error sku=%s path=%s: %v", sku, leaf.Path, err)
		} else if uploaded {
			result.Uploaded++
			run.Imported++
		} else {
			result.Skipped++
			run.Skipped++
		}
		s.tracker.Tick(run)
	}

	sample := result.Errors
	if len(sample) > maxErrorSample {
		sample = sample[:maxErrorSample]
	}
	s.tracker.Finish(run, map[string]interface{}{"errors": sample})

	return result, nil
}

// importLeaf processes one file. Returns (true, nil) when a new asset
// was created, (false, nil) when the object key was already imported.
func (s *Service) importLeaf(ctx context.Context, leaf *gdrive.Leaf, basePath string,
	opts ImportOptions, bucketCache map[string]*bucketCacheEntry, result *ImportResult) (bool, error) {

	skuLabel := firstSegment(leaf.Path)
	if skuLabel == "" {
		return false, fmt.Errorf("missing SKU label in path")
	}

	entry, ok := bucketCache[skuLabel]
	if !ok {
		bucket, created, err := s.resolveBucket(skuLabel, basePath, leaf.Path)
		if err != nil {
			return false, fmt.Errorf("bucket upsert failed for %s: %w", skuLabel, err)
		}
		entry = &bucketCacheEntry{bucket: bucket, created: created}
		bucketCache[skuLabel] = entry
		if created {
			result.BucketsCreated++
		}
	}

	key := joinKey(basePath, leaf.Path)

	data, err := s.downloader.Download(ctx, leaf.ID)
	if err != nil {
		return false, fmt.Errorf("download failed: %w", err)
	}

	// Object-store writes are idempotent overwrites; only the metadata
	// row below is dedup-guarded.
	if err := s.store.Put(ctx, opts.Bucket, key, data, leaf.MimeType); err != nil {
		return false, fmt.Errorf("upload failed: %w", err)
	}

	exists, err := s.media.AssetExistsByFileKey(key)
	if err != nil {
		return false, fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		log.Printf("asset: skipping duplicate file %s (key already imported)", leaf.Name)
		return false, nil
	}

	mediaType := MediaTypeFromMime(leaf.MimeType)
	mediaAsset := entity.MediaAsset{
		MediaBucketID:    entry.bucket.ID,
		MediaType:        mediaType,
		WorkflowState:    "raw",
		WorkflowCategory: DetermineWorkflowCategory(leaf.Path),
		FileURL:          fmt.Sprintf("storj://%s/%s", opts.Bucket, key),
		FileKey:          key,
		FileSize:         int64(len(data)),
		FileMimeType:     leaf.MimeType,
		OriginalFilename: leaf.Name,
		SourcePath:       leaf.Path,
		DriveFileID:      leaf.ID,
		ImportSource:     "google_drive",
	}
	if err := s.media.CreateAsset(&mediaAsset); err != nil {
		return false, fmt.Errorf("asset insert failed for %s: %w", leaf.Path, err)
	}

	if err := s.media.TouchBucketUpload(entry.bucket.ID); err != nil {
		log.Printf("asset: touch bucket %d: %v", entry.bucket.ID, err)
	}

	if opts.Thumbnails && mediaType == "image" && len(data) <= thumbMaxBytes {
		s.uploadThumbnail(ctx, opts.Bucket, key, data)
	}

	return true, nil
}

// resolveBucket looks up the owning product (optional) and upserts the
// bucket keyed by SKU label. Reports whether the bucket is new.
func (s *Service) resolveBucket(skuLabel, basePath, leafPath string) (*entity.MediaBucket, bool, error) {
	existing, err := s.media.FindBucketBySkuLabel(skuLabel)
	if err != nil {
		return nil, false, err
	}

	storagePath := joinKey(basePath, fmt.Sprintf("products/%s/", skuLabel))
	folder := path.Dir(leafPath)
	now := time.Now()

	bucket := entity.MediaBucket{
		SkuLabel:     skuLabel,
		StoragePath:  storagePath,
		Status:       "active",
		SourceFolder: &folder,
		LastUploadAt: &now,
	}

	// Product linkage is best effort; a bucket without a product is fine.
	product, err := s.products.FindBySkuLabel(skuLabel)
	if err != nil {
		return nil, false, err
	}
	if product != nil {
		bucket.ProductID = &product.ID
	}

	if err := s.media.UpsertBucketBySkuLabel(&bucket); err != nil {
		return nil, false, err
	}
	return &bucket, existing == nil, nil
}

func (s *Service) uploadThumbnail(ctx context.Context, bucket, key string, data []byte) {
	thumb, err := thumbnailJPEG(data, 512)
	if err != nil {
		log.Printf("asset: thumbnail for %s: %v", key, err)
		return
	}
	thumbKey := "thumbs/" + key + ".jpg"
	if err := s.store.Put(ctx, bucket, thumbKey, thumb, "image/jpeg"); err != nil {
		log.Printf("asset: thumbnail upload for %s: %v", key, err)
	}
}

func firstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

func cleanPrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}

func joinKey(basePath, rest string) string {
	if basePath == "" {
		return rest
	}
	return basePath + "/" + rest
}
