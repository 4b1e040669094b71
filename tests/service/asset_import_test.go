package servicetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"catalogsync.GO/core/storage"
	entity "catalogsync.GO/model/entity"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
	"catalogsync.GO/remote/gdrive"
	assetService "catalogsync.GO/service/asset"
	syncService "catalogsync.GO/service/sync"
)

// fakeDrive is both Lister and Downloader over a static tree.
type fakeDrive struct {
	tree    map[string][]gdrive.File
	content map[string][]byte
	listErr error
	dlErr   map[string]error
}

func (f *fakeDrive) ListFolder(ctx context.Context, folderID string) ([]gdrive.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tree[folderID], nil
}

func (f *fakeDrive) Download(ctx context.Context, fileID string) ([]byte, error) {
	if err, ok := f.dlErr[fileID]; ok {
		return nil, err
	}
	data, ok := f.content[fileID]
	if !ok {
		return nil, fmt.Errorf("no such file %s", fileID)
	}
	return data, nil
}

// memStore records every Put in memory.
type memStore struct {
	mu   sync.Mutex
	puts map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{puts: make(map[string][]byte)}
}

func (m *memStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[bucket+"/"+key] = data
	return nil
}

func (m *memStore) List(ctx context.Context, bucket, prefix, token string, maxKeys int) (*storage.Listing, error) {
	return &storage.Listing{}, nil
}

func driveFixture() *fakeDrive {
	return &fakeDrive{
		tree: map[string][]gdrive.File{
			"root": {
				{ID: "f1", Name: "TEE-001", MimeType: gdrive.FolderMimeType},
			},
			"f1": {
				{ID: "f2", Name: "Raw Captures", MimeType: gdrive.FolderMimeType},
				{ID: "img1", Name: "front.jpg", MimeType: "image/jpeg", Size: 3},
			},
			"f2": {
				{ID: "img2", Name: "IMG_0001.CR3", MimeType: "image/x-canon-cr3", Size: 4},
			},
		},
		content: map[string][]byte{
			"img1": []byte("jpg"),
			"img2": []byte("cr3!"),
		},
	}
}

func newAssetService(db *gorm.DB, drive *fakeDrive, store *memStore) *assetService.Service {
	tracker := syncService.NewTracker(syncRepo.NewSyncRepository(db))
	return assetService.NewService(db, drive, drive, store, tracker)
}

func TestAssetImport_FullRun(t *testing.T) {
	db := testDB(t)
	drive := driveFixture()
	store := newMemStore()
	svc := newAssetService(db, drive, store)

	res, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{
		FolderID: "root",
		Bucket:   "media",
	})
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if res.Total != 2 || res.Uploaded != 2 || res.Skipped != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v, want 2 uploaded", res)
	}
	if res.BucketsCreated != 1 {
		t.Errorf("buckets created = %d, want 1", res.BucketsCreated)
	}

	if _, ok := store.puts["media/TEE-001/front.jpg"]; !ok {
		t.Error("front.jpg not uploaded")
	}
	if _, ok := store.puts["media/TEE-001/Raw Captures/IMG_0001.CR3"]; !ok {
		t.Error("IMG_0001.CR3 not uploaded")
	}

	var asset entity.MediaAsset
	if err := db.Where("file_key = ?", "TEE-001/Raw Captures/IMG_0001.CR3").First(&asset).Error; err != nil {
		t.Fatalf("asset row missing: %v", err)
	}
	if asset.WorkflowCategory != assetService.CategoryRawCapture {
		t.Errorf("category = %q, want raw_capture", asset.WorkflowCategory)
	}
	if asset.MediaType != "image" {
		t.Errorf("media type = %q, want image", asset.MediaType)
	}
	if asset.FileURL != "storj://media/TEE-001/Raw Captures/IMG_0001.CR3" {
		t.Errorf("file url = %q", asset.FileURL)
	}

	var bucket entity.MediaBucket
	if err := db.Where("sku_label = ?", "TEE-001").First(&bucket).Error; err != nil {
		t.Fatalf("bucket missing: %v", err)
	}
	if bucket.LastUploadAt == nil {
		t.Error("last_upload_at not set")
	}

	run, _ := syncRepo.NewSyncRepository(db).LastCompleted(entity.SyncTypeDriveImport)
	if run == nil || run.Status != entity.SyncStatusSuccess {
		t.Fatalf("run = %+v, want success", run)
	}
}

func TestAssetImport_SecondRunSkipsDuplicates(t *testing.T) {
	db := testDB(t)
	drive := driveFixture()
	store := newMemStore()
	svc := newAssetService(db, drive, store)

	if _, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root", Bucket: "media"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root", Bucket: "media"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if res.Uploaded != 0 || res.Skipped != 2 {
		t.Errorf("second run = %+v, want 2 skipped", res)
	}
	var assets int64
	db.Model(&entity.MediaAsset{}).Count(&assets)
	if assets != 2 {
		t.Errorf("asset rows = %d, want 2", assets)
	}
	var buckets int64
	db.Model(&entity.MediaBucket{}).Count(&buckets)
	if buckets != 1 {
		t.Errorf("bucket rows = %d, want 1", buckets)
	}
}

func TestAssetImport_PerFileFailureIsolation(t *testing.T) {
	db := testDB(t)
	drive := driveFixture()
	drive.dlErr = map[string]error{"img1": fmt.Errorf("download timeout")}
	store := newMemStore()
	svc := newAssetService(db, drive, store)

	res, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root", Bucket: "media"})
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if res.Uploaded != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v, want 1 uploaded 1 failed", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].Path != "TEE-001/front.jpg" {
		t.Errorf("errors = %+v", res.Errors)
	}

	run, _ := syncRepo.NewSyncRepository(db).LastCompleted(entity.SyncTypeDriveImport)
	if run == nil || run.Status != entity.SyncStatusPartial {
		t.Fatalf("run = %+v, want partial", run)
	}
}

func TestAssetImport_TreeWalkFailureIsFatal(t *testing.T) {
	db := testDB(t)
	drive := driveFixture()
	drive.listErr = fmt.Errorf("quota exceeded")
	svc := newAssetService(db, drive, newMemStore())

	if _, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root", Bucket: "media"}); err == nil {
		t.Fatal("expected fatal error")
	}
	run, _ := syncRepo.NewSyncRepository(db).LastCompleted(entity.SyncTypeDriveImport)
	if run == nil || run.Status != entity.SyncStatusFailed {
		t.Fatalf("run = %+v, want failed", run)
	}
}

func TestAssetImport_LinksBucketToExistingProduct(t *testing.T) {
	db := testDB(t)
	products := productRepo.NewProductRepository(db)
	label := "TEE-001"
	p := &entity.Product{
		ShopifyProductID: 100,
		Title:            "Tee",
		Handle:           "tee",
		Status:           "active",
		ShopifyStatus:    "ACTIVE",
		SkuLabel:         &label,
	}
	if err := products.UpsertByShopifyID(p); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	svc := newAssetService(db, driveFixture(), newMemStore())
	if _, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root", Bucket: "media"}); err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}

	var bucket entity.MediaBucket
	if err := db.Where("sku_label = ?", label).First(&bucket).Error; err != nil {
		t.Fatalf("bucket missing: %v", err)
	}
	if bucket.ProductID == nil || *bucket.ProductID != p.ID {
		t.Errorf("bucket product id = %v, want %d", bucket.ProductID, p.ID)
	}
}

func TestAssetImport_RequiresFolderAndBucket(t *testing.T) {
	svc := newAssetService(testDB(t), driveFixture(), newMemStore())
	if _, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{Bucket: "media"}); err == nil {
		t.Error("missing folder id accepted")
	}
	if _, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{FolderID: "root"}); err == nil {
		t.Error("missing bucket accepted")
	}
}
