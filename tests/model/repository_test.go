package modeltest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
	mediaRepo "catalogsync.GO/model/repository/media"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Product{},
		&entity.ProductVariant{},
		&entity.StagedMedia{},
		&entity.MediaBucket{},
		&entity.MediaAsset{},
		&entity.SyncRun{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestProductRepository_UpsertByShopifyID(t *testing.T) {
	db := testDB(t)
	repo := productRepo.NewProductRepository(db)

	p := &entity.Product{
		ShopifyProductID: 100,
		Title:            "Tee",
		Handle:           "tee",
		Status:           "active",
		ShopifyStatus:    "ACTIVE",
		LastSyncedAt:     time.Now(),
	}
	if err := repo.UpsertByShopifyID(p); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("ID not set after insert")
	}
	firstID := p.ID

	again := &entity.Product{
		ShopifyProductID: 100,
		Title:            "Tee v2",
		Handle:           "tee",
		Status:           "active",
		ShopifyStatus:    "DRAFT",
		SkuLabel:         strPtr("TEE-001"),
		LastSyncedAt:     time.Now(),
	}
	if err := repo.UpsertByShopifyID(again); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != firstID {
		t.Errorf("second upsert created new row: id %d != %d", again.ID, firstID)
	}

	var count int64
	db.Model(&entity.Product{}).Count(&count)
	if count != 1 {
		t.Errorf("products = %d, want 1", count)
	}

	found, err := repo.FindByID(firstID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Title != "Tee v2" || found.ShopifyStatus != "DRAFT" {
		t.Errorf("row not updated: %+v", found)
	}
	if found.SkuLabel == nil || *found.SkuLabel != "TEE-001" {
		t.Errorf("sku label not updated: %v", found.SkuLabel)
	}
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	repo := productRepo.NewProductRepository(testDB(t))
	p, err := repo.FindByID(999)
	if err != nil || p != nil {
		t.Errorf("FindByID(999) = (%v, %v), want (nil, nil)", p, err)
	}
}

func TestProductRepository_List_Search(t *testing.T) {
	db := testDB(t)
	repo := productRepo.NewProductRepository(db)

	seed := []entity.Product{
		{ShopifyProductID: 1, Title: "Blue Tee", Handle: "blue-tee", Status: "active", ShopifyStatus: "ACTIVE", SkuLabel: strPtr("TEE-001")},
		{ShopifyProductID: 2, Title: "Red Hat", Handle: "red-hat", Status: "active", ShopifyStatus: "ACTIVE", SkuLabel: strPtr("HAT-002")},
	}
	for i := range seed {
		if err := repo.UpsertByShopifyID(&seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, total, err := repo.List("tee", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Handle != "blue-tee" {
		t.Errorf("List(tee) = %d items total=%d", len(items), total)
	}

	_, total, err = repo.List("", 1, 10)
	if err != nil || total != 2 {
		t.Errorf("List() total = %d, want 2", total)
	}
}

func TestMediaRepository_BucketTwoKeys(t *testing.T) {
	db := testDB(t)
	repo := mediaRepo.NewMediaRepository(db)

	now := time.Now()
	byLabel := &entity.MediaBucket{
		SkuLabel:     "TEE-001",
		StoragePath:  "products/TEE-001/",
		Status:       "active",
		LastUploadAt: &now,
	}
	if err := repo.UpsertBucketBySkuLabel(byLabel); err != nil {
		t.Fatalf("UpsertBucketBySkuLabel: %v", err)
	}

	// Catalog path hits the same label: no second row, no error
	productID := uint(7)
	byProduct := &entity.MediaBucket{
		ProductID:   &productID,
		SkuLabel:    "TEE-001",
		StoragePath: "products/TEE-001/",
		Status:      "active",
	}
	if err := repo.EnsureBucketForProduct(byProduct); err != nil {
		t.Fatalf("EnsureBucketForProduct: %v", err)
	}

	var count int64
	db.Model(&entity.MediaBucket{}).Count(&count)
	if count != 1 {
		t.Errorf("buckets = %d, want 1", count)
	}

	// Second ensure for the same product is a no-op
	if err := repo.EnsureBucketForProduct(byProduct); err != nil {
		t.Fatalf("EnsureBucketForProduct again: %v", err)
	}
	db.Model(&entity.MediaBucket{}).Count(&count)
	if count != 1 {
		t.Errorf("buckets after re-ensure = %d, want 1", count)
	}
}

func TestMediaRepository_AssetDedup(t *testing.T) {
	db := testDB(t)
	repo := mediaRepo.NewMediaRepository(db)

	bucket := &entity.MediaBucket{SkuLabel: "TEE-001", StoragePath: "products/TEE-001/", Status: "active"}
	if err := repo.UpsertBucketBySkuLabel(bucket); err != nil {
		t.Fatalf("bucket: %v", err)
	}

	exists, err := repo.AssetExistsByFileKey("TEE-001/front.jpg")
	if err != nil || exists {
		t.Fatalf("AssetExistsByFileKey before insert = (%v, %v)", exists, err)
	}

	asset := &entity.MediaAsset{
		MediaBucketID:    bucket.ID,
		MediaType:        "image",
		WorkflowState:    "raw",
		WorkflowCategory: "raw_capture",
		FileURL:          "storj://media/TEE-001/front.jpg",
		FileKey:          "TEE-001/front.jpg",
		FileMimeType:     "image/jpeg",
		OriginalFilename: "front.jpg",
		SourcePath:       "TEE-001/front.jpg",
		DriveFileID:      "d1",
		ImportSource:     "google_drive",
	}
	if err := repo.CreateAsset(asset); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	exists, err = repo.AssetExistsByFileKey("TEE-001/front.jpg")
	if err != nil || !exists {
		t.Errorf("AssetExistsByFileKey after insert = (%v, %v), want (true, nil)", exists, err)
	}

	n, err := repo.CountAssets(bucket.ID)
	if err != nil || n != 1 {
		t.Errorf("CountAssets = (%d, %v), want (1, nil)", n, err)
	}
}

func TestSyncRepository_Lifecycle(t *testing.T) {
	db := testDB(t)
	repo := syncRepo.NewSyncRepository(db)

	run, err := repo.Start(entity.SyncTypeShopifyImport, "product", 10)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A second concurrent run of the same type is refused
	if _, err := repo.Start(entity.SyncTypeShopifyImport, "product", 0); err == nil {
		t.Fatal("second Start succeeded, want refusal")
	}
	// A different sync type may run in parallel
	other, err := repo.Start(entity.SyncTypeDriveImport, "media_asset", 0)
	if err != nil {
		t.Fatalf("Start other type: %v", err)
	}
	if err := repo.Finish(other, entity.SyncStatusSuccess, nil); err != nil {
		t.Fatalf("Finish other: %v", err)
	}

	run.Imported = 8
	run.Failed = 2
	if err := repo.SaveProgress(run); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	active, err := repo.Active(entity.SyncTypeShopifyImport)
	if err != nil || active == nil {
		t.Fatalf("Active = (%v, %v)", active, err)
	}
	if active.Imported != 8 {
		t.Errorf("active.Imported = %d, want 8", active.Imported)
	}

	if err := repo.Finish(run, entity.SyncStatusPartial, map[string]interface{}{
		"errors": []map[string]string{{"product_id": "1", "message": "boom"}},
	}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if active, _ := repo.Active(entity.SyncTypeShopifyImport); active != nil {
		t.Error("run still active after Finish")
	}
	last, err := repo.LastCompleted(entity.SyncTypeShopifyImport)
	if err != nil || last == nil {
		t.Fatalf("LastCompleted = (%v, %v)", last, err)
	}
	if last.Status != entity.SyncStatusPartial {
		t.Errorf("status = %q, want partial", last.Status)
	}
	if len(last.Details) == 0 {
		t.Error("details empty, want embedded error sample")
	}
}

func TestSyncRepository_ReapStale(t *testing.T) {
	db := testDB(t)
	repo := syncRepo.NewSyncRepository(db)

	run, err := repo.Start(entity.SyncTypeShopifyImport, "product", 0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Age the heartbeat past the cutoff
	stale := time.Now().Add(-2 * time.Hour)
	if err := db.Model(&entity.SyncRun{ID: run.ID}).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("age run: %v", err)
	}

	n, err := repo.ReapStale(30 * time.Minute)
	if err != nil {
		t.Fatalf("ReapStale: %v", err)
	}
	if n != 1 {
		t.Errorf("reaped = %d, want 1", n)
	}

	if active, _ := repo.Active(entity.SyncTypeShopifyImport); active != nil {
		t.Error("stale run still active")
	}
	last, _ := repo.LastCompleted(entity.SyncTypeShopifyImport)
	if last == nil || last.Status != entity.SyncStatusFailed {
		t.Fatalf("reaped run status = %+v, want failed", last)
	}
	if last.LastError == nil || *last.LastError == "" {
		t.Error("reaped run has no last_error")
	}
}
