package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"catalogsync.GO/config"
	"catalogsync.GO/core/storage"
	syncRepo "catalogsync.GO/model/repository/sync"
	"catalogsync.GO/remote/gdrive"
	"catalogsync.GO/remote/shopify"
	assetService "catalogsync.GO/service/asset"
	catalogService "catalogsync.GO/service/catalog"
	searchService "catalogsync.GO/service/search"
	syncService "catalogsync.GO/service/sync"
)

// ShopifySyncJob runs a full catalog import. Gated on
// CRON_SYNC_ENABLED so a deployed scheduler does not import by accident.
func ShopifySyncJob(args ...string) {
	if os.Getenv("CRON_SYNC_ENABLED") != "true" {
		log.Println("[cron] shopify:sync skipped (CRON_SYNC_ENABLED != true)")
		return
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("[cron] shopify:sync db: %v", err)
		return
	}
	client, err := shopify.NewClientFromEnv()
	if err != nil {
		log.Printf("[cron] shopify:sync client: %v", err)
		return
	}

	tracker := syncService.NewTracker(syncRepo.NewSyncRepository(db))
	svc := catalogService.NewService(db, client, tracker)
	if ix := searchService.NewServiceFromEnv(db); ix != nil {
		svc.SetIndexer(ix)
	}

	res, err := svc.ImportAllProducts(context.Background(), catalogService.ImportOptions{})
	if err != nil {
		log.Printf("[cron] shopify:sync failed: %v", err)
		return
	}
	log.Printf("[cron] shopify:sync done: imported=%d skipped=%d failed=%d",
		res.Imported, res.Skipped, res.Failed)
}

// DriveSyncJob imports the configured drive folder into object storage.
func DriveSyncJob(args ...string) {
	if os.Getenv("CRON_SYNC_ENABLED") != "true" {
		log.Println("[cron] gdrive:sync skipped (CRON_SYNC_ENABLED != true)")
		return
	}
	folderID := os.Getenv("GDRIVE_ROOT_FOLDER_ID")
	bucket := os.Getenv("STORJ_BUCKET")
	if folderID == "" || bucket == "" {
		log.Println("[cron] gdrive:sync skipped (GDRIVE_ROOT_FOLDER_ID or STORJ_BUCKET unset)")
		return
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("[cron] gdrive:sync db: %v", err)
		return
	}
	ctx := context.Background()
	drive, err := gdrive.NewServiceFromEnv(ctx)
	if err != nil {
		log.Printf("[cron] gdrive:sync drive: %v", err)
		return
	}
	store, err := storage.NewMinioStoreFromEnv()
	if err != nil {
		log.Printf("[cron] gdrive:sync storage: %v", err)
		return
	}

	tracker := syncService.NewTracker(syncRepo.NewSyncRepository(db))
	svc := assetService.NewService(db, drive, drive, store, tracker)

	res, err := svc.ImportFolder(ctx, assetService.ImportOptions{
		FolderID:   folderID,
		Bucket:     bucket,
		BasePath:   os.Getenv("STORJ_BASE_PATH"),
		Thumbnails: os.Getenv("THUMBNAILS_ENABLED") == "true",
	})
	if err != nil {
		log.Printf("[cron] gdrive:sync failed: %v", err)
		return
	}
	log.Printf("[cron] gdrive:sync done: uploaded=%d skipped=%d failed=%d",
		res.Uploaded, res.Skipped, res.Failed)
}

// ReapStaleJob marks in_progress runs with no heartbeat as failed so a
// crashed import does not block the next trigger forever.
func ReapStaleJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("[cron] sync:reap db: %v", err)
		return
	}
	cutoff := 30 * time.Minute
	if v := os.Getenv("SYNC_REAP_AFTER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cutoff = d
		}
	}
	n, err := syncRepo.NewSyncRepository(db).ReapStale(cutoff)
	if err != nil {
		log.Printf("[cron] sync:reap failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[cron] sync:reap: marked %d stalled run(s) failed", n)
	}
}
