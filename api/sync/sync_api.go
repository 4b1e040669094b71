package sync

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catalogsync.GO/api"
	"catalogsync.GO/config"
	"catalogsync.GO/core/storage"
	"catalogsync.GO/model/entity"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
	"catalogsync.GO/remote/gdrive"
	"catalogsync.GO/remote/shopify"
	assetService "catalogsync.GO/service/asset"
	catalogService "catalogsync.GO/service/catalog"
	searchService "catalogsync.GO/service/search"
	syncService "catalogsync.GO/service/sync"
)

func init() {
	api.RegisterModule(RegisterSyncRoutes)
}

func RegisterSyncRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/sync")

	// POST /api/sync/shopify – start a catalog import in the background
	g.POST("/shopify", func(c echo.Context) error {
		var body struct {
			PageSize int `json:"page_size"`
		}
		_ = c.Bind(&body)

		repo := syncRepo.NewSyncRepository(db)
		if active, err := repo.Active(entity.SyncTypeShopifyImport); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		} else if active != nil {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "a shopify import is already in progress",
				"run_id": active.ID,
			})
		}

		client, err := shopify.NewClientFromEnv()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		tracker := syncService.NewTracker(repo)
		svc := catalogService.NewService(db, client, tracker)
		if ix := searchService.NewServiceFromEnv(db); ix != nil {
			svc.SetIndexer(ix)
		}

		go func() {
			res, err := svc.ImportAllProducts(context.Background(), catalogService.ImportOptions{
				PageSize: body.PageSize,
			})
			if err != nil {
				log.Printf("[sync] shopify import failed: %v", err)
				return
			}
			log.Printf("[sync] shopify import done: imported=%d skipped=%d failed=%d",
				res.Imported, res.Skipped, res.Failed)
		}()

		return c.JSON(http.StatusAccepted, echo.Map{"status": "started", "sync_type": entity.SyncTypeShopifyImport})
	})

	// POST /api/sync/gdrive – start a drive folder import in the background
	g.POST("/gdrive", func(c echo.Context) error {
		var body struct {
			FolderID   string `json:"folder_id"`
			Bucket     string `json:"bucket"`
			BasePath   string `json:"base_path"`
			Thumbnails bool   `json:"thumbnails"`
		}
		_ = c.Bind(&body)
		if body.FolderID == "" {
			body.FolderID = os.Getenv("GDRIVE_ROOT_FOLDER_ID")
		}
		if body.Bucket == "" {
			body.Bucket = os.Getenv("STORJ_BUCKET")
		}
		if body.FolderID == "" || body.Bucket == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "folder_id and bucket are required"})
		}

		repo := syncRepo.NewSyncRepository(db)
		if active, err := repo.Active(entity.SyncTypeDriveImport); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		} else if active != nil {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "a drive import is already in progress",
				"run_id": active.ID,
			})
		}

		drive, err := gdrive.NewServiceFromEnv(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		store, err := storage.NewMinioStoreFromEnv()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		tracker := syncService.NewTracker(repo)
		svc := assetService.NewService(db, drive, drive, store, tracker)

		go func() {
			res, err := svc.ImportFolder(context.Background(), assetService.ImportOptions{
				FolderID:   body.FolderID,
				Bucket:     body.Bucket,
				BasePath:   body.BasePath,
				Thumbnails: body.Thumbnails,
			})
			if err != nil {
				log.Printf("[sync] drive import failed: %v", err)
				return
			}
			log.Printf("[sync] drive import done: uploaded=%d skipped=%d failed=%d",
				res.Uploaded, res.Skipped, res.Failed)
		}()

		return c.JSON(http.StatusAccepted, echo.Map{"status": "started", "sync_type": entity.SyncTypeDriveImport})
	})

	// GET /api/sync/status – progress and recent errors for one sync type
	g.GET("/status", func(c echo.Context) error {
		syncType := c.QueryParam("type")
		if syncType == "" {
			syncType = entity.SyncTypeShopifyImport
		}
		errorsPage, _ := strconv.Atoi(c.QueryParam("errorsPage"))
		errorsPageSize, _ := strconv.Atoi(c.QueryParam("errorsPageSize"))

		cacheKey := "sync:status:" + syncType + ":" + strconv.Itoa(errorsPage) + ":" + strconv.Itoa(errorsPageSize)
		if config.RedisClient != nil {
			if cached, err := config.RedisClient.Get(config.RedisCtx(), cacheKey).Result(); err == nil {
				return c.JSONBlob(http.StatusOK, []byte(cached))
			}
		}

		svc := syncService.NewStatusService(syncRepo.NewSyncRepository(db), productRepo.NewProductRepository(db))
		payload, err := svc.Status(syncType, errorsPage, errorsPageSize)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		if config.RedisClient != nil {
			if b, err := json.Marshal(payload); err == nil {
				config.RedisClient.Set(config.RedisCtx(), cacheKey, b, 5*time.Second)
			}
		}
		return c.JSON(http.StatusOK, payload)
	})
}
