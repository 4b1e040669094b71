package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	syncApi "catalogsync.GO/api/sync"
	entity "catalogsync.GO/model/entity"
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

func newServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	syncApi.RegisterSyncRoutes(e.Group("/api"), db)
	return e
}

func seedRuns(t *testing.T, db *gorm.DB) {
	t.Helper()
	repo := syncRepo.NewSyncRepository(db)

	run, err := repo.Start(entity.SyncTypeShopifyImport, "product", 10)
	if err != nil {
		t.Fatalf("seed start: %v", err)
	}
	run.Imported = 8
	run.Failed = 2
	msg := "product 5: upsert: constraint violation"
	run.LastError = &msg
	if err := repo.Finish(run, entity.SyncStatusPartial, map[string]interface{}{
		"errors": []map[string]string{{"product_id": "5", "message": "constraint violation"}},
	}); err != nil {
		t.Fatalf("seed finish: %v", err)
	}

	seedProducts := []entity.Product{
		{ShopifyProductID: 1, Title: "A", Handle: "a", Status: "active", ShopifyStatus: "ACTIVE"},
		{ShopifyProductID: 2, Title: "B", Handle: "b", Status: "active", ShopifyStatus: "ACTIVE"},
	}
	for i := range seedProducts {
		if err := db.Create(&seedProducts[i]).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	if err := db.Create(&entity.StagedMedia{
		ShopifyMediaID:   "gid://shopify/MediaImage/1",
		ShopifyProductID: 1,
		SourceURL:        "https://cdn.example.com/a.jpg",
		Filename:         "a.jpg",
		Position:         1,
	}).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}
}

func TestSyncStatusEndpoint(t *testing.T) {
	db := testDB(t)
	seedRuns(t, db)
	e := newServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status?errorsPage=1&errorsPageSize=10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Running       *json.RawMessage `json:"running"`
		LastCompleted *struct {
			Status   string `json:"status"`
			Imported int    `json:"imported"`
			Failed   int    `json:"failed"`
			Errors   []struct {
				ProductID string `json:"product_id"`
				Message   string `json:"message"`
			} `json:"errors"`
		} `json:"lastCompleted"`
		ProductCount      int64 `json:"productCount"`
		UnassociatedMedia struct {
			Count int64 `json:"count"`
		} `json:"unassociatedMedia"`
		RecentErrors     []json.RawMessage `json:"recentErrors"`
		RecentErrorsMeta struct {
			Page     int   `json:"page"`
			PageSize int   `json:"pageSize"`
			Total    int64 `json:"total"`
		} `json:"recentErrorsMeta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload.Running != nil && string(*payload.Running) != "null" {
		t.Errorf("running = %s, want null", *payload.Running)
	}
	if payload.LastCompleted == nil {
		t.Fatal("lastCompleted missing")
	}
	if payload.LastCompleted.Status != entity.SyncStatusPartial {
		t.Errorf("lastCompleted.status = %q", payload.LastCompleted.Status)
	}
	if payload.LastCompleted.Imported != 8 || payload.LastCompleted.Failed != 2 {
		t.Errorf("counters = %+v", payload.LastCompleted)
	}
	if len(payload.LastCompleted.Errors) != 1 || payload.LastCompleted.Errors[0].ProductID != "5" {
		t.Errorf("error sample = %+v", payload.LastCompleted.Errors)
	}
	if payload.ProductCount != 2 {
		t.Errorf("productCount = %d, want 2", payload.ProductCount)
	}
	if payload.UnassociatedMedia.Count != 1 {
		t.Errorf("unassociatedMedia.count = %d, want 1", payload.UnassociatedMedia.Count)
	}
	if len(payload.RecentErrors) != 1 || payload.RecentErrorsMeta.Total != 1 {
		t.Errorf("recentErrors = %d total=%d, want 1/1", len(payload.RecentErrors), payload.RecentErrorsMeta.Total)
	}
}

func TestSyncStatusEndpoint_ClampsPageSize(t *testing.T) {
	db := testDB(t)
	seedRuns(t, db)
	e := newServer(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status?errorsPage=0&errorsPageSize=500", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		RecentErrorsMeta struct {
			Page     int `json:"page"`
			PageSize int `json:"pageSize"`
		} `json:"recentErrorsMeta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.RecentErrorsMeta.Page != 1 {
		t.Errorf("page = %d, want 1", payload.RecentErrorsMeta.Page)
	}
	if payload.RecentErrorsMeta.PageSize != 50 {
		t.Errorf("pageSize = %d, want clamped to 50", payload.RecentErrorsMeta.PageSize)
	}
}

func TestSyncTrigger_RefusedWhileRunning(t *testing.T) {
	db := testDB(t)
	if _, err := syncRepo.NewSyncRepository(db).Start(entity.SyncTypeShopifyImport, "product", 0); err != nil {
		t.Fatalf("seed active run: %v", err)
	}
	e := newServer(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/shopify", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
