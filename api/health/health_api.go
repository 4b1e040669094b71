package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catalogsync.GO/api"
)

func init() {
	api.RegisterRoute(RegisterHealthRoutes)
}

// tables probed by the health endpoint, in report order
var probeTables = []string{
	"products",
	"product_variants",
	"staged_media",
	"media_buckets",
	"media_assets",
	"sync_runs",
}

func RegisterHealthRoutes(e *echo.Echo, db *gorm.DB) {
	// GET /health – per-table connectivity probe (public)
	e.GET("/health", func(c echo.Context) error {
		status := http.StatusOK
		tables := make(map[string]string, len(probeTables))
		for _, name := range probeTables {
			var n int64
			if err := db.Table(name).Count(&n).Error; err != nil {
				tables[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				tables[name] = "ok"
			}
		}
		body := echo.Map{"status": "ok", "tables": tables}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		return c.JSON(status, body)
	})
}
