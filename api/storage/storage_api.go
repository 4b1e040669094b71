package storage

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catalogsync.GO/api"
	objstore "catalogsync.GO/core/storage"
)

func init() {
	api.RegisterModule(RegisterStorageRoutes)
}

func RegisterStorageRoutes(apiGroup *echo.Group, _ *gorm.DB) {
	g := apiGroup.Group("/storage")

	// GET /api/storage/list – browse the object store by prefix.
	// Delimited listing: folders come back as common prefixes.
	g.GET("/list", func(c echo.Context) error {
		bucket := c.QueryParam("bucket")
		if bucket == "" {
			bucket = os.Getenv("STORJ_BUCKET")
		}
		if bucket == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bucket is required"})
		}
		maxKeys, _ := strconv.Atoi(c.QueryParam("maxKeys"))

		store, err := objstore.NewMinioStoreFromEnv()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		listing, err := store.List(c.Request().Context(), bucket,
			c.QueryParam("prefix"), c.QueryParam("continuationToken"), maxKeys)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, listing)
	})
}
