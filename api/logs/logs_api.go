package logs

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catalogsync.GO/api"
	"catalogsync.GO/core/logbuf"
)

func init() {
	api.RegisterModule(RegisterLogRoutes)
}

// RegisterLogRoutes exposes the in-memory log tail. Only mounted when
// APP_ENV is not production.
func RegisterLogRoutes(apiGroup *echo.Group, _ *gorm.DB) {
	if os.Getenv("APP_ENV") == "production" {
		return
	}

	// GET /api/logs/dev?limit=200
	apiGroup.GET("/logs/dev", func(c echo.Context) error {
		n, _ := strconv.Atoi(c.QueryParam("limit"))
		if n <= 0 {
			n = 200
		}
		return c.JSON(http.StatusOK, echo.Map{"lines": logbuf.GetInstance().Tail(n)})
	})
}
