package product

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catalogsync.GO/api"
	"catalogsync.GO/core/cache"
	productRepo "catalogsync.GO/model/repository/product"
	searchService "catalogsync.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterProductRoutes)
}

func RegisterProductRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")
	repo := productRepo.NewProductRepository(db)

	// GET /api/products – paginated listing with optional search.
	// Uses Elasticsearch when configured, SQL LIKE otherwise.
	g.GET("", func(c echo.Context) error {
		search := c.QueryParam("search")
		page, _ := strconv.Atoi(c.QueryParam("page"))
		pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		cacheKey := cache.Key("products:list", search, page, pageSize)
		if cached, ok := cache.GetInstance().Get(cacheKey); ok {
			return c.JSON(http.StatusOK, cached)
		}

		if search != "" {
			if ix := searchService.NewServiceFromEnv(db); ix != nil {
				ids, total, err := ix.Search(c.Request().Context(), search, page, pageSize)
				if err == nil {
					items := make([]interface{}, 0, len(ids))
					for _, id := range ids {
						if p, err := repo.FindByID(id); err == nil && p != nil {
							items = append(items, p)
						}
					}
					resp := echo.Map{"items": items, "total": total, "page": page, "page_size": pageSize}
					cache.GetInstance().Set(cacheKey, resp, 60, []string{cache.TagProducts})
					return c.JSON(http.StatusOK, resp)
				}
				// ES failure falls through to SQL search
			}
		}

		items, total, err := repo.List(search, page, pageSize)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		resp := echo.Map{"items": items, "total": total, "page": page, "page_size": pageSize}
		cache.GetInstance().Set(cacheKey, resp, 60, []string{cache.TagProducts})
		return c.JSON(http.StatusOK, resp)
	})

	// GET /api/products/:id – one product with variants and staged media
	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}

		cacheKey := cache.Key("products:detail", id)
		if cached, ok := cache.GetInstance().Get(cacheKey); ok {
			return c.JSON(http.StatusOK, cached)
		}

		p, err := repo.FindByID(uint(id))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if p == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		cache.GetInstance().Set(cacheKey, p, 300, []string{cache.TagProducts})
		return c.JSON(http.StatusOK, p)
	})
}
