//go:build !cli
// +build !cli

package main

import (
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"catalogsync.GO/api"
	_ "catalogsync.GO/api/health"
	_ "catalogsync.GO/api/logs"
	_ "catalogsync.GO/api/product"
	_ "catalogsync.GO/api/storage"
	_ "catalogsync.GO/api/sync"
	"catalogsync.GO/config"
	"catalogsync.GO/core/auth"
	"catalogsync.GO/core/logbuf"
	_ "catalogsync.GO/custom"
	"catalogsync.GO/graphql"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	log.SetOutput(io.MultiWriter(os.Stderr, logbuf.GetInstance()))

	if os.Getenv("NO_BANNER") == "" {
		figure.NewFigure("catalogsync", "", true).Print()
	}

	config.InitRedis()
	redisStatus := "Redis not configured, status caching disabled."
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil
			redisStatus = "Redis configured but not reachable, status caching disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	e.POST("/graphql", echo.WrapHandler(graphql.NewHandler(db)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
