package cron

import (
	"os"

	"catalogsync.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs returns the built-in jobs. Schedules can be overridden per
// job via env (CATALOG_SYNC_CRON, DRIVE_SYNC_CRON, SYNC_REAP_CRON).
// Called after LoadEnv so .env values are visible.
func CronJobs() map[string]CronJob {
	return map[string]CronJob{
		"shopify:sync": {Schedule: schedule("CATALOG_SYNC_CRON", "0 */6 * * *"), Job: jobs.ShopifySyncJob},
		"gdrive:sync":  {Schedule: schedule("DRIVE_SYNC_CRON", "30 */6 * * *"), Job: jobs.DriveSyncJob},
		"sync:reap":    {Schedule: schedule("SYNC_REAP_CRON", "@every 10m"), Job: jobs.ReapStaleJob},
		// Add more jobs here
	}
}

func schedule(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}
