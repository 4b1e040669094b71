package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalogsync.GO/config"
	"catalogsync.GO/model/entity"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
	syncService "catalogsync.GO/service/sync"
)

var statusSyncType string

var syncStatusCmd = &cobra.Command{
	Use:   "sync:status",
	Short: "Print the current sync status as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		svc := syncService.NewStatusService(
			syncRepo.NewSyncRepository(db),
			productRepo.NewProductRepository(db),
		)
		payload, err := svc.Status(statusSyncType, 1, 10)
		if err != nil {
			fmt.Printf("Status failed: %v\n", err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	syncStatusCmd.Flags().StringVarP(&statusSyncType, "type", "t", entity.SyncTypeShopifyImport, "Sync type to report")
	rootCmd.AddCommand(syncStatusCmd)
}
