package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var (
	migrateDir  string
	migrateDown bool
)

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		dsn := os.Getenv("MYSQL_DSN")
		if dsn == "" {
			user := os.Getenv("MYSQL_USER")
			pass := os.Getenv("MYSQL_PASS")
			host := os.Getenv("MYSQL_HOST")
			port := os.Getenv("MYSQL_PORT")
			db := os.Getenv("MYSQL_DB")
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, pass, host, port, db)
		}

		m, err := migrate.New("file://"+migrateDir, "mysql://"+dsn)
		if err != nil {
			fmt.Printf("Migrate init failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		if migrateDown {
			err = m.Steps(-1)
		} else {
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No pending migrations")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied")
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations", "Migrations directory")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back one migration step")
	rootCmd.AddCommand(migrateCmd)
}
