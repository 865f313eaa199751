package commands

import (
	"github.com/spf13/cobra"

	"petriz/core"
	"petriz/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := core.GetDB()
		if err != nil {
			return err
		}

		return db.AutoMigrate(
			&models.Term{},
			&models.Topic{},
			&models.SearchRecord{},
			&models.APIClient{},
			&models.APIKey{},
			&models.AuditLogEntry{},
		)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
