package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"petriz/core"
	"petriz/models"
)

var (
	createClientType     string
	createClientName     string
	createClientValidity int64
)

var createClientCmd = &cobra.Command{
	Use:   "create-client",
	Short: "Provision an API client credential",
	Long: `Provision an API client and its secret key.

The secret is printed once and cannot be recovered afterwards, only
rotated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientType, err := models.ParseClientType(createClientType)
		if err != nil {
			return err
		}

		db, err := core.GetDB()
		if err != nil {
			return err
		}

		client, err := models.CreateAPIClient(db, createClientName, clientType, "")
		if err != nil {
			return err
		}

		var validUntil *time.Time
		if createClientValidity > 0 {
			expiry := time.Now().Add(time.Duration(createClientValidity) * time.Second)
			validUntil = &expiry
		}

		key, err := models.CreateAPIKey(db, client, validUntil)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "API Client ID: %s\n", client.UID)
		fmt.Fprintf(cmd.OutOrStdout(), "API Client Secret: %s\n", key.Secret)
		return nil
	},
}

func init() {
	createClientCmd.Flags().StringVar(&createClientType, "client-type", string(models.ClientTypeInternal), "Type of client to create (internal, public or partner)")
	createClientCmd.Flags().StringVar(&createClientName, "name", "", "Client name (generated when omitted)")
	createClientCmd.Flags().Int64Var(&createClientValidity, "validity-period", 0, "Client secret validity period in seconds (0 = never expires)")
	rootCmd.AddCommand(createClientCmd)
}
