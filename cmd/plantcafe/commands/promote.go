package commands

import (
	"fmt"

	"github.com/atinyakov/plantcafe/internal/db"
	"github.com/atinyakov/plantcafe/internal/repository"
	"github.com/atinyakov/plantcafe/internal/service"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant a user the right to add and edit cafes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDatabase(); err != nil {
			return err
		}
		conn, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		auth := service.NewAuthService(repository.NewPostgresUserRepository(conn))
		if err := auth.Promote(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}
