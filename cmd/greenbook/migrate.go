package main

import (
	"github.com/spf13/cobra"

	"github.com/greenbook/greenbook-api/internal/app"
	"github.com/greenbook/greenbook-api/internal/infrastructure/db/sqldb"
)

func migrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the relational schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := app.OpenDatabase(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			rt.log.Info().Msg("schema up to date")
			return sqldb.Close(db)
		},
	}
}
