package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenbook/greenbook-api/internal/app"
)

func ingestCommand(rt *runtime) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Add plants from a random catalogue page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			res, err := a.Ingestion.IngestRandom(ctx, count)
			if err != nil {
				return err
			}
			for _, p := range res.Plants {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", p.ID, p.ScientificName, p.CommonName)
			}
			rt.log.Info().Int("page", res.Page).Int("added", len(res.Plants)).Msg("ingestion finished")
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of plants to add (0 uses INGEST_BATCH_SIZE)")
	return cmd
}
