package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/greenbook/greenbook-api/internal/pkg/config"
	"github.com/greenbook/greenbook-api/pkg/logger"
)

// runtime is filled by the root command before any subcommand runs.
type runtime struct {
	envFile string
	cfg     *config.Config
	log     zerolog.Logger
}

func rootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "greenbook",
		Short:         "Greenbook plant catalogue API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}
	root.PersistentFlags().StringVar(&rt.envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	root.AddCommand(
		serveCommand(rt),
		migrateCommand(rt),
		ingestCommand(rt),
		createAdminCommand(rt),
	)
	return root
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), rt.envFile)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.log = logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty && !cfg.IsProduction(),
		Service: "greenbook-api",
		File: logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	}).With().Str("cmd", cmd.Name()).Logger()
	return nil
}
