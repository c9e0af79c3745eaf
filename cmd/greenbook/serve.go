package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/greenbook/greenbook-api/internal/app"
)

func serveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.cfg.RequireServe(); err != nil {
				return err
			}
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	a, err := app.New(ctx, rt.cfg, rt.log)
	if err != nil {
		rt.log.Error().Err(err).Msg("startup failed")
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			rt.log.Warn().Err(err).Msg("closing backends")
		}
	}()

	e := a.Router()
	addr := ":" + rt.cfg.HTTP.Port

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.log.Info().Str("addr", addr).Str("env", rt.cfg.HTTP.Env).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		rt.log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		rt.log.Error().Err(err).Msg("http server stopped with error")
		return err
	}
	rt.log.Info().Msg("http server stopped")
	return nil
}
