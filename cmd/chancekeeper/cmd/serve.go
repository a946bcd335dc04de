package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/chancekeeper/internal/core/api"
	"github.com/solatis/chancekeeper/internal/core/cache"
	"github.com/solatis/chancekeeper/internal/core/db"
	"github.com/solatis/chancekeeper/internal/core/httpapi"
	"github.com/solatis/chancekeeper/internal/core/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC evaluation service and the HTTP control API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("grpc-host", "", "gRPC server host")
	serveCmd.Flags().Int("grpc-port", 0, "gRPC server port")
	serveCmd.Flags().String("http-host", "", "HTTP control API host")
	serveCmd.Flags().Int("http-port", 0, "HTTP control API port")
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"server.grpc_host": "grpc-host",
		"server.grpc_port": "grpc-port",
		"server.http_host": "http-host",
		"server.http_port": "http-port",
	})
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if _, err := db.MigrateUp(ctx, database); err != nil {
			return err
		}
	}
	if err := requireMigrated(ctx, database); err != nil {
		return err
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	chanceCache, err := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer chanceCache.Close()

	service, err := api.NewChanceService(db.NewChanceStore(queries, nil), chanceCache)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg, service, log)
	if err != nil {
		return fmt.Errorf("failed to create grpc server: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, httpapi.New(service, log, cfg.Server.RequestTimeout))
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	log.Info().EmbedObject(cfg).Msg("starting chancekeeper")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Start(gctx) })
	g.Go(func() error { return httpServer.Start(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			grpcServer.Shutdown(shutdownCtx),
			httpServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// requireMigrated fails when any embedded migration is still pending.
func requireMigrated(ctx context.Context, database *sqlx.DB) error {
	statuses, err := db.MigrateStatus(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			return fmt.Errorf("migration %s not applied - run 'chancekeeper migrate' or pass --migrate", s.ID)
		}
	}
	return nil
}
