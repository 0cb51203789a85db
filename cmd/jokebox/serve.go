package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jokebox/internal/config"
	"jokebox/internal/server"
	"jokebox/internal/store"
	"jokebox/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content service",
	Long: `Serve GET /post from the jokes table and the single-page client for
every other path.

The store is configured through DB_* environment variables; the service
starts even when the database is unreachable.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadServer()
		if err != nil {
			logger.Fatal("Invalid configuration", zap.Error(err))
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, err := store.Open(cfg.DB)
		if err != nil {
			logger.Fatal("Failed to init store", zap.Error(err))
		}
		defer st.Close()

		assets, err := web.Assets(cfg.StaticDir)
		if err != nil {
			logger.Fatal("Failed to load client assets", zap.Error(err))
		}

		srv, err := server.NewServer(st, logger, server.Options{
			Production: cfg.Production(),
			Assets:     assets,
		})
		if err != nil {
			logger.Fatal("Failed to init server", zap.Error(err))
		}

		// Advisory only, the listener comes up regardless.
		go func() {
			probeCtx, probeCancel := context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
			defer probeCancel()
			srv.ProbeStore(probeCtx)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("Shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Error("Shutdown failed", zap.Error(err))
			}
		}()

		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
		logger.Info("Goodbye!")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "3000", "Port to listen on (overrides PORT)")
}
