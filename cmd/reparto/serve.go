package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/warp/reparto/api"
	"github.com/warp/reparto/config"
	"github.com/warp/reparto/logger"
	"github.com/warp/reparto/metrics"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload service",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("server")

	var recorder metrics.Recorder = metrics.NopRecorder{}
	routerOpts := api.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		recorder = prom
		routerOpts.MetricsHandler = promhttp.Handler()
		routerOpts.MetricsPath = cfg.Metrics.Path
	}

	handler := api.NewHandler(api.Options{
		Logger:               logger.New("api"),
		Recorder:             recorder,
		DefaultHolidayPreset: cfg.Calendar.HolidayPreset,
		MaxUploadBytes:       cfg.Server.MaxUploadBytes(),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, routerOpts),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  cfg.Server.IdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server starting on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Infof("server stopped")
	return nil
}
