package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/finchat/finchat/calc"
	"github.com/finchat/finchat/metrics"
	"github.com/finchat/finchat/runner"
	"github.com/finchat/finchat/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the chat service over HTTP with server-sent-event streaming and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger := buildLogger(cfg)

		m, err := buildModel(cfg)
		if err != nil {
			return err
		}

		registry, err := calc.DefaultRegistry()
		if err != nil {
			return err
		}

		promReg := prometheus.NewRegistry()
		collector := metrics.NewPrometheus(promReg)

		r := runner.New(m, registry, func(o *runner.Options) {
			o.EmptyRetryLimit = cfg.Orchestration.EmptyRetryLimit
			o.MaxToolParallelism = cfg.Orchestration.MaxToolParallelism
			o.ModelTimeout = cfg.Model.Timeout.Std()
			o.ToolTimeout = cfg.Orchestration.ToolTimeout.Std()
			o.EventBufferSize = cfg.Orchestration.EventBufferSize
			o.Logger = logger
			o.Collector = collector
		})

		srv := &http.Server{
			Addr: cfg.Addr(),
			Handler: server.New(r, func(o *server.Options) {
				o.Logger = logger
				o.MetricsHandler = promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})
			}).Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server.listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("server.shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
