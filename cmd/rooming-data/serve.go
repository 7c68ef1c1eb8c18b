package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rooming-data/internal/common/mqtt"
	"rooming-data/internal/config"
	httpapi "rooming-data/internal/http"
	"rooming-data/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard and JSON API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger
	cfg := a.cfg

	// A failed first load is not fatal: the dashboard shows the error and
	// the next request or reload tries again.
	if c, err := a.svc.Load(ctx); err != nil {
		logger.Warn("Initial catalog load failed", zap.String("driver", cfg.Source.Driver), zap.Error(err))
	} else {
		logger.Info("Catalog loaded", zap.Int("records", len(c.Records)), zap.String("driver", cfg.Source.Driver))
	}

	if cfg.Watch.Enabled && cfg.Source.Driver == config.DriverFile {
		startWatcher(ctx, cfg.Source.Path, a.svc, cfg.ReloadDebounce, logger)
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewClient(a.mqttConfig(), logger)
		if err != nil {
			logger.Warn("MQTT reload trigger disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
		} else {
			defer client.Disconnect()
			trigger := service.NewReloadTrigger(client, cfg.MQTT.ReloadTopic, cfg.MQTT.QoS, a.svc, cfg.ReloadDebounce, logger)
			if err := trigger.Start(ctx); err != nil {
				logger.Warn("MQTT subscribe failed", zap.String("topic", cfg.MQTT.ReloadTopic), zap.Error(err))
			} else {
				defer func() { _ = trigger.Stop() }()
			}
		}
	}

	router := httpapi.NewRouter(a.metrics, logger)
	rooming := httpapi.NewRoomingListsHandler(a.svc, logger)
	router.RegisterRoomingListRoutes(rooming)
	router.RegisterOpsRoutes(rooming, a.metrics)
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(a.svc, cfg.SearchDebounce, logger))

	l, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTP.Addr, err)
	}
	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case <-sigCh:
		logger.Info("Shutting down")
	case <-ctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("HTTP server failed", zap.Error(runErr))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	return runErr
}

func startWatcher(ctx context.Context, path string, svc service.RoomingListService, delay time.Duration, logger *zap.Logger) {
	fw, err := service.NewFileWatcher(path, svc, delay, logger)
	if err != nil {
		logger.Warn("File watch disabled", zap.String("path", path), zap.Error(err))
		return
	}
	go fw.Run(ctx)
}
