// Package server initializes and runs the presence server.
// It opens the storage backends, wires the presence service and the HTTP API,
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/freightdesk/presence/internal/logging"
	"github.com/freightdesk/presence/internal/server/config"
	"github.com/freightdesk/presence/internal/server/httpapi"
	"github.com/freightdesk/presence/internal/server/presence"
	"github.com/freightdesk/presence/internal/server/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *storage.Manager
	server  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	sm, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	service := presence.NewService(sm.Presence(), sm.Carriers(), logger)
	server := httpapi.NewServer(cfg, service, logger, sm)

	return &App{config: cfg, logger: logger, storage: sm, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
