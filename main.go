package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beerdash/internal"
	"beerdash/internal/api"
	"beerdash/internal/config"
	"beerdash/internal/container"
	"beerdash/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel)).With("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	loadCtx, cancelLoad := context.WithTimeout(ctx, appConfig.Data.FetchTimeout+appConfig.Server.ShutdownTimeout)
	err = appContainer.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Error("Failed to load brewery data from %s: %v", appConfig.Data.Source, err)
		appContainer.Shutdown(context.Background())
		os.Exit(1)
	}

	dashboard, err := ui.NewApp(ui.Config{
		Port:            appConfig.Server.Port,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout,
	}, appContainer.Dashboard, appContainer.Sessions)
	if err != nil {
		log.Fatalf("Failed to create dashboard: %v", err)
	}

	apiServer := api.NewServer(
		api.NewChartHandler(appContainer.Dashboard, appContainer.Sessions),
		appConfig.Server.APIPort,
		appConfig.Server.GinMode,
		appConfig.Server.ShutdownTimeout,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dashboard.Start(gctx) })
	g.Go(func() error { return apiServer.Start(gctx) })
	g.Go(func() error {
		appContainer.Sessions.Run(gctx)
		return nil
	})

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		g.Go(func() error { return servePprof(gctx, appConfig.Profiling.Port, appConfig.Server.ShutdownTimeout) })
	}

	logger.Info("Dashboard on :%s, API on :%s", appConfig.Server.Port, appConfig.Server.APIPort)
	if err := g.Wait(); err != nil {
		logger.Error("Server stopped: %v", err)
		appContainer.Shutdown(context.Background())
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

func servePprof(ctx context.Context, port string, timeout time.Duration) error {
	srv := &http.Server{Addr: ":" + port, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Performance profiling server starting on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
