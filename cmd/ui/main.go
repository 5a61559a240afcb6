// Command ui serves only the HTML dashboard, without the JSON API
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"beerdash/internal/config"
	"beerdash/internal/container"
	"beerdash/ui"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	defer c.Shutdown(context.Background())
	if err := c.Load(ctx); err != nil {
		log.Fatalf("Failed to load brewery data: %v", err)
	}

	app, err := ui.NewApp(ui.Config{Port: cfg.Server.Port, ShutdownTimeout: cfg.Server.ShutdownTimeout}, c.Dashboard, c.Sessions)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	go c.Sessions.Run(ctx)
	log.Printf("Starting beer dashboard on http://localhost:%s", cfg.Server.Port)
	if err := app.Start(ctx); err != nil {
		log.Fatal(err)
	}
}
