package main

import (
	"context"
	"log"
	"os"

	"beerdash/adapters/postgres"
	"beerdash/internal/migration"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [table]")
	}

	databaseURL := os.Args[1]
	table := "beers"
	if len(os.Args) > 2 {
		table = os.Args[2]
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner(table)
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Table %s is at schema version %s", table, runner.Version())
}
