package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/database"
	"github.com/johnquangdev/loan-agent-trainer/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "maximum number of migrations to apply (0 = all)")
	dir := flag.String("dir", database.MigrationsDir, "directory containing migration files")
	flag.Parse()

	var dirn migrate.MigrationDirection
	switch *direction {
	case "up":
		dirn = migrate.Up
	case "down":
		dirn = migrate.Down
	default:
		log.Fatalf("Unknown direction %q, expected up or down", *direction)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database using GORM
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("🔄 Applying migrations (%s) from %s/ ...", *direction, *dir)

	n, err := database.Migrate(db, *dir, dirn, *steps)
	if err != nil {
		log.Printf("Failed to apply migrations: %v", err)
		os.Exit(1)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
