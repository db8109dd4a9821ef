package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/pkg/database"
)

const usage = `
Portal Backend - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Run GORM migrations
  status      Show database connection status
  seed        Seed reference data (currencies, job categories)
  reset       Drop all tables and re-run migrations (DANGEROUS)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
`

var tables = []interface{}{
	&user.User{},
	&user.Profile{},
	&user.Organization{},
	&chat.Conversation{},
	&chat.Message{},
	&job.Vacancy{},
	&job.Application{},
	&job.Bookmark{},
	&job.Category{},
	&job.Preference{},
	&job.Currency{},
}

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadConfig()
	database.Connect(cfg)

	switch flag.Arg(0) {
	case "up":
		if err := database.DB.AutoMigrate(tables...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "status":
		if err := database.HealthCheck(); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		log.Println("Database connection OK")
	case "seed":
		if err := database.Seed(database.DB); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Reference data seeded")
	case "reset":
		if err := database.DB.Migrator().DropTable(tables...); err != nil {
			log.Fatalf("Drop failed: %v", err)
		}
		if err := database.DB.AutoMigrate(tables...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database reset")
	default:
		flag.Usage()
		os.Exit(1)
	}
}
