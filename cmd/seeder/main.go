// cmd/seeder/main.go
package main

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/joho/godotenv"

	"github.com/savannahlabs/orders-backend/internal/config"
	"github.com/savannahlabs/orders-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("loading config: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		stdlog.Fatalf("failed to connect to DB: %v", err)
	}
	defer database.Close()

	seedFiles := []string{
		"seed/schema.sql",
		"seed/customers.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			stdlog.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := database.Exec(string(content)); err != nil {
			stdlog.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
