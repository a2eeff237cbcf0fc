// Command migrate brings the database schema up to date and exits.
package main

import (
	"fmt"
	"log"

	"brrads/internal/config"
	"brrads/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap database handle: %w", err)
	}
	defer sqlDB.Close()

	for _, model := range database.RegisteredModels() {
		log.Printf("migrated %T", model)
	}
	return nil
}
