package main

import (
	"fmt"
	"log"

	"github.com/evyataryagoni/geoip-leaderboard/internal/config"
	"github.com/evyataryagoni/geoip-leaderboard/internal/store"
)

// This tool creates or updates the ip_tracking schema.
// Usage: go run cmd/migrate/main.go
func main() {
	fmt.Println("🔄 Migrating ip_tracking schema...")

	// Load configuration
	appConfig := config.Load()

	dataStore, err := store.NewMySQLStore(appConfig.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer dataStore.Close()

	fmt.Println("✅ Connected to MySQL")

	if err := dataStore.Migrate(); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	fmt.Println("✅ Schema migrated successfully!")
}
