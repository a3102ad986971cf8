package main

import (
	"fmt"
	"log"
	"os"

	"otcdocs/pkg/workflow"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

func main() {
	// Load ./.env if present before reading vars; already-set env wins.
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./otcdocs migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	// Optional slot-catalog override file, hot-reloaded on change.
	if path := os.Getenv("CATALOG_FILE"); path != "" {
		if err := workflow.LoadCatalogFile(path); err != nil {
			log.Fatalf("failed to load catalog file %s: %v", path, err)
		}
		go watchCatalogFile(path)
	}

	initDB()

	r := gin.Default()

	setupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}
	r.Run(":" + port)
}
