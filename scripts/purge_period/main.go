package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"otcdocs/models"
	"otcdocs/pkg/workflow"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Deletes every labor-control folder (and, via the FK cascade, its documents)
// for one period. Folders are never deleted by the application itself; this
// exists only to reset test and staging environments.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./scripts/purge_period <YYYY-MM>")
		os.Exit(2)
	}
	period := os.Args[1]

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// children first so the parent FK never dangles mid-delete
	res := db.Where("category = ? AND period = ? AND parent_id IS NOT NULL", workflow.CategoryLaborControl, period).Delete(&models.Folder{})
	if res.Error != nil {
		log.Fatalf("failed to delete worker sub-folders: %v", res.Error)
	}
	children := res.RowsAffected
	res = db.Where("category = ? AND period = ?", workflow.CategoryLaborControl, period).Delete(&models.Folder{})
	if res.Error != nil {
		log.Fatalf("failed to delete period folders: %v", res.Error)
	}
	fmt.Printf("purged period %s: %d worker sub-folders, %d company folders\n", period, children, res.RowsAffected)
}
