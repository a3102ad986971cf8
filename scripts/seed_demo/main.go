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

// Seeds a demo contractor with vehicles, workers and their folders so the
// dashboard has something to show in a fresh environment.
func main() {
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	company := models.Company{Name: "Demo Montajes Ltda", RUT: "76.000.000-0", ContactEmail: "demo@montajes.cl"}
	if err := db.Where("rut = ?", company.RUT).FirstOrCreate(&company).Error; err != nil {
		log.Fatalf("failed to seed company: %v", err)
	}
	for _, cat := range workflow.CompanyCategories() {
		var cnt int64
		db.Model(&models.Folder{}).Where("company_id = ? AND category = ?", company.ID, cat).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.Folder{Category: cat, Status: workflow.StatusDraft, CompanyID: company.ID})
		}
	}

	for _, plate := range []string{"DEMO-01", "DEMO-02"} {
		vehicle := models.Vehicle{CompanyID: company.ID, PlateNumber: plate, Description: "demo truck"}
		if err := db.Where("company_id = ? AND plate_number = ?", company.ID, plate).FirstOrCreate(&vehicle).Error; err != nil {
			log.Printf("vehicle %s: %v", plate, err)
			continue
		}
		vid := vehicle.ID
		var cnt int64
		db.Model(&models.Folder{}).Where("vehicle_id = ?", vid).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.Folder{Category: workflow.CategoryVehicles, Status: workflow.StatusDraft, CompanyID: company.ID, VehicleID: &vid})
		}
	}

	for i, name := range []string{"Pedro Pavez", "Carla Munoz", "Jorge Diaz"} {
		worker := models.Worker{CompanyID: company.ID, FullName: name, NationalID: fmt.Sprintf("11.111.11%d-1", i)}
		if err := db.Where("company_id = ? AND national_id = ?", company.ID, worker.NationalID).FirstOrCreate(&worker).Error; err != nil {
			log.Printf("worker %s: %v", name, err)
			continue
		}
		wid := worker.ID
		var cnt int64
		db.Model(&models.Folder{}).Where("worker_id = ? AND category = ?", wid, workflow.CategoryPersonnel).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.Folder{Category: workflow.CategoryPersonnel, Status: workflow.StatusDraft, CompanyID: company.ID, WorkerID: &wid})
		}
	}

	fmt.Printf("seeded demo company id=%d\n", company.ID)
}
