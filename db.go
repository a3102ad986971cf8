package main

import (
	"log"
	"os"
	"strings"

	"otcdocs/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.Company{}); err != nil {
			log.Printf("migration warning (companies): %v", err)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Vehicle{}); err != nil {
			log.Printf("migration warning (vehicles): %v", err)
		}
		if err := db.AutoMigrate(&models.Worker{}); err != nil {
			log.Printf("migration warning (workers): %v", err)
		}
		if err := db.AutoMigrate(&models.Folder{}); err != nil {
			log.Printf("migration warning (folders): %v", err)
		}
		if err := db.AutoMigrate(&models.Document{}); err != nil {
			log.Printf("migration warning (documents): %v", err)
		}
		if err := db.AutoMigrate(&models.Activity{}); err != nil {
			log.Printf("migration warning (activities): %v", err)
		}
		if err := db.AutoMigrate(&models.Notification{}); err != nil {
			log.Printf("migration warning (notifications): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
	}

	// Ensure documents -> folders FK exists (in case the table predates the FolderID column)
	if shouldMigrate {
		if err := ensureDocumentFolderFK(); err != nil {
			log.Printf("warning: ensuring documents->folders FK failed: %v", err)
		}
	}
	seedDB()
}

// ensureDocumentFolderFK adds the folder_id column and FK constraint if they are missing.
func ensureDocumentFolderFK() error {
	// 1. Ensure folder_id column exists
	if err := db.Exec(`ALTER TABLE documents ADD COLUMN IF NOT EXISTS folder_id BIGINT`).Error; err != nil {
		return err
	}
	// 2. Create index (idempotent)
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_folder_id ON documents(folder_id)`).Error; err != nil {
		return err
	}
	// 3. Check if FK already present
	type cnt struct{ N int }
	var c cnt
	fkCheckSQL := `SELECT count(*) AS n
		FROM pg_constraint ct
		JOIN pg_class rel ON rel.oid = ct.conrelid
		WHERE rel.relname = 'documents' AND ct.contype = 'f'
		  AND pg_get_constraintdef(ct.oid) ILIKE '%folder_id%' AND pg_get_constraintdef(ct.oid) ILIKE '%folders%'`
	if err := db.Raw(fkCheckSQL).Scan(&c).Error; err != nil {
		return err
	}
	if c.N == 0 {
		if err := db.Exec(`ALTER TABLE documents
			ADD CONSTRAINT fk_documents_folders
			FOREIGN KEY (folder_id) REFERENCES folders(id)
			ON UPDATE CASCADE ON DELETE CASCADE`).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles() {
	roles := []models.Role{
		{Name: "administrator", Description: "OTC administration, full access"},
		{Name: "reviewer", Description: "OTC prevention staff, reviews folders"},
		{Name: "contractor", Description: "contractor company user"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin")
	}
	// Ensure upload directory exists
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored documents (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
