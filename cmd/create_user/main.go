package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"otcdocs/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Creates a user with a given role, optionally bound to a company by RUT.
// Staff roles (administrator, reviewer) take no company.
func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <username> <password> <role> [company_rut]")
		os.Exit(2)
	}
	username := os.Args[1]
	password := os.Args[2]
	roleName := os.Args[3]

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		log.Fatalf("role %s does not exist (run migrate first)", roleName)
	}

	var companyID *uint
	if len(os.Args) > 4 {
		if roleName != "contractor" {
			log.Fatalf("only contractor users take a company, role is %s", roleName)
		}
		var company models.Company
		if err := db.Where("rut = ?", os.Args[4]).First(&company).Error; err != nil {
			log.Fatalf("no company with RUT %s", os.Args[4])
		}
		cid := company.ID
		companyID = &cid
	}

	// check existing
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hpw, RoleID: &rid, CompanyID: companyID}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created %s user %s id=%d\n", roleName, username, user.ID)
}
