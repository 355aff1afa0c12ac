package main

import (
	"flag"
	"log"

	"gorm.io/gorm/clause"

	"github.com/rmoliveira/quotation-service/internal/config"
	"github.com/rmoliveira/quotation-service/internal/hash"
	"github.com/rmoliveira/quotation-service/internal/models"
)

// initadmin seeds (or resets) the admin panel account. Flags override
// the ADMIN_USER / ADMIN_PASS environment variables.
func main() {
	user := flag.String("user", "", "admin username (default: ADMIN_USER env)")
	pass := flag.String("pass", "", "admin password (default: ADMIN_PASS env)")
	flag.Parse()

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	username := *user
	if username == "" {
		username = configuration.ADMIN_USER
	}
	password := *pass
	if password == "" {
		password = configuration.ADMIN_PASS
	}
	if username == "" || password == "" {
		log.Fatal("admin username and password are required (flags or ADMIN_USER/ADMIN_PASS)")
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	admin := models.AdminUser{Username: username, PasswordHash: hashed}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
	}).Create(&admin).Error
	if err != nil {
		log.Fatalf("cannot upsert admin: %v", err)
	}

	log.Printf("admin %q initialized", username)
}
