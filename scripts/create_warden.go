// scripts/create_warden.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/config"
	"github.com/anishkumar0507/hostelbackend/database"
	"github.com/anishkumar0507/hostelbackend/models"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)

	username := os.Getenv("WARDEN_USERNAME")
	if username == "" {
		username = "warden"
	}
	password := os.Getenv("WARDEN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("warden user already exists with username:", username)
		os.Exit(0)
	}

	u := models.User{
		Username: username,
		Password: string(hashed),
		Role:     models.RoleWarden,
		Name:     "Hostel Warden",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert warden: %v", err)
	}

	fmt.Println("warden user created")
	fmt.Println("  username:", username)
	fmt.Println("  password:", password, "(change it after first login)")
}
