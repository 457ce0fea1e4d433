package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/anishkumar0507/hostelbackend/config"
	"github.com/anishkumar0507/hostelbackend/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Parent{},
		&models.LeaveRequest{},
		&models.LeaveEvent{},
		&models.EntryExitLog{},
		&models.Fee{},
		&models.Payment{},
		&models.Complaint{},
		&models.Location{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
