package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anishkumar0507/hostelbackend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// In-memory sqlite gives every pooled connection its own database;
	// pin the pool to one connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Parent{},
		&models.LeaveRequest{},
		&models.LeaveEvent{},
		&models.EntryExitLog{},
		&models.Fee{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// seedFamily creates one parent with one linked student.
func seedFamily(t *testing.T, db *gorm.DB) (models.Student, models.Parent) {
	t.Helper()
	parent := models.Parent{
		Email:    "parent@example.com",
		Phone:    "9876543210",
		Password: "x",
		Name:     "Parent One",
	}
	if err := db.Create(&parent).Error; err != nil {
		t.Fatalf("seed parent: %v", err)
	}
	student := models.Student{
		RollNumber: "H-1001",
		Name:       "Student One",
		Email:      "student@example.com",
		Password:   "x",
		Room:       "A-12",
		ParentID:   parent.ID,
		Presence:   models.PresenceOut,
		Status:     "active",
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student, parent
}
