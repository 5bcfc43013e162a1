package repository

import (
	"testing"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Room{},
		&models.AssignedSubject{},
		&models.SchoolSettings{},
		&models.TimetableEntry{},
		&models.EntryAssignee{},
		&models.Note{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func mustUser(t *testing.T, repo UserRepository, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Password: "x",
		Role:     role,
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}
