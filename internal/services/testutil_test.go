package services

import (
	"testing"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB открывает чистую базу в памяти с полной схемой
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

func mustCreateUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, yearGroup string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  "x",
		Role:      role,
		YearGroup: yearGroup,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustCreateSubject(t *testing.T, db *gorm.DB, name string) *models.Subject {
	t.Helper()
	subject := &models.Subject{ID: uuid.New(), Name: name}
	if err := db.Create(subject).Error; err != nil {
		t.Fatalf("create subject %s: %v", name, err)
	}
	return subject
}

func mustAssign(t *testing.T, db *gorm.DB, userID, subjectID uuid.UUID) {
	t.Helper()
	link := &models.AssignedSubject{ID: uuid.New(), UserID: userID, SubjectID: subjectID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("assign subject: %v", err)
	}
}
