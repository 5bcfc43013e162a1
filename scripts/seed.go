package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"timetable/internal/models"
	"timetable/internal/services"
)

func main() {
	// Подключаемся к базе данных
	db, err := gorm.Open(sqlite.Open("instance/timetable.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Автомиграция
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
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Создаем тестовых пользователей
	staffID := uuid.New()
	student1ID := uuid.New()
	student2ID := uuid.New()

	users := []models.User{
		{ID: staffID, Username: "mr_jones", Password: string(hash), Role: models.RoleStaff},
		{ID: student1ID, Username: "alice", Password: string(hash), Role: models.RoleStudent, YearGroup: "10"},
		{ID: student2ID, Username: "bob", Password: string(hash), Role: models.RoleStudent, YearGroup: "10"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", users[i].Username, err)
		}
	}

	// Предметы и кабинеты
	math := models.Subject{ID: uuid.New(), Name: "Mathematics"}
	physics := models.Subject{ID: uuid.New(), Name: "Physics"}
	roomA := models.Room{ID: uuid.New(), Name: "A101"}
	for _, m := range []interface{}{&math, &physics, &roomA} {
		if err := db.Create(m).Error; err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// Составы предметов
	links := []models.AssignedSubject{
		{ID: uuid.New(), UserID: student1ID, SubjectID: math.ID},
		{ID: uuid.New(), UserID: student2ID, SubjectID: math.ID},
		{ID: uuid.New(), UserID: staffID, SubjectID: math.ID},
		{ID: uuid.New(), UserID: student1ID, SubjectID: physics.ID},
	}
	for i := range links {
		if err := db.Create(&links[i]).Error; err != nil {
			log.Fatalf("Failed to assign subject: %v", err)
		}
	}

	// Пара занятий на текущей неделе
	weekStart, _ := services.WeekWindow(time.Now(), 0)
	for i, slot := range []struct {
		day        int
		start, end string
	}{
		{0, "09:00", "10:00"},
		{2, "11:00", "12:00"},
	} {
		date := weekStart.AddDate(0, 0, slot.day)
		week, dayName := services.WeekOf(date)
		entry := models.TimetableEntry{
			ID:        uuid.New(),
			Date:      date,
			Week:      week,
			DayOfWeek: dayName,
			Subject:   "Mathematics",
			Teacher:   "mr_jones",
			StartTime: slot.start,
			EndTime:   slot.end,
			Room:      "A101",
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Fatalf("Failed to create entry: %v", err)
		}
		for _, userID := range []uuid.UUID{student1ID, student2ID, staffID} {
			link := models.EntryAssignee{ID: uuid.New(), EntryID: entry.ID, UserID: userID}
			if err := db.Create(&link).Error; err != nil {
				log.Fatalf("Failed to assign entry: %v", err)
			}
		}
		fmt.Printf("Seeded entry %d on %s\n", i+1, entry.Date.Format("2006-01-02"))
	}

	fmt.Println("Seed completed")
}
