package repository

import (
	"errors"
	"testing"

	"timetable/internal/models"
)

func TestCreateSubjectDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubjectRepository(db)
	if _, err := repo.CreateSubject("Math"); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if _, err := repo.CreateSubject("Math"); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("CreateSubject duplicate error = %v, want ErrDuplicateName", err)
	}
	// Кабинеты проверяются независимо от предметов
	if _, err := repo.CreateRoom("Math"); err != nil {
		t.Errorf("CreateRoom with subject's name: %v", err)
	}
	if _, err := repo.CreateRoom("Math"); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("CreateRoom duplicate error = %v, want ErrDuplicateName", err)
	}
}

func TestAssignIdempotent(t *testing.T) {
	db := newTestDB(t)
	subjectRepo := NewSubjectRepository(db)
	userRepo := NewUserRepository(db)

	alice := mustUser(t, userRepo, "alice", models.RoleStudent)
	math, err := subjectRepo.CreateSubject("Math")
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	if err := subjectRepo.Assign(alice.ID, math.ID); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := subjectRepo.Assign(alice.ID, math.ID); err != nil {
		t.Fatalf("Assign twice: %v", err)
	}

	var count int64
	db.Model(&models.AssignedSubject{}).
		Where("user_id = ? AND subject_id = ?", alice.ID, math.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("assigned subject rows = %d, want 1", count)
	}

	users, err := subjectRepo.UsersForSubject(math.ID)
	if err != nil {
		t.Fatalf("UsersForSubject: %v", err)
	}
	if len(users) != 1 || users[0].ID != alice.ID {
		t.Errorf("UsersForSubject = %v, want alice", users)
	}
}

func TestDeleteSubjectKeepsEntries(t *testing.T) {
	db := newTestDB(t)
	subjectRepo := NewSubjectRepository(db)
	userRepo := NewUserRepository(db)

	alice := mustUser(t, userRepo, "alice", models.RoleStudent)
	math, err := subjectRepo.CreateSubject("Math")
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if err := subjectRepo.Assign(alice.ID, math.ID); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	entryID := seedEntry(t, db, alice.ID)

	if err := subjectRepo.DeleteSubject(math.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}

	// Состав удален, запись расписания с именем предмета осталась
	var links, entries int64
	db.Model(&models.AssignedSubject{}).Where("subject_id = ?", math.ID).Count(&links)
	db.Model(&models.TimetableEntry{}).Where("id = ?", entryID).Count(&entries)
	if links != 0 {
		t.Errorf("assigned subject rows survived subject deletion")
	}
	if entries != 1 {
		t.Errorf("timetable entry should keep its subject name snapshot")
	}
}

func TestSettingsLazyInit(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	settings, err := repo.GetOrInit()
	if err != nil {
		t.Fatalf("GetOrInit: %v", err)
	}
	if settings.UseWeekAB {
		t.Errorf("default use_week_ab should be false")
	}

	again, err := repo.GetOrInit()
	if err != nil {
		t.Fatalf("GetOrInit second call: %v", err)
	}
	if again.ID != settings.ID {
		t.Errorf("GetOrInit created a second settings row")
	}

	updated, err := repo.SetUseWeekAB(true)
	if err != nil {
		t.Fatalf("SetUseWeekAB: %v", err)
	}
	if !updated.UseWeekAB || updated.ID != settings.ID {
		t.Errorf("SetUseWeekAB result: %+v", updated)
	}
}
