package services

import (
	"errors"
	"testing"
	"time"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTimetableService(t *testing.T) (*TimetableService, *gorm.DB, *testFixtures) {
	t.Helper()
	db := newTestDB(t)
	fx := &testFixtures{
		alice: mustCreateUser(t, db, "alice", models.RoleStudent, "10"),
		bob:   mustCreateUser(t, db, "bob", models.RoleStudent, "10"),
		carol: mustCreateUser(t, db, "carol", models.RoleStudent, "11"),
		staff: mustCreateUser(t, db, "mr_jones", models.RoleStaff, ""),
		admin: mustCreateUser(t, db, "admin", models.RoleAdmin, ""),
		math:  mustCreateSubject(t, db, "Math"),
	}
	mustAssign(t, db, fx.alice.ID, fx.math.ID)
	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	entryRepo := repository.NewTimetableRepository(db)
	resolver := NewResolverService(userRepo, subjectRepo)
	return NewTimetableService(entryRepo, userRepo, resolver), db, fx
}

func singleUser(id uuid.UUID) Selection {
	return Selection{Mode: SelectUser, UserID: id}
}

func validInput(date string) EntryInput {
	return EntryInput{
		Date:      date,
		Subject:   "Math",
		Teacher:   "mr_jones",
		StartTime: "09:00",
		EndTime:   "10:00",
		Room:      "A101",
	}
}

func assigneeIDs(t *testing.T, db *gorm.DB, entryID uuid.UUID) map[uuid.UUID]bool {
	t.Helper()
	var links []models.EntryAssignee
	if err := db.Where("entry_id = ?", entryID).Find(&links).Error; err != nil {
		t.Fatalf("load assignees: %v", err)
	}
	ids := make(map[uuid.UUID]bool, len(links))
	for _, link := range links {
		ids[link.UserID] = true
	}
	return ids
}

func TestAddEntryDerivesWeekAndDay(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	// 2024-06-10 - понедельник
	entry, err := svc.AddEntry(validInput("2024-06-10"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if entry.DayOfWeek != "Monday" {
		t.Errorf("DayOfWeek = %s, want Monday", entry.DayOfWeek)
	}
	sundayWeek, _ := WeekOf(date(2024, time.June, 9))
	if entry.Week != sundayWeek+1 {
		t.Errorf("Week = %d, want %d", entry.Week, sundayWeek+1)
	}
}

func TestAddEntryIncludesTeacher(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if !ids[fx.alice.ID] || !ids[fx.staff.ID] {
		t.Errorf("assignees = %v, want alice and mr_jones", ids)
	}
}

func TestAddEntryRejectsBadTimes(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	in := validInput("2024-06-11")
	in.StartTime = "10:00"
	in.EndTime = "09:00"
	if _, err := svc.AddEntry(in, singleUser(fx.alice.ID)); !errors.Is(err, models.ErrValidation) {
		t.Errorf("AddEntry bad times error = %v, want ErrValidation", err)
	}

	in = validInput("11/06/2024")
	if _, err := svc.AddEntry(in, singleUser(fx.alice.ID)); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("AddEntry bad date error = %v, want ErrInvalidDate", err)
	}
}

func TestEntriesForOrdering(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	later := validInput("2024-06-12")
	later.StartTime, later.EndTime = "11:00", "12:00"
	if _, err := svc.AddEntry(later, singleUser(fx.alice.ID)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	earlier := validInput("2024-06-12")
	earlier.StartTime, earlier.EndTime = "08:00", "09:00"
	if _, err := svc.AddEntry(earlier, singleUser(fx.alice.ID)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	prevDay := validInput("2024-06-11")
	if _, err := svc.AddEntry(prevDay, singleUser(fx.alice.ID)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	from, to := WeekWindow(date(2024, time.June, 12), 0)
	entries, err := svc.EntriesFor(fx.alice, nil, from, to)
	if err != nil {
		t.Fatalf("EntriesFor: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("EntriesFor returned %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Date.Before(prev.Date) ||
			(cur.Date.Equal(prev.Date) && cur.StartTime < prev.StartTime) {
			t.Errorf("entries out of order at %d: %s %s after %s %s",
				i, cur.Date.Format("2006-01-02"), cur.StartTime,
				prev.Date.Format("2006-01-02"), prev.StartTime)
		}
	}
}

func TestEntriesForStaffOverride(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	if _, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID)); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	from, to := WeekWindow(date(2024, time.June, 12), 0)

	entries, err := svc.EntriesFor(fx.staff, &fx.alice.ID, from, to)
	if err != nil {
		t.Fatalf("EntriesFor staff override: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("staff override returned %d entries, want 1", len(entries))
	}

	// Ученик не может смотреть чужую неделю
	if _, err := svc.EntriesFor(fx.bob, &fx.alice.ID, from, to); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("student override error = %v, want ErrForbidden", err)
	}

	// Подсмотреть можно только неделю ученика
	if _, err := svc.EntriesFor(fx.staff, &fx.admin.ID, from, to); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("override to admin error = %v, want ErrForbidden", err)
	}
}

func TestEditEntryRederivesAndSwapsTeacher(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	other := mustCreateUser(t, db, "ms_smith", models.RoleStaff, "")

	in := validInput("2024-06-10")
	in.Teacher = "ms_smith"
	updated, err := svc.EditEntry(entry.ID, in)
	if err != nil {
		t.Fatalf("EditEntry: %v", err)
	}
	if updated.DayOfWeek != "Monday" {
		t.Errorf("DayOfWeek after edit = %s, want Monday", updated.DayOfWeek)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if ids[fx.staff.ID] {
		t.Errorf("old teacher still assigned after swap")
	}
	if !ids[other.ID] {
		t.Errorf("new teacher not assigned after swap")
	}
}

func TestEditEntryTeacherSwapEmptiesAssignees(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	// Преподаватель - единственный участник записи
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.staff.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if len(ids) != 1 || !ids[fx.staff.ID] {
		t.Fatalf("assignees = %v, want only mr_jones", ids)
	}
	if _, err := svc.SetNote(entry.ID, "staff meeting"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	// Новое имя преподавателя не соответствует ни одному сотруднику:
	// прежний убирается, множество участников пустеет, запись удаляется
	in := validInput("2024-06-11")
	in.Teacher = "ghost_teacher"
	if _, err := svc.EditEntry(entry.ID, in); err != nil {
		t.Fatalf("EditEntry: %v", err)
	}
	if _, err := svc.GetEntry(entry.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("entry persisted with empty assignee set: %v", err)
	}
	var notes, links int64
	db.Model(&models.Note{}).Where("entry_id = ?", entry.ID).Count(&notes)
	db.Model(&models.EntryAssignee{}).Where("entry_id = ?", entry.ID).Count(&links)
	if notes != 0 || links != 0 {
		t.Errorf("note or assignee rows survived: notes=%d links=%d", notes, links)
	}
}

func TestEditEntryLeavesStateOnValidationError(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	in := validInput("2024-06-12")
	in.EndTime = "08:00"
	if _, err := svc.EditEntry(entry.ID, in); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("EditEntry error = %v, want ErrValidation", err)
	}
	reloaded, err := svc.GetEntry(entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if !reloaded.Date.Equal(entry.Date) || reloaded.EndTime != "10:00" {
		t.Errorf("entry changed after failed edit: %+v", reloaded)
	}
}

func TestDeleteEntryForUserKeepsSharedEntry(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	// Запись на всю параллель "10": alice и bob (плюс преподаватель)
	entry, err := svc.AddEntry(validInput("2024-06-11"), Selection{Mode: SelectYearGroup, YearGroup: "10"})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := svc.SetNote(entry.ID, "bring calculators"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	if err := svc.DeleteEntryForUser(entry.ID, fx.staff.ID); err != nil {
		t.Fatalf("DeleteEntryForUser(staff): %v", err)
	}
	if err := svc.DeleteEntryForUser(entry.ID, fx.alice.ID); err != nil {
		t.Fatalf("DeleteEntryForUser(alice): %v", err)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if len(ids) != 1 || !ids[fx.bob.ID] {
		t.Fatalf("assignees after partial delete = %v, want only bob", ids)
	}
	if _, err := svc.GetEntry(entry.ID); err != nil {
		t.Fatalf("entry should survive partial delete: %v", err)
	}

	// Снятие последнего участника удаляет запись и заметку
	if err := svc.DeleteEntryForUser(entry.ID, fx.bob.ID); err != nil {
		t.Fatalf("DeleteEntryForUser(bob): %v", err)
	}
	if _, err := svc.GetEntry(entry.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("entry still exists after last assignee removed: %v", err)
	}
	var noteCount int64
	db.Model(&models.Note{}).Where("entry_id = ?", entry.ID).Count(&noteCount)
	if noteCount != 0 {
		t.Errorf("orphaned note survived entry deletion")
	}
}

func TestDeleteEntryForAllRemovesNote(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := svc.SetNote(entry.ID, "moved to gym"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if err := svc.DeleteEntryForAll(entry.ID); err != nil {
		t.Fatalf("DeleteEntryForAll: %v", err)
	}
	var notes, links int64
	db.Model(&models.Note{}).Where("entry_id = ?", entry.ID).Count(&notes)
	db.Model(&models.EntryAssignee{}).Where("entry_id = ?", entry.ID).Count(&links)
	if notes != 0 || links != 0 {
		t.Errorf("note or assignee rows survived full delete: notes=%d links=%d", notes, links)
	}

	// Повторное удаление - no-op
	if err := svc.DeleteEntryForAll(entry.ID); err != nil {
		t.Errorf("repeated delete should be a no-op, got %v", err)
	}
}

func TestSetFreeDayForAll(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	entry, err := svc.SetFreeDay("2024-12-25", "Holiday", Selection{Mode: SelectAll})
	if err != nil {
		t.Fatalf("SetFreeDay: %v", err)
	}
	if !entry.IsFreeDay || entry.Subject != "Holiday" || entry.Teacher != "N/A" || entry.Room != "N/A" {
		t.Errorf("free day fields wrong: %+v", entry)
	}
	if entry.StartTime != "00:00" || entry.EndTime != "23:59" {
		t.Errorf("free day should span the whole day: %s-%s", entry.StartTime, entry.EndTime)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if len(ids) != 4 || ids[fx.admin.ID] {
		t.Errorf("free day assignees = %v, want all non-admin users", ids)
	}
}

func TestEditFreeDay(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	entry, err := svc.SetFreeDay("2024-12-25", "Holiday", Selection{Mode: SelectYearGroup, YearGroup: "10"})
	if err != nil {
		t.Fatalf("SetFreeDay: %v", err)
	}
	updated, err := svc.EditFreeDay(entry.ID, "2024-12-26", "Extended holiday")
	if err != nil {
		t.Fatalf("EditFreeDay: %v", err)
	}
	if updated.Subject != "Extended holiday" || updated.DayOfWeek != "Thursday" {
		t.Errorf("EditFreeDay result: %+v", updated)
	}

	// Обычная запись выходным днем не является
	regular, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := svc.EditFreeDay(regular.ID, "2024-06-12", "nope"); !errors.Is(err, models.ErrNotAFreeDay) {
		t.Errorf("EditFreeDay on regular entry error = %v, want ErrNotAFreeDay", err)
	}
}

func TestSetNoteUpserts(t *testing.T) {
	svc, _, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	first, err := svc.SetNote(entry.ID, "first")
	if err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	second, err := svc.SetNote(entry.ID, "second")
	if err != nil {
		t.Fatalf("SetNote update: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("SetNote created a second note instead of updating")
	}
	if second.Content != "second" {
		t.Errorf("note content = %q, want %q", second.Content, "second")
	}
}

func TestUpdateAssigneesGuardsEmptySet(t *testing.T) {
	svc, db, fx := newTimetableService(t)
	entry, err := svc.AddEntry(validInput("2024-06-11"), singleUser(fx.alice.ID))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	if err := svc.UpdateAssignees(entry.ID, []uuid.UUID{fx.bob.ID, fx.carol.ID, fx.bob.ID}); err != nil {
		t.Fatalf("UpdateAssignees: %v", err)
	}
	ids := assigneeIDs(t, db, entry.ID)
	if len(ids) != 2 || !ids[fx.bob.ID] || !ids[fx.carol.ID] {
		t.Errorf("assignees after replace = %v, want bob and carol", ids)
	}

	// Пустая замена удаляет запись вместо пустого множества
	if err := svc.UpdateAssignees(entry.ID, nil); err != nil {
		t.Fatalf("UpdateAssignees empty: %v", err)
	}
	if _, err := svc.GetEntry(entry.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("entry should be deleted on empty assignee set: %v", err)
	}
}
