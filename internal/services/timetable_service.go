package services

import (
	"errors"
	"fmt"
	"time"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
)

// TimetableService - чтение и изменение расписания
type TimetableService struct {
	entryRepo repository.TimetableRepository
	userRepo  repository.UserRepository
	resolver  *ResolverService
}

// NewTimetableService создает новый сервис расписания
func NewTimetableService(
	entryRepo repository.TimetableRepository,
	userRepo repository.UserRepository,
	resolver *ResolverService,
) *TimetableService {
	return &TimetableService{
		entryRepo: entryRepo,
		userRepo:  userRepo,
		resolver:  resolver,
	}
}

// EntryInput - данные для создания или редактирования записи
type EntryInput struct {
	Date         string `json:"date" binding:"required"`
	Subject      string `json:"subject" binding:"required"`
	Teacher      string `json:"teacher" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Room         string `json:"room"`
	IsSubstitute bool   `json:"is_substitute"`
}

// EntriesFor возвращает записи недели, видимые пользователю, по
// возрастанию даты и времени начала. Сотрудник может передать
// studentID и посмотреть неделю ученика (только чтение).
func (s *TimetableService) EntriesFor(viewer *models.User, studentID *uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error) {
	target := viewer.ID
	if studentID != nil && *studentID != viewer.ID {
		if viewer.Role != models.RoleStaff && viewer.Role != models.RoleAdmin {
			return nil, fmt.Errorf("only staff may view another user's week: %w", models.ErrForbidden)
		}
		student, err := s.userRepo.GetByID(*studentID)
		if err != nil {
			return nil, err
		}
		if student.Role != models.RoleStudent {
			return nil, fmt.Errorf("can only view a student's week: %w", models.ErrForbidden)
		}
		target = student.ID
	}
	return s.entryRepo.ForUser(target, from, to)
}

// EntriesForSelection возвращает записи всех выбранных пользователей
// за неделю (административный просмотр по предмету или параллели)
func (s *TimetableService) EntriesForSelection(userIDs []uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error) {
	return s.entryRepo.ForUsers(userIDs, from, to)
}

// AddEntry создает запись расписания для выбранных участников.
// Week и DayOfWeek выводятся из даты. Сотрудник, указанный как
// преподаватель, добавляется в участники: занятие должно быть видно
// и в его собственном расписании.
func (s *TimetableService) AddEntry(in EntryInput, sel Selection) (*models.TimetableEntry, error) {
	entry, err := s.buildEntry(in)
	if err != nil {
		return nil, err
	}
	assignees, err := s.resolver.Resolve(sel)
	if err != nil {
		return nil, err
	}
	assignees = s.withTeacher(assignees, in.Teacher)
	if len(assignees) == 0 {
		return nil, fmt.Errorf("entry needs at least one assignee: %w", models.ErrValidation)
	}
	if err := s.entryRepo.CreateWithAssignees(entry, assignees); err != nil {
		return nil, err
	}
	return entry, nil
}

// EditEntry обновляет запись, заново выводя Week и DayOfWeek.
// При смене преподавателя прежний убирается из участников (по имени,
// поскольку преподаватель хранится как снимок), новый добавляется;
// обновление и замена выполняются в одной транзакции. Запись,
// оставшаяся без участников, удаляется вместе с заметкой.
// При любой ошибке валидации запись не меняется.
func (s *TimetableService) EditEntry(entryID uuid.UUID, in EntryInput) (*models.TimetableEntry, error) {
	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	updated, err := s.buildEntry(in)
	if err != nil {
		return nil, err
	}
	oldTeacher := entry.Teacher

	entry.Date = updated.Date
	entry.Week = updated.Week
	entry.DayOfWeek = updated.DayOfWeek
	entry.Subject = updated.Subject
	entry.Teacher = updated.Teacher
	entry.StartTime = updated.StartTime
	entry.EndTime = updated.EndTime
	entry.Room = updated.Room
	entry.IsSubstitute = updated.IsSubstitute

	if oldTeacher == entry.Teacher {
		if err := s.entryRepo.Update(entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	var removeID, addID *uuid.UUID
	if old, err := s.userRepo.GetByUsername(oldTeacher); err == nil {
		removeID = &old.ID
	}
	if staff, err := s.userRepo.GetByUsername(entry.Teacher); err == nil && staff.Role == models.RoleStaff {
		addID = &staff.ID
	}
	if err := s.entryRepo.UpdateWithAssigneeSwap(entry, removeID, addID); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntryForUser убирает одного участника из записи; запись без
// участников удаляется целиком. Отсутствующая запись - no-op.
func (s *TimetableService) DeleteEntryForUser(entryID, userID uuid.UUID) error {
	if _, err := s.entryRepo.GetByID(entryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.entryRepo.DeleteForUser(entryID, userID)
}

// DeleteEntryForAll удаляет запись для всех участников.
// Отсутствующая запись - no-op.
func (s *TimetableService) DeleteEntryForAll(entryID uuid.UUID) error {
	if _, err := s.entryRepo.GetByID(entryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.entryRepo.Delete(entryID)
}

// SetFreeDay создает запись выходного дня на всю дату для выбранной
// области: пользователь, предмет, параллель или все кроме
// администраторов
func (s *TimetableService) SetFreeDay(dateValue, message string, sel Selection) (*models.TimetableEntry, error) {
	date, err := ParseDate(dateValue)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, fmt.Errorf("free day message is required: %w", models.ErrValidation)
	}
	week, dayName := WeekOf(date)
	entry := &models.TimetableEntry{
		Date:      date,
		Week:      week,
		DayOfWeek: dayName,
		Subject:   message,
		Teacher:   "N/A",
		Room:      "N/A",
		StartTime: "00:00",
		EndTime:   "23:59",
		IsFreeDay: true,
	}
	assignees, err := s.resolver.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if len(assignees) == 0 {
		return nil, fmt.Errorf("free day needs at least one assignee: %w", models.ErrValidation)
	}
	if err := s.entryRepo.CreateWithAssignees(entry, assignees); err != nil {
		return nil, err
	}
	return entry, nil
}

// EditFreeDay обновляет дату и сообщение выходного дня
func (s *TimetableService) EditFreeDay(entryID uuid.UUID, dateValue, message string) (*models.TimetableEntry, error) {
	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsFreeDay {
		return nil, fmt.Errorf("entry %s: %w", entryID, models.ErrNotAFreeDay)
	}
	date, err := ParseDate(dateValue)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, fmt.Errorf("free day message is required: %w", models.ErrValidation)
	}
	entry.Date = date
	entry.Week, entry.DayOfWeek = WeekOf(date)
	entry.Subject = message
	if err := s.entryRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SetNote создает или обновляет заметку записи
func (s *TimetableService) SetNote(entryID uuid.UUID, content string) (*models.Note, error) {
	if _, err := s.entryRepo.GetByID(entryID); err != nil {
		return nil, err
	}
	return s.entryRepo.UpsertNote(entryID, content)
}

// GetNote возвращает заметку записи
func (s *TimetableService) GetNote(entryID uuid.UUID) (*models.Note, error) {
	return s.entryRepo.GetNote(entryID)
}

// GetEntry возвращает запись по ID
func (s *TimetableService) GetEntry(entryID uuid.UUID) (*models.TimetableEntry, error) {
	return s.entryRepo.GetByID(entryID)
}

// Assignees возвращает участников записи
func (s *TimetableService) Assignees(entryID uuid.UUID) ([]models.User, error) {
	if _, err := s.entryRepo.GetByID(entryID); err != nil {
		return nil, err
	}
	return s.entryRepo.Assignees(entryID)
}

// UpdateAssignees целиком заменяет участников записи. Пустой список
// удаляет запись: множество участников никогда не сохраняется пустым.
func (s *TimetableService) UpdateAssignees(entryID uuid.UUID, userIDs []uuid.UUID) error {
	if _, err := s.entryRepo.GetByID(entryID); err != nil {
		return err
	}
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return s.entryRepo.Delete(entryID)
	}
	return s.entryRepo.ReplaceAssignees(entryID, ids)
}

// buildEntry валидирует вход и собирает запись с выведенными
// Week и DayOfWeek
func (s *TimetableService) buildEntry(in EntryInput) (*models.TimetableEntry, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := ParseClock(in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(in.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("start time must be before end time: %w", models.ErrValidation)
	}
	if in.Subject == "" || in.Teacher == "" {
		return nil, fmt.Errorf("subject and teacher are required: %w", models.ErrValidation)
	}
	week, dayName := WeekOf(date)
	return &models.TimetableEntry{
		Date:         date,
		Week:         week,
		DayOfWeek:    dayName,
		Subject:      in.Subject,
		Teacher:      in.Teacher,
		StartTime:    start,
		EndTime:      end,
		Room:         in.Room,
		IsSubstitute: in.IsSubstitute,
	}, nil
}

// withTeacher добавляет преподавателя (сотрудника с таким именем)
// в список участников, если его там еще нет
func (s *TimetableService) withTeacher(ids []uuid.UUID, teacher string) []uuid.UUID {
	staff, err := s.userRepo.GetByUsername(teacher)
	if err != nil || staff.Role != models.RoleStaff {
		return ids
	}
	for _, id := range ids {
		if id == staff.ID {
			return ids
		}
	}
	return append(ids, staff.ID)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
