package services

import (
	"fmt"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
)

// SelectionMode определяет способ выбора участников новой записи
type SelectionMode string

const (
	// SelectUser - один пользователь (с опциональным расширением
	// на весь состав предмета)
	SelectUser SelectionMode = "user"
	// SelectSubject - весь состав предмета
	SelectSubject SelectionMode = "subject"
	// SelectYearGroup - все ученики параллели
	SelectYearGroup SelectionMode = "year_group"
	// SelectAll - все пользователи кроме администраторов
	SelectAll SelectionMode = "all"
)

// Selection описывает выбор участников
type Selection struct {
	Mode      SelectionMode
	UserID    uuid.UUID
	SubjectID uuid.UUID
	YearGroup string
	// ApplyToAll расширяет режим SelectUser на весь состав предмета
	ApplyToAll bool
	Exclude    []uuid.UUID
}

// ResolverService превращает выбор участников в конкретный список
// пользователей
type ResolverService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
}

// NewResolverService создает новый сервис выбора участников
func NewResolverService(userRepo repository.UserRepository, subjectRepo repository.SubjectRepository) *ResolverService {
	return &ResolverService{userRepo: userRepo, subjectRepo: subjectRepo}
}

// Resolve вычисляет упорядоченный список участников без дублей.
// Пустой результат - не ошибка: решение остается за вызывающим.
func (s *ResolverService) Resolve(sel Selection) ([]uuid.UUID, error) {
	switch sel.Mode {
	case SelectUser:
		if !sel.ApplyToAll {
			if _, err := s.userRepo.GetByID(sel.UserID); err != nil {
				return nil, err
			}
			return []uuid.UUID{sel.UserID}, nil
		}
		return s.roster(sel.SubjectID, sel.Exclude)

	case SelectSubject:
		return s.roster(sel.SubjectID, sel.Exclude)

	case SelectYearGroup:
		students, err := s.userRepo.ListStudentsByYearGroup(sel.YearGroup)
		if err != nil {
			return nil, err
		}
		return collectIDs(students, sel.Exclude), nil

	case SelectAll:
		users, err := s.userRepo.ListNonAdmin()
		if err != nil {
			return nil, err
		}
		return collectIDs(users, sel.Exclude), nil
	}
	return nil, fmt.Errorf("unknown selection mode %q: %w", sel.Mode, models.ErrValidation)
}

// roster возвращает состав предмета за вычетом исключений
func (s *ResolverService) roster(subjectID uuid.UUID, exclude []uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.subjectRepo.GetSubjectByID(subjectID); err != nil {
		return nil, err
	}
	users, err := s.subjectRepo.UsersForSubject(subjectID)
	if err != nil {
		return nil, err
	}
	return collectIDs(users, exclude), nil
}

// collectIDs собирает ID пользователей, сохраняя порядок и отбрасывая
// дубли и исключенных
func collectIDs(users []models.User, exclude []uuid.UUID) []uuid.UUID {
	excluded := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(users))
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		if _, ok := excluded[u.ID]; ok {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		ids = append(ids, u.ID)
	}
	return ids
}
