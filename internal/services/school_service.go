package services

import (
	"fmt"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
)

// SchoolService - справочники школы: предметы, кабинеты, настройки
type SchoolService struct {
	subjectRepo  repository.SubjectRepository
	settingsRepo repository.SettingsRepository
}

// NewSchoolService создает новый сервис справочников
func NewSchoolService(subjectRepo repository.SubjectRepository, settingsRepo repository.SettingsRepository) *SchoolService {
	return &SchoolService{subjectRepo: subjectRepo, settingsRepo: settingsRepo}
}

// CreateSubject создает предмет
func (s *SchoolService) CreateSubject(name string) (*models.Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required: %w", models.ErrValidation)
	}
	return s.subjectRepo.CreateSubject(name)
}

// ListSubjects возвращает все предметы
func (s *SchoolService) ListSubjects() ([]models.Subject, error) {
	return s.subjectRepo.ListSubjects()
}

// DeleteSubject удаляет предмет и его состав
func (s *SchoolService) DeleteSubject(id uuid.UUID) error {
	return s.subjectRepo.DeleteSubject(id)
}

// CreateRoom создает кабинет
func (s *SchoolService) CreateRoom(name string) (*models.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("room name is required: %w", models.ErrValidation)
	}
	return s.subjectRepo.CreateRoom(name)
}

// ListRooms возвращает все кабинеты
func (s *SchoolService) ListRooms() ([]models.Room, error) {
	return s.subjectRepo.ListRooms()
}

// DeleteRoom удаляет кабинет
func (s *SchoolService) DeleteRoom(id uuid.UUID) error {
	return s.subjectRepo.DeleteRoom(id)
}

// Settings возвращает настройки школы
func (s *SchoolService) Settings() (*models.SchoolSettings, error) {
	return s.settingsRepo.GetOrInit()
}

// SetUseWeekAB переключает схему недель A/B
func (s *SchoolService) SetUseWeekAB(useWeekAB bool) (*models.SchoolSettings, error) {
	return s.settingsRepo.SetUseWeekAB(useWeekAB)
}
