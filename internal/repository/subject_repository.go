package repository

import (
	"errors"
	"fmt"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectRepository интерфейс для работы с предметами, кабинетами
// и составами предметов
type SubjectRepository interface {
	CreateSubject(name string) (*models.Subject, error)
	GetSubjectByID(id uuid.UUID) (*models.Subject, error)
	GetSubjectByName(name string) (*models.Subject, error)
	ListSubjects() ([]models.Subject, error)
	DeleteSubject(id uuid.UUID) error

	CreateRoom(name string) (*models.Room, error)
	ListRooms() ([]models.Room, error)
	DeleteRoom(id uuid.UUID) error

	// Состав предмета
	Assign(userID, subjectID uuid.UUID) error
	Unassign(userID, subjectID uuid.UUID) error
	SubjectsForUser(userID uuid.UUID) ([]models.Subject, error)
	UsersForSubject(subjectID uuid.UUID) ([]models.User, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository создает новый репозиторий предметов
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

// CreateSubject создает предмет с уникальным именем
func (r *subjectRepository) CreateSubject(name string) (*models.Subject, error) {
	var count int64
	if err := r.db.Model(&models.Subject{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("subject %q: %w", name, models.ErrDuplicateName)
	}
	subject := &models.Subject{ID: uuid.New(), Name: name}
	if err := r.db.Create(subject).Error; err != nil {
		return nil, err
	}
	return subject, nil
}

// GetSubjectByID получает предмет по ID
func (r *subjectRepository) GetSubjectByID(id uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.First(&subject, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subject %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// GetSubjectByName получает предмет по имени
func (r *subjectRepository) GetSubjectByName(name string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.Where("name = ?", name).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subject %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjects получает все предметы
func (r *subjectRepository) ListSubjects() ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

// DeleteSubject удаляет предмет и его состав. Записи расписания не
// трогаем: имя предмета в них - снимок, а не ссылка.
func (r *subjectRepository) DeleteSubject(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", id).Delete(&models.AssignedSubject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Subject{}, "id = ?", id).Error
	})
}

// CreateRoom создает кабинет с уникальным именем
func (r *subjectRepository) CreateRoom(name string) (*models.Room, error) {
	var count int64
	if err := r.db.Model(&models.Room{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("room %q: %w", name, models.ErrDuplicateName)
	}
	room := &models.Room{ID: uuid.New(), Name: name}
	if err := r.db.Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms получает все кабинеты
func (r *subjectRepository) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Order("name ASC").Find(&rooms).Error
	return rooms, err
}

// DeleteRoom удаляет кабинет
func (r *subjectRepository) DeleteRoom(id uuid.UUID) error {
	return r.db.Delete(&models.Room{}, "id = ?", id).Error
}

// Assign добавляет пользователя в состав предмета.
// Повторный вызов с той же парой - no-op, не ошибка.
func (r *subjectRepository) Assign(userID, subjectID uuid.UUID) error {
	var count int64
	if err := r.db.Model(&models.AssignedSubject{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	link := &models.AssignedSubject{ID: uuid.New(), UserID: userID, SubjectID: subjectID}
	return r.db.Create(link).Error
}

// Unassign убирает пользователя из состава предмета
func (r *subjectRepository) Unassign(userID, subjectID uuid.UUID) error {
	return r.db.Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Delete(&models.AssignedSubject{}).Error
}

// SubjectsForUser получает предметы, в состав которых входит пользователь
func (r *subjectRepository) SubjectsForUser(userID uuid.UUID) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.
		Joins("JOIN assigned_subjects ON assigned_subjects.subject_id = subjects.id").
		Where("assigned_subjects.user_id = ?", userID).
		Order("subjects.name ASC").
		Find(&subjects).Error
	return subjects, err
}

// UsersForSubject получает состав предмета
func (r *subjectRepository) UsersForSubject(subjectID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN assigned_subjects ON assigned_subjects.user_id = users.id").
		Where("assigned_subjects.subject_id = ?", subjectID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}
