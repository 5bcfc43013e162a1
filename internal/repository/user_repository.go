package repository

import (
	"errors"
	"fmt"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	UpdatePassword(id uuid.UUID, passwordHash string) error
	Delete(id uuid.UUID) error
	ListNonAdmin() ([]models.User, error)
	ListByRole(role models.UserRole) ([]models.User, error)
	ListStudentsByYearGroup(yearGroup string) ([]models.User, error)
}

// userRepository реализация репозитория пользователей
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create создает нового пользователя. Имя должно быть уникальным
// (точное совпадение с учетом регистра).
func (r *userRepository) Create(user *models.User) error {
	var count int64
	if err := r.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("create user %q: %w", user.Username, models.ErrDuplicateUsername)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.Create(user).Error
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername получает пользователя по имени
func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update обновляет пользователя
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdatePassword заменяет хеш пароля пользователя
func (r *userRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete удаляет пользователя вместе со всеми его связями.
// Запись расписания, оставшаяся без участников, удаляется целиком
// вместе со своей заметкой. Все шаги выполняются в одной транзакции.
func (r *userRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var links []models.EntryAssignee
		if err := tx.Where("user_id = ?", id).Find(&links).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.EntryAssignee{}).Error; err != nil {
			return err
		}
		for _, link := range links {
			var count int64
			if err := tx.Model(&models.EntryAssignee{}).Where("entry_id = ?", link.EntryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Where("entry_id = ?", link.EntryID).Delete(&models.Note{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.TimetableEntry{}, "id = ?", link.EntryID).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AssignedSubject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

// ListNonAdmin получает всех пользователей кроме администраторов
func (r *userRepository) ListNonAdmin() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role != ?", models.RoleAdmin).Order("username ASC").Find(&users).Error
	return users, err
}

// ListByRole получает пользователей по роли
func (r *userRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).Order("username ASC").Find(&users).Error
	return users, err
}

// ListStudentsByYearGroup получает учеников указанной параллели
func (r *userRepository) ListStudentsByYearGroup(yearGroup string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ? AND year_group = ?", models.RoleStudent, yearGroup).
		Order("username ASC").Find(&users).Error
	return users, err
}
