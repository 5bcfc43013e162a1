package repository

import (
	"errors"
	"fmt"
	"time"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimetableRepository интерфейс для работы с записями расписания,
// их участниками и заметками
type TimetableRepository interface {
	CreateWithAssignees(entry *models.TimetableEntry, userIDs []uuid.UUID) error
	GetByID(id uuid.UUID) (*models.TimetableEntry, error)
	Update(entry *models.TimetableEntry) error
	UpdateWithAssigneeSwap(entry *models.TimetableEntry, removeUserID, addUserID *uuid.UUID) error
	ForUser(userID uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error)
	ForUsers(userIDs []uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error)

	Assignees(entryID uuid.UUID) ([]models.User, error)
	AssigneeIDs(entryID uuid.UUID) ([]uuid.UUID, error)
	ReplaceAssignees(entryID uuid.UUID, userIDs []uuid.UUID) error

	Delete(entryID uuid.UUID) error
	DeleteForUser(entryID, userID uuid.UUID) error

	GetNote(entryID uuid.UUID) (*models.Note, error)
	UpsertNote(entryID uuid.UUID, content string) (*models.Note, error)
	DeleteNote(entryID uuid.UUID) error
}

type timetableRepository struct {
	db *gorm.DB
}

// NewTimetableRepository создает новый репозиторий расписания
func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

// CreateWithAssignees сохраняет запись вместе с участниками в одной
// транзакции. Запись без участников не сохраняется.
func (r *timetableRepository) CreateWithAssignees(entry *models.TimetableEntry, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("entry needs at least one assignee: %w", models.ErrValidation)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			link := &models.EntryAssignee{ID: uuid.New(), EntryID: entry.ID, UserID: userID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID получает запись по ID
func (r *timetableRepository) GetByID(id uuid.UUID) (*models.TimetableEntry, error) {
	var entry models.TimetableEntry
	err := r.db.First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update обновляет запись
func (r *timetableRepository) Update(entry *models.TimetableEntry) error {
	return r.db.Save(entry).Error
}

// UpdateWithAssigneeSwap обновляет запись и меняет участника в одной
// транзакции: removeUserID убирается, addUserID добавляется (повторное
// добавление - no-op). Если множество участников опустело, запись
// удаляется вместе с заметкой: пустое множество не сохраняется.
func (r *timetableRepository) UpdateWithAssigneeSwap(entry *models.TimetableEntry, removeUserID, addUserID *uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		if removeUserID != nil {
			if err := tx.Where("entry_id = ? AND user_id = ?", entry.ID, *removeUserID).
				Delete(&models.EntryAssignee{}).Error; err != nil {
				return err
			}
		}
		if addUserID != nil {
			var count int64
			if err := tx.Model(&models.EntryAssignee{}).
				Where("entry_id = ? AND user_id = ?", entry.ID, *addUserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				link := &models.EntryAssignee{ID: uuid.New(), EntryID: entry.ID, UserID: *addUserID}
				if err := tx.Create(link).Error; err != nil {
					return err
				}
			}
		}
		var remaining int64
		if err := tx.Model(&models.EntryAssignee{}).Where("entry_id = ?", entry.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.Note{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.TimetableEntry{}, "id = ?", entry.ID).Error
		}
		return nil
	})
}

// ForUser получает записи пользователя в интервале дат включительно,
// по возрастанию даты и времени начала
func (r *timetableRepository) ForUser(userID uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error) {
	var entries []models.TimetableEntry
	err := r.db.
		Joins("JOIN entry_assignees ON entry_assignees.entry_id = timetable_entries.id").
		Where("entry_assignees.user_id = ? AND timetable_entries.date >= ? AND timetable_entries.date <= ?", userID, from, to).
		Order("timetable_entries.date ASC, timetable_entries.start_time ASC").
		Find(&entries).Error
	return entries, err
}

// ForUsers получает записи любого из пользователей в интервале дат,
// без дублей, с тем же порядком
func (r *timetableRepository) ForUsers(userIDs []uuid.UUID, from, to time.Time) ([]models.TimetableEntry, error) {
	if len(userIDs) == 0 {
		return []models.TimetableEntry{}, nil
	}
	var entries []models.TimetableEntry
	err := r.db.
		Distinct("timetable_entries.*").
		Joins("JOIN entry_assignees ON entry_assignees.entry_id = timetable_entries.id").
		Where("entry_assignees.user_id IN ? AND timetable_entries.date >= ? AND timetable_entries.date <= ?", userIDs, from, to).
		Order("timetable_entries.date ASC, timetable_entries.start_time ASC").
		Find(&entries).Error
	return entries, err
}

// Assignees получает участников записи
func (r *timetableRepository) Assignees(entryID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN entry_assignees ON entry_assignees.user_id = users.id").
		Where("entry_assignees.entry_id = ?", entryID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

// AssigneeIDs получает ID участников записи в порядке добавления
func (r *timetableRepository) AssigneeIDs(entryID uuid.UUID) ([]uuid.UUID, error) {
	var links []models.EntryAssignee
	err := r.db.Where("entry_id = ?", entryID).Order("created_at ASC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.UserID)
	}
	return ids, nil
}

// ReplaceAssignees целиком заменяет множество участников записи
func (r *timetableRepository) ReplaceAssignees(entryID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("entry needs at least one assignee: %w", models.ErrValidation)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.EntryAssignee{}).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			link := &models.EntryAssignee{ID: uuid.New(), EntryID: entryID, UserID: userID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete удаляет запись целиком: сначала заметку, затем участников и
// саму запись, в одной транзакции
func (r *timetableRepository) Delete(entryID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.EntryAssignee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TimetableEntry{}, "id = ?", entryID).Error
	})
}

// DeleteForUser убирает одного участника из записи. Если запись
// остается без участников, она удаляется вместе с заметкой.
// Заметка удаляется до снятия последнего участника.
func (r *timetableRepository) DeleteForUser(entryID, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EntryAssignee{}).Where("entry_id = ?", entryID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			if err := tx.Where("entry_id = ?", entryID).Delete(&models.Note{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("entry_id = ? AND user_id = ?", entryID, userID).
			Delete(&models.EntryAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.EntryAssignee{}).Where("entry_id = ?", entryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return tx.Delete(&models.TimetableEntry{}, "id = ?", entryID).Error
		}
		return nil
	})
}

// GetNote получает заметку записи
func (r *timetableRepository) GetNote(entryID uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := r.db.Where("entry_id = ?", entryID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("note for entry %s: %w", entryID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// UpsertNote создает заметку или обновляет содержимое существующей
func (r *timetableRepository) UpsertNote(entryID uuid.UUID, content string) (*models.Note, error) {
	var note models.Note
	err := r.db.Where("entry_id = ?", entryID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		note = models.Note{ID: uuid.New(), EntryID: entryID, Content: content}
		if err := r.db.Create(&note).Error; err != nil {
			return nil, err
		}
		return &note, nil
	}
	if err != nil {
		return nil, err
	}
	note.Content = content
	if err := r.db.Save(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote удаляет заметку записи
func (r *timetableRepository) DeleteNote(entryID uuid.UUID) error {
	return r.db.Where("entry_id = ?", entryID).Delete(&models.Note{}).Error
}
