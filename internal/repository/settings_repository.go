package repository

import (
	"errors"

	"timetable/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsRepository интерфейс для работы с настройками школы
type SettingsRepository interface {
	GetOrInit() (*models.SchoolSettings, error)
	SetUseWeekAB(useWeekAB bool) (*models.SchoolSettings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository создает новый репозиторий настроек
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetOrInit возвращает единственную запись настроек, создавая ее
// с выключенной схемой недель A/B при первом обращении
func (r *settingsRepository) GetOrInit() (*models.SchoolSettings, error) {
	var settings models.SchoolSettings
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.SchoolSettings{ID: uuid.New(), UseWeekAB: false}
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetUseWeekAB включает или выключает схему недель A/B
func (r *settingsRepository) SetUseWeekAB(useWeekAB bool) (*models.SchoolSettings, error) {
	settings, err := r.GetOrInit()
	if err != nil {
		return nil, err
	}
	settings.UseWeekAB = useWeekAB
	if err := r.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
