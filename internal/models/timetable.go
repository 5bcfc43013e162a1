package models

import (
	"time"

	"github.com/google/uuid"
)

// TimetableEntry представляет занятие в расписании.
// Subject, Teacher и Room хранятся как текстовые снимки на момент создания,
// а не как внешние ключи: старые записи переживают переименование или
// удаление предмета/кабинета.
type TimetableEntry struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Date time.Time `json:"date" gorm:"not null;index"`
	// Week и DayOfWeek всегда выводятся из Date при создании и редактировании
	Week         int    `json:"week" gorm:"not null"`
	DayOfWeek    string `json:"day_of_week" gorm:"not null"`
	Subject      string `json:"subject" gorm:"not null"`
	Teacher      string `json:"teacher" gorm:"not null"`
	StartTime    string `json:"start_time" gorm:"not null"` // HH:MM
	EndTime      string `json:"end_time" gorm:"not null"`   // HH:MM
	Room         string `json:"room"`
	IsSubstitute bool   `json:"is_substitute" gorm:"default:false"`
	IsFreeDay    bool   `json:"is_free_day" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryAssignee связывает запись расписания с участником.
// Явная join-таблица вместо many2many-связи: участники выбираются
// отдельными запросами, без живых двунаправленных ссылок.
type EntryAssignee struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	EntryID   uuid.UUID `json:"entry_id" gorm:"type:text;not null;uniqueIndex:idx_entry_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_entry_user"`
	CreatedAt time.Time `json:"created_at"`
}

// Note - заметка к записи расписания (не больше одной на запись)
type Note struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	EntryID   uuid.UUID `json:"entry_id" gorm:"type:text;not null;uniqueIndex"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
