package models

import (
	"github.com/google/uuid"
)

// Subject - учебный предмет
type Subject struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name string    `json:"name" gorm:"uniqueIndex;not null"`
}

// Room - кабинет
type Room struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name string    `json:"name" gorm:"uniqueIndex;not null"`
}

// AssignedSubject связывает пользователя с предметом (состав предмета).
// Пара user_id+subject_id уникальна.
type AssignedSubject struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_user_subject"`
	SubjectID uuid.UUID `json:"subject_id" gorm:"type:text;not null;uniqueIndex:idx_user_subject"`
}

// SchoolSettings - единственная запись с настройками школы.
// Создается лениво при первом обращении.
type SchoolSettings struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	UseWeekAB bool      `json:"use_week_ab" gorm:"default:false"`
}
