package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
)

// Valid проверяет, что роль одна из известных
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleStaff || r == RoleAdmin
}

// User представляет пользователя системы (ученик, сотрудник или администратор)
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Username string    `json:"username" gorm:"uniqueIndex;not null"`
	Password string    `json:"-" gorm:"not null"` // bcrypt-хеш
	Role     UserRole  `json:"role" gorm:"not null"`
	// YearGroup заполняется только для учеников ("10", "11" и т.д.)
	YearGroup string    `json:"year_group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
