package models

import "errors"

// Ошибки доменного уровня. Репозитории и сервисы оборачивают их через
// fmt.Errorf("...: %w", err), обработчики сопоставляют с HTTP-статусами
// через errors.Is.
var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTime        = errors.New("invalid time")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateName      = errors.New("name already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrNotAFreeDay        = errors.New("entry is not a free day")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
