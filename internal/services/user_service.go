package services

import (
	"fmt"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
)

// UserService - административное управление пользователями
type UserService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, subjectRepo repository.SubjectRepository) *UserService {
	return &UserService{userRepo: userRepo, subjectRepo: subjectRepo}
}

// CreateUser создает ученика или сотрудника. YearGroup имеет смысл
// только для учеников и для остальных ролей отбрасывается.
func (s *UserService) CreateUser(username, password string, role models.UserRole, yearGroup string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrValidation)
	}
	if role != models.RoleStudent && role != models.RoleStaff {
		return nil, fmt.Errorf("role must be student or staff: %w", models.ErrValidation)
	}
	if role != models.RoleStudent {
		yearGroup = ""
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  hash,
		Role:      role,
		YearGroup: yearGroup,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser удаляет пользователя со всеми связями
func (s *UserService) DeleteUser(id uuid.UUID) error {
	return s.userRepo.Delete(id)
}

// ChangePassword меняет пароль пользователя
func (s *UserService) ChangePassword(id uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", models.ErrValidation)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(id, hash)
}

// ListUsers возвращает всех пользователей кроме администраторов
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.ListNonAdmin()
}

// GetUser возвращает пользователя по ID
func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ListStudentsByYearGroup возвращает учеников параллели
func (s *UserService) ListStudentsByYearGroup(yearGroup string) ([]models.User, error) {
	return s.userRepo.ListStudentsByYearGroup(yearGroup)
}

// AssignSubject добавляет пользователя в состав предмета (идемпотентно)
func (s *UserService) AssignSubject(userID, subjectID uuid.UUID) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return err
	}
	if _, err := s.subjectRepo.GetSubjectByID(subjectID); err != nil {
		return err
	}
	return s.subjectRepo.Assign(userID, subjectID)
}

// UnassignSubject убирает пользователя из состава предмета
func (s *UserService) UnassignSubject(userID, subjectID uuid.UUID) error {
	return s.subjectRepo.Unassign(userID, subjectID)
}

// SubjectsForUser возвращает предметы пользователя
func (s *UserService) SubjectsForUser(userID uuid.UUID) ([]models.Subject, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.subjectRepo.SubjectsForUser(userID)
}

// UsersForSubject возвращает состав предмета, опционально
// отфильтрованный по роли (ученики или преподающие сотрудники)
func (s *UserService) UsersForSubject(subjectID uuid.UUID, role models.UserRole) ([]models.User, error) {
	users, err := s.subjectRepo.UsersForSubject(subjectID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return users, nil
	}
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}
