package handlers

import (
	"net/http"

	"timetable/internal/models"
	"timetable/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler - административные операции: пользователи, предметы,
// кабинеты, настройки
type AdminHandler struct {
	userService   *services.UserService
	schoolService *services.SchoolService
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(userService *services.UserService, schoolService *services.SchoolService) *AdminHandler {
	return &AdminHandler{userService: userService, schoolService: schoolService}
}

type createUserReq struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	YearGroup string `json:"year_group"`
}

// CreateUser создает ученика или сотрудника
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.CreateUser(req.Username, req.Password, models.UserRole(req.Role), req.YearGroup)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// ListUsers возвращает всех пользователей кроме администраторов
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeleteUser удаляет пользователя со всеми связями
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.userService.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type changePasswordReq struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword меняет пароль пользователя
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userService.ChangePassword(id, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}

type nameReq struct {
	Name string `json:"name" binding:"required"`
}

// CreateSubject создает предмет
func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req nameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subject, err := h.schoolService.CreateSubject(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subject": subject})
}

// ListSubjects возвращает все предметы
func (h *AdminHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.schoolService.ListSubjects()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// DeleteSubject удаляет предмет
func (h *AdminHandler) DeleteSubject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}
	if err := h.schoolService.DeleteSubject(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateRoom создает кабинет
func (h *AdminHandler) CreateRoom(c *gin.Context) {
	var req nameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.schoolService.CreateRoom(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// ListRooms возвращает все кабинеты
func (h *AdminHandler) ListRooms(c *gin.Context) {
	rooms, err := h.schoolService.ListRooms()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// DeleteRoom удаляет кабинет
func (h *AdminHandler) DeleteRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := h.schoolService.DeleteRoom(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type assignSubjectReq struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
}

// AssignSubject добавляет пользователя в состав предмета
func (h *AdminHandler) AssignSubject(c *gin.Context) {
	var req assignSubjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userService.AssignSubject(req.UserID, req.SubjectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

// UnassignSubject убирает пользователя из состава предмета
func (h *AdminHandler) UnassignSubject(c *gin.Context) {
	var req assignSubjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userService.UnassignSubject(req.UserID, req.SubjectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unassigned"})
}

// GetSettings возвращает настройки школы
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.schoolService.Settings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type settingsReq struct {
	UseWeekAB bool `json:"use_week_ab"`
}

// UpdateSettings переключает схему недель A/B
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := h.schoolService.SetUseWeekAB(req.UseWeekAB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
