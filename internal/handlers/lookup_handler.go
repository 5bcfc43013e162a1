package handlers

import (
	"net/http"

	"timetable/internal/models"
	"timetable/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LookupHandler - JSON-проекции для форм: предметы пользователя,
// состав предмета, ученики параллели, детали записи и ее участники
type LookupHandler struct {
	userService      *services.UserService
	timetableService *services.TimetableService
}

// NewLookupHandler создает новый обработчик проекций
func NewLookupHandler(userService *services.UserService, timetableService *services.TimetableService) *LookupHandler {
	return &LookupHandler{userService: userService, timetableService: timetableService}
}

// SubjectsForUser возвращает предметы, в состав которых входит
// пользователь
func (h *LookupHandler) SubjectsForUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	subjects, err := h.userService.SubjectsForUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// UsersForSubject возвращает состав предмета; параметр role сужает
// список до учеников или преподающих сотрудников
func (h *LookupHandler) UsersForSubject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}
	role := models.UserRole(c.Query("role"))
	if role != "" && role != models.RoleStudent && role != models.RoleStaff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be student or staff"})
		return
	}
	users, err := h.userService.UsersForSubject(id, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// StudentsInYearGroup возвращает учеников параллели
func (h *LookupHandler) StudentsInYearGroup(c *gin.Context) {
	yearGroup := c.Param("year_group")
	students, err := h.userService.ListStudentsByYearGroup(yearGroup)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// EntryDetail возвращает запись по ID
func (h *LookupHandler) EntryDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	entry, err := h.timetableService.GetEntry(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// EntryAssignees возвращает участников записи
func (h *LookupHandler) EntryAssignees(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	users, err := h.timetableService.Assignees(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
