package handlers

import (
	"net/http"
	"strconv"
	"time"

	"timetable/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TimetableHandler обрабатывает просмотр и изменение расписания
type TimetableHandler struct {
	timetableService *services.TimetableService
	resolverService  *services.ResolverService
	schoolService    *services.SchoolService
	viewStateService *services.ViewStateService
}

// NewTimetableHandler создает новый обработчик расписания
func NewTimetableHandler(
	timetableService *services.TimetableService,
	resolverService *services.ResolverService,
	schoolService *services.SchoolService,
	viewStateService *services.ViewStateService,
) *TimetableHandler {
	return &TimetableHandler{
		timetableService: timetableService,
		resolverService:  resolverService,
		schoolService:    schoolService,
		viewStateService: viewStateService,
	}
}

// weekMeta собирает общие поля недельного ответа
func (h *TimetableHandler) weekMeta(start, end time.Time) gin.H {
	week, _ := services.WeekOf(start)
	meta := gin.H{
		"week_start": start.Format("2006-01-02"),
		"week_end":   end.Format("2006-01-02"),
		"label":      services.WeekRangeLabel(start, end),
		"week":       week,
	}
	if settings, err := h.schoolService.Settings(); err == nil && settings.UseWeekAB {
		if week%2 == 1 {
			meta["week_ab"] = "A"
		} else {
			meta["week_ab"] = "B"
		}
	}
	return meta
}

// WeekView возвращает неделю текущего пользователя. Смещение недели
// хранится на сервере; параметр offset задает его явно. Сотрудник
// может передать student_id и посмотреть неделю ученика.
func (h *TimetableHandler) WeekView(c *gin.Context) {
	user := currentUser(c)

	state := h.viewStateService.Get(user.ID)
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		state.WeekOffset = offset
		h.viewStateService.Set(user.ID, state)
	}

	var studentID *uuid.UUID
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
			return
		}
		studentID = &id
	}

	start, end := services.WeekWindow(time.Now(), state.WeekOffset)
	entries, err := h.timetableService.EntriesFor(user, studentID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := h.weekMeta(start, end)
	resp["offset"] = state.WeekOffset
	resp["entries"] = entries
	c.JSON(http.StatusOK, resp)
}

type navigateReq struct {
	Delta int  `json:"delta"`
	Reset bool `json:"reset"`
}

// Navigate сдвигает видимую неделю вперед или назад либо возвращает
// ее к текущей
func (h *TimetableHandler) Navigate(c *gin.Context) {
	user := currentUser(c)
	var req navigateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Reset {
		h.viewStateService.Reset(user.ID)
		c.JSON(http.StatusOK, gin.H{"offset": 0})
		return
	}
	state := h.viewStateService.Shift(user.ID, req.Delta)
	c.JSON(http.StatusOK, gin.H{"offset": state.WeekOffset})
}

type selectionReq struct {
	Mode       string      `json:"mode" binding:"required"`
	UserID     *uuid.UUID  `json:"user_id"`
	SubjectID  *uuid.UUID  `json:"subject_id"`
	YearGroup  string      `json:"year_group"`
	ApplyToAll bool        `json:"apply_to_all"`
	Exclude    []uuid.UUID `json:"exclude"`
}

func (r selectionReq) toSelection() services.Selection {
	sel := services.Selection{
		Mode:       services.SelectionMode(r.Mode),
		YearGroup:  r.YearGroup,
		ApplyToAll: r.ApplyToAll,
		Exclude:    r.Exclude,
	}
	if r.UserID != nil {
		sel.UserID = *r.UserID
	}
	if r.SubjectID != nil {
		sel.SubjectID = *r.SubjectID
	}
	return sel
}

// SelectionView возвращает неделю для выбора пользователей:
// административный просмотр по предмету или параллели. Выбранный
// фильтр запоминается в состоянии просмотра администратора.
func (h *TimetableHandler) SelectionView(c *gin.Context) {
	user := currentUser(c)

	state := h.viewStateService.Get(user.ID)
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		state.WeekOffset = offset
	}

	sel := services.Selection{}
	switch c.Query("mode") {
	case "subject":
		id, err := uuid.Parse(c.Query("subject_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
			return
		}
		sel.Mode = services.SelectSubject
		sel.SubjectID = id
		state.FilterKind = "subject"
		state.FilterID = id.String()
	case "year_group":
		yg := c.Query("year_group")
		if yg == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year_group is required"})
			return
		}
		sel.Mode = services.SelectYearGroup
		sel.YearGroup = yg
		state.FilterKind = "year_group"
		state.FilterID = yg
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be subject or year_group"})
		return
	}
	h.viewStateService.Set(user.ID, state)

	ids, err := h.resolverService.Resolve(sel)
	if err != nil {
		respondError(c, err)
		return
	}

	start, end := services.WeekWindow(time.Now(), state.WeekOffset)
	entries, err := h.timetableService.EntriesForSelection(ids, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := h.weekMeta(start, end)
	resp["offset"] = state.WeekOffset
	resp["user_ids"] = ids
	resp["entries"] = entries
	c.JSON(http.StatusOK, resp)
}

type addEntryReq struct {
	services.EntryInput
	Selection selectionReq `json:"selection" binding:"required"`
}

// AddEntry создает запись расписания для выбранных участников
func (h *TimetableHandler) AddEntry(c *gin.Context) {
	var req addEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.timetableService.AddEntry(req.EntryInput, req.Selection.toSelection())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// EditEntry обновляет запись расписания
func (h *TimetableHandler) EditEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	var req services.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.timetableService.EditEntry(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry удаляет запись для всех участников
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	if err := h.timetableService.DeleteEntryForAll(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// DeleteEntryForUser убирает одного участника из записи
func (h *TimetableHandler) DeleteEntryForUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.timetableService.DeleteEntryForUser(id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type assigneesReq struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

// UpdateAssignees целиком заменяет участников записи
func (h *TimetableHandler) UpdateAssignees(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	var req assigneesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.timetableService.UpdateAssignees(id, req.UserIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type freeDayReq struct {
	Date      string       `json:"date" binding:"required"`
	Message   string       `json:"message" binding:"required"`
	Selection selectionReq `json:"selection" binding:"required"`
}

// SetFreeDay создает выходной день для выбранной области
func (h *TimetableHandler) SetFreeDay(c *gin.Context) {
	var req freeDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.timetableService.SetFreeDay(req.Date, req.Message, req.Selection.toSelection())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

type editFreeDayReq struct {
	Date    string `json:"date" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// EditFreeDay обновляет дату и сообщение выходного дня
func (h *TimetableHandler) EditFreeDay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	var req editFreeDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.timetableService.EditFreeDay(id, req.Date, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

type noteReq struct {
	Content string `json:"content" binding:"required"`
}

// SetNote создает или обновляет заметку записи
func (h *TimetableHandler) SetNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	var req noteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.timetableService.SetNote(id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// GetNote возвращает заметку записи
func (h *TimetableHandler) GetNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	note, err := h.timetableService.GetNote(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}
