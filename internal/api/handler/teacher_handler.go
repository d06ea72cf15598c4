package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// TeacherHandler уроки, занятость и настройки преподавателя
type TeacherHandler struct {
	lessons      *service.LessonService
	availability *service.AvailabilityService
	now          func() time.Time
}

// NewTeacherHandler создаёт обработчик
func NewTeacherHandler(lessons *service.LessonService, availabilitySvc *service.AvailabilityService) *TeacherHandler {
	return &TeacherHandler{
		lessons:      lessons,
		availability: availabilitySvc,
		now:          time.Now,
	}
}

type cellRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type cellResponse struct {
	Date   string           `json:"date"`
	Time   string           `json:"time"`
	Status model.CellStatus `json:"status"`
}

func (h *TeacherHandler) store(c *gin.Context) *service.LessonStore {
	return h.lessons.For(c.Param("teacher_id"))
}

// ListLessons GET /lessons: все уроки, ?date= за день или ?from=&to= за период
func (h *TeacherHandler) ListLessons(c *gin.Context) {
	store := h.store(c)

	if date := c.Query("date"); date != "" {
		lessons, err := store.ListByDate(c.Request.Context(), date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lessons)
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		if _, err := availability.ParseDate(from); err != nil {
			respondError(c, err)
			return
		}
		if _, err := availability.ParseDate(to); err != nil {
			respondError(c, err)
			return
		}
		lessons, err := store.ListRange(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lessons)
		return
	}

	lessons, err := store.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// CreateLesson POST /lessons
func (h *TeacherHandler) CreateLesson(c *gin.Context) {
	var input model.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Заполните дату, время и имя ученика")
		return
	}

	lesson, err := h.store(c).Add(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// GetLesson GET /lessons/:lesson_id
func (h *TeacherHandler) GetLesson(c *gin.Context) {
	lesson, err := h.store(c).Get(c.Request.Context(), c.Param("lesson_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// UpdateLesson PATCH /lessons/:lesson_id
func (h *TeacherHandler) UpdateLesson(c *gin.Context) {
	var patch model.LessonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Некорректный запрос")
		return
	}

	lesson, err := h.store(c).Update(c.Request.Context(), c.Param("lesson_id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson DELETE /lessons/:lesson_id, неизвестный id тоже 204
func (h *TeacherHandler) DeleteLesson(c *gin.Context) {
	if err := h.store(c).Delete(c.Request.Context(), c.Param("lesson_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LessonCounts GET /lesson-counts?month=YYYY-MM
func (h *TeacherHandler) LessonCounts(c *gin.Context) {
	month := h.now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			badRequest(c, "Некорректный месяц")
			return
		}
		month = parsed
	}

	counts, err := h.store(c).DayCounts(c.Request.Context(), month.Year(), month.Month())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// LessonStats GET /lesson-stats?date=YYYY-MM-DD, неделя считается по date (по умолчанию сегодня)
func (h *TeacherHandler) LessonStats(c *gin.Context) {
	day, ok := dayParam(c, "date", h.now)
	if !ok {
		return
	}

	stats, err := h.store(c).Stats(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAvailability GET /availability
func (h *TeacherHandler) GetAvailability(c *gin.Context) {
	snapshot, err := h.availability.Snapshot(c.Request.Context(), c.Param("teacher_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SaveAvailability PUT /availability, документ заменяется целиком
func (h *TeacherHandler) SaveAvailability(c *gin.Context) {
	var snapshot model.AvailabilitySnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		badRequest(c, "Некорректный запрос")
		return
	}

	teacherID := c.Param("teacher_id")
	if err := h.availability.SaveSnapshot(c.Request.Context(), teacherID, &snapshot); err != nil {
		respondError(c, err)
		return
	}

	saved, err := h.availability.Snapshot(c.Request.Context(), teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// AddRegularLesson POST /availability/regular
func (h *TeacherHandler) AddRegularLesson(c *gin.Context) {
	var input model.RegularLessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Некорректный запрос")
		return
	}

	rule, err := h.availability.AddRegularLesson(c.Request.Context(), c.Param("teacher_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ClassifyCell GET /availability/cell?date=&time=
func (h *TeacherHandler) ClassifyCell(c *gin.Context) {
	date, clock := c.Query("date"), c.Query("time")
	status, err := h.availability.ClassifyCell(c.Request.Context(), c.Param("teacher_id"), date, clock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cellResponse{Date: date, Time: clock, Status: status})
}

// ToggleFreeSlot POST /availability/toggle
func (h *TeacherHandler) ToggleFreeSlot(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Укажите дату и время")
		return
	}

	status, err := h.availability.ToggleFreeSlot(c.Request.Context(), c.Param("teacher_id"), req.Date, req.Time)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cellResponse{Date: req.Date, Time: req.Time, Status: status})
}

// Week GET /week?date=, по умолчанию текущая неделя
func (h *TeacherHandler) Week(c *gin.Context) {
	day, ok := dayParam(c, "date", h.now)
	if !ok {
		return
	}

	week, err := h.availability.WeekGrid(c.Request.Context(), c.Param("teacher_id"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// GetSettings GET /settings
func (h *TeacherHandler) GetSettings(c *gin.Context) {
	settings, err := h.availability.Settings(c.Request.Context(), c.Param("teacher_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings PATCH /settings
func (h *TeacherHandler) UpdateSettings(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Некорректный запрос")
		return
	}

	settings, err := h.availability.UpdateSettings(c.Request.Context(), c.Param("teacher_id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
