package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// StudentHandler API виджета переноса уроков
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler создаёт обработчик
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

type enrollRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	TeacherID string `json:"teacher_id" binding:"required"`
}

// Enroll POST /enrollments
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Укажите ученика и преподавателя")
		return
	}

	enrollment, err := h.students.Enroll(c.Request.Context(), req.StudentID, req.TeacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// Availability GET /availability/weekly
func (h *StudentHandler) Availability(c *gin.Context) {
	out, err := h.students.Availability(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Upcoming GET /lessons/upcoming
func (h *StudentHandler) Upcoming(c *gin.Context) {
	out, err := h.students.Upcoming(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AvailableDates GET /availability/dates?weeks_ahead=
func (h *StudentHandler) AvailableDates(c *gin.Context) {
	weeksAhead := 0
	if raw := c.Query("weeks_ahead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > availability.MaxWeeksAhead {
			badRequest(c, "Некорректный weeks_ahead")
			return
		}
		weeksAhead = n
	}

	out, err := h.students.AvailableDates(c.Request.Context(), c.Param("student_id"), weeksAhead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// TimeSlots GET /availability/slots?date=
func (h *StudentHandler) TimeSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		badRequest(c, "Укажите дату")
		return
	}

	out, err := h.students.TimeSlots(c.Request.Context(), c.Param("student_id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Book POST /lessons, запись на свободное время
func (h *StudentHandler) Book(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Укажите время урока")
		return
	}

	out, err := h.students.Book(c.Request.Context(), c.Param("student_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Reschedule POST /lessons/:lesson_id/reschedule
func (h *StudentHandler) Reschedule(c *gin.Context) {
	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректный запрос")
		return
	}

	out, err := h.students.Reschedule(c.Request.Context(), c.Param("student_id"), c.Param("lesson_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
