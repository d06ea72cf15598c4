package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/export"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// ExportHandler выгрузки календаря преподавателя
type ExportHandler struct {
	lessons        *service.LessonService
	availability   *service.AvailabilityService
	lessonDuration int
	now            func() time.Time
}

// NewExportHandler создаёт обработчик
func NewExportHandler(lessons *service.LessonService, availabilitySvc *service.AvailabilityService, lessonDuration int, now func() time.Time) *ExportHandler {
	return &ExportHandler{
		lessons:        lessons,
		availability:   availabilitySvc,
		lessonDuration: lessonDuration,
		now:            now,
	}
}

// Calendar GET /export/calendar.ics
func (h *ExportHandler) Calendar(c *gin.Context) {
	ctx := c.Request.Context()
	teacherID := c.Param("teacher_id")

	settings, err := h.availability.Settings(ctx, teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	snapshot, err := h.availability.Snapshot(ctx, teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	lessons, err := h.lessons.For(teacherID).All(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	body, err := export.BuildICS(export.CalendarInput{
		TeacherID:      teacherID,
		TeacherName:    settings.TeacherName,
		Lessons:        lessons,
		RegularLessons: snapshot.RegularLessons,
		From:           availability.WeekStart(now),
		LessonDuration: h.lessonDuration,
		Now:            now,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	attachment(c, "calendar.ics")
	c.Data(http.StatusOK, contentTypeICS, []byte(body))
}

// WeekXLSX GET /export/week.xlsx?date=
func (h *ExportHandler) WeekXLSX(c *gin.Context) {
	week, lessons, settings, ok := h.week(c)
	if !ok {
		return
	}

	body, err := export.BuildWeekXLSX(*week, lessons, settings.TeacherName)
	if err != nil {
		respondError(c, err)
		return
	}

	attachment(c, fmt.Sprintf("week_%s.xlsx", week.Start))
	c.Data(http.StatusOK, contentTypeXLSX, body)
}

// WeekPNG GET /export/week.png?date=
func (h *ExportHandler) WeekPNG(c *gin.Context) {
	week, lessons, _, ok := h.week(c)
	if !ok {
		return
	}

	body, err := export.RenderWeekPNG(*week, lessons, h.lessonDuration, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypePNG, body)
}

func (h *ExportHandler) week(c *gin.Context) (*availability.Week, []model.Lesson, *model.Settings, bool) {
	ctx := c.Request.Context()
	teacherID := c.Param("teacher_id")

	day, ok := dayParam(c, "date", h.now)
	if !ok {
		return nil, nil, nil, false
	}

	week, err := h.availability.WeekGrid(ctx, teacherID, day)
	if err != nil {
		respondError(c, err)
		return nil, nil, nil, false
	}
	lessons, err := h.lessons.For(teacherID).ListRange(ctx, week.Start, week.End)
	if err != nil {
		respondError(c, err)
		return nil, nil, nil, false
	}
	settings, err := h.availability.Settings(ctx, teacherID)
	if err != nil {
		respondError(c, err)
		return nil, nil, nil, false
	}
	return week, lessons, settings, true
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
