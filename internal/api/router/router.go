package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/api/handler"
	"github.com/Freeeeeet/lesson_calendar/internal/api/middleware"
)

// Setup создаёт gin engine со всеми маршрутами. HTTP метрики регистрируются
// в registry, он же отдаётся на /metrics.
func Setup(h *handler.Handler, registry *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── Глобальные middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.NewHTTPMetrics(registry).Handler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/enrollments", h.Student.Enroll)

		// Кабинет преподавателя
		teacher := v1.Group("/teachers/:teacher_id")
		{
			teacher.GET("/lessons", h.Teacher.ListLessons)
			teacher.POST("/lessons", h.Teacher.CreateLesson)
			teacher.GET("/lessons/:lesson_id", h.Teacher.GetLesson)
			teacher.PATCH("/lessons/:lesson_id", h.Teacher.UpdateLesson)
			teacher.DELETE("/lessons/:lesson_id", h.Teacher.DeleteLesson)
			teacher.GET("/lesson-counts", h.Teacher.LessonCounts)
			teacher.GET("/lesson-stats", h.Teacher.LessonStats)

			teacher.GET("/availability", h.Teacher.GetAvailability)
			teacher.PUT("/availability", h.Teacher.SaveAvailability)
			teacher.POST("/availability/regular", h.Teacher.AddRegularLesson)
			teacher.GET("/availability/cell", h.Teacher.ClassifyCell)
			teacher.POST("/availability/toggle", h.Teacher.ToggleFreeSlot)
			teacher.GET("/week", h.Teacher.Week)

			teacher.GET("/settings", h.Teacher.GetSettings)
			teacher.PATCH("/settings", h.Teacher.UpdateSettings)

			teacher.GET("/export/calendar.ics", h.Export.Calendar)
			teacher.GET("/export/week.xlsx", h.Export.WeekXLSX)
			teacher.GET("/export/week.png", h.Export.WeekPNG)
		}

		// Виджет ученика
		student := v1.Group("/students/:student_id")
		{
			student.GET("/availability/weekly", h.Student.Availability)
			student.GET("/availability/dates", h.Student.AvailableDates)
			student.GET("/availability/slots", h.Student.TimeSlots)
			student.GET("/lessons/upcoming", h.Student.Upcoming)
			student.POST("/lessons", h.Student.Book)
			student.POST("/lessons/:lesson_id/reschedule", h.Student.Reschedule)
		}
	}

	return r
}
