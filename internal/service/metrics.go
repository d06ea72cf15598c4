package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики доменных операций
type Metrics struct {
	Reschedules   *prometheus.CounterVec
	LessonsMoved  prometheus.Counter
	Notifications *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует счётчики в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reschedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lesson_calendar",
			Name:      "reschedules_total",
			Help:      "Reschedule requests by transfer type and result.",
		}, []string{"transfer_type", "result"}),
		LessonsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_calendar",
			Name:      "lessons_moved_total",
			Help:      "Lessons moved by reschedule requests.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lesson_calendar",
			Name:      "teacher_notifications_total",
			Help:      "Teacher notifications by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Reschedules, m.LessonsMoved, m.Notifications)
	return m
}
