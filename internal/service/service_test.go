package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository"
)

// понедельник, 08:00
var testNow = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	chatID  int64
	notices []RescheduleNotice
	err     error
}

func (f *fakeNotifier) NotifyReschedule(_ context.Context, chatID int64, notice RescheduleNotice) error {
	f.chatID = chatID
	f.notices = append(f.notices, notice)
	return f.err
}

type testEnv struct {
	docs         *repository.MemoryDocumentStore
	enrollments  *repository.MemoryEnrollmentStore
	lessons      *LessonService
	availability *AvailabilityService
	students     *StudentService
	notifier     *fakeNotifier
	metrics      *Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	docs := repository.NewMemoryDocumentStore()
	enrollments := repository.NewMemoryEnrollmentStore()
	classifier := availability.NewClassifier(availability.LessonDuration)

	lessons := NewLessonService(docs, availability.LessonDuration, logger)
	lessons.now = func() time.Time { return testNow }

	availabilitySvc := NewAvailabilityService(docs, lessons, classifier, model.WorkHours{Start: 9, End: 21}, logger)
	availabilitySvc.now = func() time.Time { return testNow }

	notifier := &fakeNotifier{}
	metrics := NewMetrics(prometheus.NewRegistry())
	students := NewStudentService(enrollments, lessons, availabilitySvc, classifier,
		StudentOptions{UpcomingLimit: 5, WeeksAhead: 2, Location: time.UTC},
		notifier, metrics, logger)
	students.now = func() time.Time { return testNow }

	return &testEnv{
		docs:         docs,
		enrollments:  enrollments,
		lessons:      lessons,
		availability: availabilitySvc,
		students:     students,
		notifier:     notifier,
		metrics:      metrics,
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
