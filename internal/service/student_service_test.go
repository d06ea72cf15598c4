package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

func enroll(t *testing.T, env *testEnv, studentID, teacherID string) {
	t.Helper()
	_, err := env.students.Enroll(context.Background(), studentID, teacherID)
	require.NoError(t, err)
}

func addLesson(t *testing.T, env *testEnv, teacherID string, in model.LessonInput) *model.Lesson {
	t.Helper()
	l, err := env.lessons.For(teacherID).Add(context.Background(), in)
	require.NoError(t, err)
	return l
}

func TestStudentService_NotEnrolled(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Upcoming(context.Background(), "s1")
	assert.ErrorIs(t, err, model.ErrNotEnrolled)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStudentService_Upcoming(t *testing.T) {
	env := newTestEnv(t)
	enroll(t, env, "s1", "t1")

	addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-14", Time: "10:00", Student: "Аня"})
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-17", Time: "10:00", Student: "Аня"})
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "12:00", Student: "Аня", Type: model.LessonTypeRegular})
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "09:00", Student: "Аня", Type: model.LessonTypeCancelled})
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s2", Date: "2024-01-16", Time: "09:00", Student: "Боря"})

	got, err := env.students.Upcoming(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, got.Lessons, 2)

	assert.Equal(t, "2024-01-16T12:00:00", got.Lessons[0].StartTime)
	assert.Equal(t, "2024-01-16T12:40:00", got.Lessons[0].EndTime)
	assert.True(t, got.Lessons[0].IsRegular)
	assert.Equal(t, "Преподаватель t1", got.Lessons[0].TeacherName)
	assert.Equal(t, "2024-01-17T10:00:00", got.Lessons[1].StartTime)
}

func TestStudentService_UpcomingLimit(t *testing.T) {
	env := newTestEnv(t)
	enroll(t, env, "s1", "t1")

	for _, date := range []string{"2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19", "2024-01-20", "2024-01-21", "2024-01-22"} {
		addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: date, Time: "10:00", Student: "Аня"})
	}

	got, err := env.students.Upcoming(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, got.Lessons, 5)
}

func TestStudentService_TimeSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	require.NoError(t, env.availability.SaveSnapshot(ctx, "t1", &model.AvailabilitySnapshot{
		FreeSlots: model.FreeSlots{
			"2024-01-16_10:00": true,
			"2024-01-16_10:30": true,
			"2024-01-16_11:00": true,
		},
	}))
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s2", Date: "2024-01-16", Time: "11:00", Student: "Боря"})

	got, err := env.students.TimeSlots(ctx, "s1", "2024-01-16")
	require.NoError(t, err)
	require.Len(t, got.TimeSlots, 24)

	available := map[string]bool{}
	for _, slot := range got.TimeSlots {
		if slot.IsAvailable {
			available[slot.Time] = true
		}
	}
	// 10:30 накрыл бы занятую ячейку 11:00, сама 11:00 занята уроком
	assert.Equal(t, map[string]bool{"10:00": true}, available)
}

func TestStudentService_TimeSlotsInPastUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	// testNow 08:00 понедельника, 07:30 уже прошло
	_, err := env.availability.UpdateSettings(ctx, "t1", model.SettingsPatch{WorkHours: &model.WorkHours{Start: 7, End: 9}})
	require.NoError(t, err)
	require.NoError(t, env.availability.SaveSnapshot(ctx, "t1", &model.AvailabilitySnapshot{
		FreeSlots: model.FreeSlots{"2024-01-15_07:30": true, "2024-01-15_08:30": true},
	}))

	got, err := env.students.TimeSlots(ctx, "s1", "2024-01-15")
	require.NoError(t, err)

	for _, slot := range got.TimeSlots {
		assert.Equal(t, slot.Time == "08:30", slot.IsAvailable, slot.Time)
	}
}

func TestStudentService_AvailableDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	require.NoError(t, env.availability.SaveSnapshot(ctx, "t1", &model.AvailabilitySnapshot{
		FreeSlots: model.FreeSlots{
			"2024-01-14_10:00": true, // вчера
			"2024-01-17_10:00": true,
			"2024-01-25_15:00": true,
			"2024-01-29_10:00": true, // за пределами двух недель
		},
	}))

	got, err := env.students.AvailableDates(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, []model.AvailableDate{{Date: "2024-01-17"}, {Date: "2024-01-25"}}, got.AvailableDates)

	got, err = env.students.AvailableDates(ctx, "s1", 3)
	require.NoError(t, err)
	assert.Len(t, got.AvailableDates, 3)
}

func TestStudentService_AvailableDatesHorizonCapped(t *testing.T) {
	env := newTestEnv(t)
	enroll(t, env, "s1", "t1")

	_, err := env.students.AvailableDates(context.Background(), "s1", 100000)
	assert.True(t, model.IsValidation(err), "got %v", err)

	_, err = env.students.AvailableDates(context.Background(), "s1", 12)
	assert.NoError(t, err)
}

func TestStudentService_Availability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	_, err := env.availability.AddRegularLesson(ctx, "t1", model.RegularLessonInput{DayOfWeek: intPtr(3), Time: "14:00", Duration: 60})
	require.NoError(t, err)
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня", Topic: "Алгебра"})
	addLesson(t, env, "t1", model.LessonInput{StudentID: "s2", Date: "2024-01-16", Time: "12:00", Student: "Боря"})

	got, err := env.students.Availability(ctx, "s1")
	require.NoError(t, err)

	// три среды регулярного блока и урок другого ученика
	assert.Len(t, got.TeacherBusy, 4)
	assert.Equal(t, []model.Interval{{Start: "2024-01-16T10:00:00", End: "2024-01-16T10:40:00"}}, got.StudentBusy)
	require.Len(t, got.Lessons, 1)
	assert.Equal(t, "Алгебра", got.Lessons[0].Title)
}

func TestStudentService_RescheduleSingle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")
	chat := int64(777)
	_, err := env.availability.UpdateSettings(ctx, "t1", model.SettingsPatch{TelegramChatID: &chat})
	require.NoError(t, err)

	l := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня", Type: model.LessonTypeRegular})

	res, err := env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{
		NewStartTime: "2024-01-18T15:30:00",
		TransferType: model.TransferNearest,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{l.ID}, res.Moved)

	got, err := env.lessons.For("t1").Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-18", got.Date)
	assert.Equal(t, "15:30", got.Time)
	assert.Equal(t, model.LessonTypeRescheduled, got.Type)

	require.Len(t, env.notifier.notices, 1)
	assert.Equal(t, int64(777), env.notifier.chatID)
	assert.Equal(t, "2024-01-16", env.notifier.notices[0].OldDate)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.Reschedules.WithLabelValues("nearest", "ok")))
}

func TestStudentService_RescheduleSeries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	past := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-09", Time: "10:00", Student: "Аня", Type: model.LessonTypeRegular})
	first := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня", Type: model.LessonTypeRegular})
	second := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-23", Time: "10:00", Student: "Аня", Type: model.LessonTypeRegular})
	otherTime := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-23", Time: "16:00", Student: "Аня", Type: model.LessonTypeRegular})
	otherStudent := addLesson(t, env, "t1", model.LessonInput{StudentID: "s2", Date: "2024-01-23", Time: "10:00", Student: "Боря", Type: model.LessonTypeRegular})

	res, err := env.students.Reschedule(ctx, "s1", first.ID, model.RescheduleRequest{
		NewStartTime:     "2024-01-17T11:00:00",
		TransferType:     model.TransferRegular,
		RescheduleSeries: true,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, res.Moved)

	store := env.lessons.For("t1")
	check := func(id, date, clock string) {
		t.Helper()
		l, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, date, l.Date)
		assert.Equal(t, clock, l.Time)
		assert.Equal(t, model.LessonTypeRegular, l.Type)
	}
	check(past.ID, "2024-01-09", "10:00")
	check(first.ID, "2024-01-17", "11:00")
	check(second.ID, "2024-01-24", "11:00")
	check(otherTime.ID, "2024-01-23", "16:00")
	check(otherStudent.ID, "2024-01-23", "10:00")
}

func TestStudentService_RescheduleSeriesFlagOnSingleLesson(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	l := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня"})

	_, err := env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{
		NewStartTime:     "2024-01-17T11:00:00",
		TransferType:     model.TransferRegular,
		RescheduleSeries: true,
	})
	require.NoError(t, err)

	got, err := env.lessons.For("t1").Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LessonTypeRescheduled, got.Type)
}

func TestStudentService_RescheduleErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")
	enroll(t, env, "s2", "t1")
	l := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня"})

	_, err := env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{NewStartTime: "tomorrow", TransferType: model.TransferNearest})
	assert.True(t, model.IsValidation(err))

	_, err = env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{NewStartTime: "2024-01-14T10:00:00", TransferType: model.TransferNearest})
	assert.True(t, model.IsValidation(err))

	_, err = env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{NewStartTime: "2024-01-17T10:00:00", TransferType: "later"})
	assert.True(t, model.IsValidation(err))

	// чужой урок
	_, err = env.students.Reschedule(ctx, "s2", l.ID, model.RescheduleRequest{NewStartTime: "2024-01-17T10:00:00", TransferType: model.TransferSpecific})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Empty(t, env.notifier.notices)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.Reschedules.WithLabelValues("specific", "error")))
}

func TestStudentService_RescheduleWithoutChatIDSkipsNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")
	l := addLesson(t, env, "t1", model.LessonInput{StudentID: "s1", Date: "2024-01-16", Time: "10:00", Student: "Аня"})

	_, err := env.students.Reschedule(ctx, "s1", l.ID, model.RescheduleRequest{NewStartTime: "2024-01-17T10:00", TransferType: model.TransferSpecific})
	require.NoError(t, err)
	assert.Empty(t, env.notifier.notices)
}

func TestStudentService_Book(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")
	enroll(t, env, "s2", "t1")

	require.NoError(t, env.availability.SaveSnapshot(ctx, "t1", &model.AvailabilitySnapshot{
		FreeSlots: model.FreeSlots{"2024-01-16_10:00": true, "2024-01-15_07:30": true},
	}))

	res, err := env.students.Book(ctx, "s1", model.BookRequest{StartTime: "2024-01-16T10:00:00", Student: "Аня", IsRegular: true})
	require.NoError(t, err)
	require.NotNil(t, res.Lesson)
	assert.Equal(t, "s1", res.Lesson.StudentID)
	assert.Equal(t, "2024-01-16", res.Lesson.Date)
	assert.Equal(t, "10:00", res.Lesson.Time)
	assert.Equal(t, model.LessonTypeRegular, res.Lesson.Type)
	assert.Equal(t, availability.LessonDuration, res.Lesson.Duration)

	stored, err := env.lessons.For("t1").Get(ctx, res.Lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Аня", stored.Student)

	// окно уже занято уроком
	_, err = env.students.Book(ctx, "s2", model.BookRequest{StartTime: "2024-01-16T10:00:00"})
	assert.True(t, model.IsValidation(err), "got %v", err)

	// не отмечено свободным
	_, err = env.students.Book(ctx, "s2", model.BookRequest{StartTime: "2024-01-16T12:00:00"})
	assert.True(t, model.IsValidation(err), "got %v", err)

	// прошло и вне рабочих часов
	_, err = env.students.Book(ctx, "s2", model.BookRequest{StartTime: "2024-01-15T07:30:00"})
	assert.True(t, model.IsValidation(err), "got %v", err)

	_, err = env.students.Book(ctx, "s2", model.BookRequest{StartTime: "завтра"})
	assert.True(t, model.IsValidation(err), "got %v", err)

	_, err = env.students.Book(ctx, "s9", model.BookRequest{StartTime: "2024-01-16T10:00:00"})
	assert.ErrorIs(t, err, model.ErrNotEnrolled)
}

func TestStudentService_BookDefaultsStudentName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enroll(t, env, "s1", "t1")

	require.NoError(t, env.availability.SaveSnapshot(ctx, "t1", &model.AvailabilitySnapshot{
		FreeSlots: model.FreeSlots{"2024-01-17_15:00": true},
	}))

	res, err := env.students.Book(ctx, "s1", model.BookRequest{StartTime: "2024-01-17T15:00"})
	require.NoError(t, err)
	assert.Equal(t, "s1", res.Lesson.Student)
	assert.Equal(t, model.LessonTypeSingle, res.Lesson.Type)
}
