package export

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

var (
	monday = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
)

func sampleData() ([]model.Lesson, []model.RegularLessonRule, model.FreeSlots) {
	lessons := []model.Lesson{
		{ID: "l1", Date: "2024-01-15", Time: "10:30", Student: "Аня", Topic: "Алгебра", Type: model.LessonTypeSingle},
		{ID: "l2", Date: "2024-01-17", Time: "12:00", Student: "Боря", Type: model.LessonTypeCancelled},
	}
	rules := []model.RegularLessonRule{{DayOfWeek: 1, Time: "10:00", Duration: 60, Title: "Кружок"}}
	free := model.FreeSlots{"2024-01-16_09:00": true}
	return lessons, rules, free
}

func TestBuildICS(t *testing.T) {
	lessons, rules, _ := sampleData()

	out, err := BuildICS(CalendarInput{
		TeacherID:      "t1",
		TeacherName:    "Мария Ивановна",
		Lessons:        lessons,
		RegularLessons: rules,
		From:           monday,
		LessonDuration: 40,
		Now:            now,
	})
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3)

	byID := map[string]*ics.VEvent{}
	for _, e := range events {
		byID[e.Id()] = e
	}

	lesson := byID["l1@t1"]
	require.NotNil(t, lesson)
	assert.Equal(t, "20240115T103000", lesson.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240115T111000", lesson.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "Урок: Аня", lesson.GetProperty(ics.ComponentPropertySummary).Value)

	cancelled := byID["l2@t1"]
	require.NotNil(t, cancelled)
	assert.Equal(t, string(ics.ObjectStatusCancelled), cancelled.GetProperty(ics.ComponentPropertyStatus).Value)

	assert.Contains(t, out, "RRULE:FREQ=WEEKLY")
	assert.Contains(t, out, "BYDAY=MO")
}

func TestBuildICS_InvalidRule(t *testing.T) {
	_, err := BuildICS(CalendarInput{
		TeacherID:      "t1",
		RegularLessons: []model.RegularLessonRule{{DayOfWeek: 9, Time: "10:00", Duration: 30}},
		From:           monday,
		Now:            now,
	})
	assert.Error(t, err)
}

func TestBuildWeekXLSX(t *testing.T) {
	lessons, rules, free := sampleData()
	week := availability.NewClassifier(40).BuildWeek(monday, now, model.WorkHours{Start: 9, End: 12}, lessons, rules, free)

	data, err := BuildWeekXLSX(week, lessons, "Мария Ивановна")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{weekSheet}, f.GetSheetList())

	header, err := f.GetCellValue(weekSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Пн 15.01", header)

	// 10:30 - пятая строка времени (9:00 в строке 3)
	first, err := f.GetCellValue(weekSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "09:00", first)

	label, err := f.GetCellValue(weekSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "Аня", label)

	cancelled, err := f.GetCellValue(weekSheet, "D9")
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

func TestRenderWeekPNG(t *testing.T) {
	lessons, rules, free := sampleData()
	week := availability.NewClassifier(40).BuildWeek(monday, now, model.WorkHours{Start: 9, End: 21}, lessons, rules, free)

	data, err := RenderWeekPNG(week, lessons, 40, now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestWeekTitle(t *testing.T) {
	assert.Equal(t, "Январь", weekTitle(monday, monday.AddDate(0, 0, 6)))
	assert.Equal(t, "Январь - Февраль", weekTitle(
		time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
	))
}
