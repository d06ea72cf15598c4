package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

func TestRuleOccurrences_TwoWeeks(t *testing.T) {
	rule := model.RegularLessonRule{DayOfWeek: 1, Time: "10:00", Duration: 60}
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // понедельник
	to := from.AddDate(0, 0, 14)

	got, err := RuleOccurrences(rule, from, to)
	require.NoError(t, err)

	assert.Equal(t, []model.Interval{
		{Start: "2024-01-15T10:00:00", End: "2024-01-15T11:00:00"},
		{Start: "2024-01-22T10:00:00", End: "2024-01-22T11:00:00"},
	}, got)
}

func TestRuleOccurrences_Sunday(t *testing.T) {
	rule := model.RegularLessonRule{DayOfWeek: 0, Time: "9:30", Duration: 30}
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	got, err := RuleOccurrences(rule, from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-21T09:30:00", got[0].Start)
}

func TestRuleOccurrences_InvalidRule(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := RuleOccurrences(model.RegularLessonRule{DayOfWeek: 7, Time: "10:00"}, from, from.AddDate(0, 0, 7))
	assert.Error(t, err)

	_, err = RuleOccurrences(model.RegularLessonRule{DayOfWeek: 1, Time: "ten"}, from, from.AddDate(0, 0, 7))
	assert.Error(t, err)
}
