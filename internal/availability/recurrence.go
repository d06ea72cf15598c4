package availability

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// RuleRecurrence еженедельное правило повторения регулярного блока,
// начиная с первой подходящей даты не раньше from
func RuleRecurrence(rule model.RegularLessonRule, from time.Time) (*rrule.RRule, error) {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return nil, fmt.Errorf("day of week %d out of range", rule.DayOfWeek)
	}
	start, ok := parseStoredClock(rule.Time)
	if !ok {
		return nil, fmt.Errorf("invalid rule time %q", rule.Time)
	}

	first := DateOf(from)
	for int(first.Weekday()) != rule.DayOfWeek {
		first = first.AddDate(0, 0, 1)
	}

	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{weekdays[rule.DayOfWeek]},
		Dtstart:   first.Add(time.Duration(start) * time.Minute),
	})
}

// RuleOccurrences интервалы, которые правило занимает в [from, to)
func RuleOccurrences(rule model.RegularLessonRule, from, to time.Time) ([]model.Interval, error) {
	r, err := RuleRecurrence(rule, from)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(rule.Duration) * time.Minute
	var out []model.Interval
	for _, start := range r.Between(from, to, true) {
		if !start.Before(to) {
			continue
		}
		out = append(out, model.Interval{
			Start: start.Format(DateTimeLayout),
			End:   start.Add(duration).Format(DateTimeLayout),
		})
	}
	return out, nil
}
