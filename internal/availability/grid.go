package availability

import (
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// Cell одна получасовая ячейка недельной сетки
type Cell struct {
	Time       string           `json:"time"`
	Minutes    int              `json:"minutes"`
	Status     model.CellStatus `json:"status"`
	Toggleable bool             `json:"toggleable"`
	Title      string           `json:"title"`
}

// Day столбец сетки
type Day struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
	Today   bool   `json:"today"`
	Cells   []Cell `json:"cells"`
}

// Week сетка занятости с понедельника по воскресенье
type Week struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  []Day  `json:"days"`
}

// GridTimes времена начала ячеек рабочего дня в минутах
func GridTimes(hours model.WorkHours) []int {
	times := make([]int, 0, (hours.End-hours.Start)*60/SlotMinutes)
	for m := hours.Start * 60; m < hours.End*60; m += SlotMinutes {
		times = append(times, m)
	}
	return times
}

// BuildWeek строит сетку недели, в которую попадает day
func (c Classifier) BuildWeek(day, today time.Time, hours model.WorkHours, lessons []model.Lesson, rules []model.RegularLessonRule, free model.FreeSlots) Week {
	start := WeekStart(day)
	todayStr := FormatDate(today)
	times := GridTimes(hours)

	week := Week{
		Start: FormatDate(start),
		End:   FormatDate(start.AddDate(0, 0, 6)),
		Days:  make([]Day, 0, 7),
	}

	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		dateStr := FormatDate(date)
		d := Day{
			Date:    dateStr,
			Weekday: int(date.Weekday()),
			Today:   dateStr == todayStr,
			Cells:   make([]Cell, 0, len(times)),
		}
		for _, m := range times {
			status := c.Classify(date, m/60, m%60, lessons, rules, free)
			d.Cells = append(d.Cells, Cell{
				Time:       FormatClock(m),
				Minutes:    m,
				Status:     status,
				Toggleable: Toggleable(status),
				Title:      CellTitle(status, m),
			})
		}
		week.Days = append(week.Days, d)
	}

	return week
}
