package export

import (
	"fmt"
	"time"
)

var weekdaysShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthsRussian = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

// WeekdayShort короткое русское название дня недели
func WeekdayShort(d time.Weekday) string {
	return weekdaysShort[d]
}

// MonthName русское название месяца
func MonthName(m time.Month) string {
	return monthsRussian[m]
}

// weekTitle "Январь" или "Январь - Февраль" для недели на стыке месяцев
func weekTitle(start, end time.Time) string {
	if start.Month() == end.Month() {
		return MonthName(start.Month())
	}
	return fmt.Sprintf("%s - %s", MonthName(start.Month()), MonthName(end.Month()))
}
