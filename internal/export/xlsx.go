package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

const weekSheet = "Неделя"

var statusFills = map[model.CellStatus]string{
	model.CellLessonBusy:  "#FFB6C1",
	model.CellRegularBusy: "#B0BEC5",
	model.CellFree:        "#85C155",
	model.CellAvailable:   "#FFFFFF",
}

// BuildWeekXLSX выгружает сетку недели: строки - время, столбцы - дни.
// Ячейки урока подписываются именем ученика.
func BuildWeekXLSX(week availability.Week, lessons []model.Lesson, teacherName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(weekSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(weekSheet, "A", "A", 10)
	f.SetColWidth(weekSheet, "B", "H", 18)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	statusStyles := make(map[model.CellStatus]int, len(statusFills))
	for status, fill := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border: []excelize.Border{
				{Type: "left", Color: "#D0D0D0", Style: 1},
				{Type: "right", Color: "#D0D0D0", Style: 1},
				{Type: "top", Color: "#D0D0D0", Style: 1},
				{Type: "bottom", Color: "#D0D0D0", Style: 1},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("status style: %w", err)
		}
		statusStyles[status] = id
	}

	start, _ := availability.ParseDate(week.Start)
	end, _ := availability.ParseDate(week.End)
	title := fmt.Sprintf("%s: %s, %s - %s", teacherName, weekTitle(start, end), week.Start, week.End)
	f.SetCellValue(weekSheet, "A1", title)
	f.MergeCell(weekSheet, "A1", "H1")
	f.SetCellStyle(weekSheet, "A1", "H1", headerStyle)

	f.SetCellValue(weekSheet, "A2", "Время")
	for i, day := range week.Days {
		d, _ := availability.ParseDate(day.Date)
		f.SetCellValue(weekSheet, cellName(i+2, 2), fmt.Sprintf("%s %s", WeekdayShort(d.Weekday()), d.Format("02.01")))
	}
	f.SetCellStyle(weekSheet, "A2", "H2", headerStyle)

	starts := lessonStarts(lessons)
	for i, day := range week.Days {
		for j, c := range day.Cells {
			row := j + 3
			if i == 0 {
				f.SetCellValue(weekSheet, cellName(1, row), c.Time)
			}
			name := cellName(i+2, row)
			if label, ok := starts[availability.SlotKey(day.Date, c.Minutes)]; ok {
				f.SetCellValue(weekSheet, name, label)
			}
			f.SetCellStyle(weekSheet, name, name, statusStyles[c.Status])
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// lessonStarts подписи уроков по ключу ячейки, в которой урок начинается
func lessonStarts(lessons []model.Lesson) map[string]string {
	starts := make(map[string]string, len(lessons))
	for _, l := range lessons {
		if l.Type == model.LessonTypeCancelled {
			continue
		}
		m, ok := availability.StoredClockMinutes(l.Time)
		if !ok {
			continue
		}
		// урок не на границе сетки подписывается в ячейке, где он начался
		key := availability.SlotKey(l.Date, m-m%availability.SlotMinutes)
		if prev, ok := starts[key]; ok {
			starts[key] = prev + ", " + l.Student
			continue
		}
		starts[key] = l.Student
	}
	return starts
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
