package export

import (
	"bytes"
	"image/color"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// FontStyle стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 14.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	freeColor        = color.RGBA{133, 193, 85, 220}
	lessonColor      = color.RGBA{255, 182, 193, 255}
	regularColor     = color.RGBA{176, 190, 197, 230}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	lessonTextColor  = color.RGBA{120, 40, 50, 255}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}
	legendItemColor  = color.RGBA{70, 74, 78, 220}
	rescheduledColor = color.RGBA{255, 214, 153, 255}
)

var (
	fontsOnce   sync.Once
	parsedFonts map[FontStyle]*opentype.Font
)

func parseFonts() {
	parsedFonts = make(map[FontStyle]*opentype.Font)
	sources := map[FontStyle][]byte{
		FontStyleDefault: goregular.TTF,
		FontStyleMedium:  gomedium.TTF,
		FontStyleBold:    gobold.TTF,
	}
	for style, data := range sources {
		if f, err := opentype.Parse(data); err == nil {
			parsedFonts[style] = f
		}
	}
}

// loadFont выставляет шрифт нужного размера, при ошибке basicfont
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsOnce.Do(parseFonts)

	if f, ok := parsedFonts[style]; ok {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// hourRange диапазон часов на картинке
type hourRange struct {
	start int
	total int
}

// weekLayout общие размеры сетки
type weekLayout struct {
	hours      hourRange
	dayWidth   int
	dayHeight  int
	cellHeight float64
}

// RenderWeekPNG рисует сетку недели: свободные окна, регулярные блоки и уроки.
// now задаёт подсветку сегодняшнего дня и линию текущего времени.
func RenderWeekPNG(week availability.Week, lessons []model.Lesson, lessonDuration int, now time.Time) ([]byte, error) {
	if lessonDuration <= 0 {
		lessonDuration = availability.LessonDuration
	}

	layout := newWeekLayout(week)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	start, _ := availability.ParseDate(week.Start)
	end, _ := availability.ParseDate(week.End)
	drawHeader(dc, start, end)
	drawHourLabels(dc, layout)

	for i, day := range week.Days {
		x := float64(leftLabelsWidth + i*layout.dayWidth)
		y := float64(headerHeight)
		date, _ := availability.ParseDate(day.Date)

		drawDayBackground(dc, x, y, layout, i, day.Today)
		drawDayHeader(dc, date, x, y, layout.dayWidth)
		drawHourLines(dc, x, y, layout)
		drawCells(dc, day, x, y, layout)
		drawLessons(dc, day.Date, lessons, lessonDuration, x, y, layout)
	}

	drawCurrentTimeLine(dc, week, now, layout)
	drawLegend(dc, layout)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newWeekLayout(week availability.Week) weekLayout {
	hours := hourRange{start: 9, total: 12}
	if len(week.Days) > 0 && len(week.Days[0].Cells) > 0 {
		cells := week.Days[0].Cells
		first := cells[0].Minutes / 60
		last := (cells[len(cells)-1].Minutes + availability.SlotMinutes + 59) / 60
		hours = hourRange{start: first, total: last - first}
	}

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	return weekLayout{
		hours:      hours,
		dayWidth:   dayWidth,
		dayHeight:  dayHeight,
		cellHeight: float64(dayHeight) / float64(hours.total),
	}
}

// yFor координата по минутам от полуночи
func (l weekLayout) yFor(top float64, minutes int) float64 {
	return top + (float64(minutes)/60.0-float64(l.hours.start))*l.cellHeight
}

func drawHeader(dc *gg.Context, start, end time.Time) {
	title := weekTitle(start, end)

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, layout weekLayout) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for i := 0; i < layout.hours.total; i++ {
		y := float64(headerHeight) + float64(i)*layout.cellHeight
		label := availability.FormatClock((layout.hours.start + i) * 60)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, layout weekLayout, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(layout.dayWidth), float64(layout.dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(WeekdayShort(date.Weekday()), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, layout weekLayout) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= layout.hours.total; i++ {
		hy := y + float64(i)*layout.cellHeight
		dc.DrawLine(x, hy, x+float64(layout.dayWidth), hy)
		dc.Stroke()
	}
}

// drawCells закрашивает свободные окна и регулярные блоки, уроки рисуются отдельно
func drawCells(dc *gg.Context, day availability.Day, x, y float64, layout weekLayout) {
	for _, c := range day.Cells {
		var fill color.RGBA
		switch c.Status {
		case model.CellFree:
			fill = freeColor
		case model.CellRegularBusy:
			fill = regularColor
		default:
			continue
		}
		top := layout.yFor(y, c.Minutes)
		bottom := layout.yFor(y, c.Minutes+availability.SlotMinutes)
		dc.SetColor(fill)
		dc.DrawRectangle(x+dayPaddingX/2, top, float64(layout.dayWidth-dayPaddingX), bottom-top)
		dc.Fill()
	}
}

func drawLessons(dc *gg.Context, date string, lessons []model.Lesson, duration int, x, y float64, layout weekLayout) {
	for _, l := range lessons {
		if l.Date != date || l.Type == model.LessonTypeCancelled {
			continue
		}
		start, ok := availability.StoredClockMinutes(l.Time)
		if !ok {
			continue
		}
		drawLesson(dc, l, start, duration, x, y, layout)
	}
}

func drawLesson(dc *gg.Context, l model.Lesson, start, duration int, x, y float64, layout weekLayout) {
	top := layout.yFor(y, start)
	height := layout.yFor(y, start+duration) - top
	if height < minSlotHeight {
		height = minSlotHeight
	}

	fill := lessonColor
	if l.Type == model.LessonTypeRescheduled {
		fill = rescheduledColor
	}
	width := float64(layout.dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, top+2+shadowOffset, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(lessonTextColor)
	txtX := x + dayPaddingX + 6
	txtY := top + 16
	dc.DrawStringAnchored(availability.FormatClock(start), txtX, txtY, 0, 0)

	if l.Student != "" && height > 30 {
		name := []rune(l.Student)
		if len(name) > 16 {
			name = append(name[:13], []rune("...")...)
		}
		loadFont(dc, slotTimeFontSize-2, FontStyleDefault)
		dc.SetColor(slotTextColor)
		dc.DrawStringAnchored(string(name), txtX, txtY+15, 0, 0)
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawCurrentTimeLine(dc *gg.Context, week availability.Week, now time.Time, layout weekLayout) {
	today := availability.FormatDate(now)
	if today < week.Start || today > week.End {
		return
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes < layout.hours.start*60 || minutes > (layout.hours.start+layout.hours.total)*60 {
		return
	}

	lineY := layout.yFor(float64(headerHeight), minutes)
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), lineY, float64(leftLabelsWidth+totalDaysInWeek*layout.dayWidth), lineY)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, layout weekLayout) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*layout.dayWidth + 10)
	legendY := float64(imageHeight) - 130.0

	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободное окно", freeColor},
		{"Урок", lessonColor},
		{"Перенесён", rescheduledColor},
		{"Регулярный", regularColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}
