package handlers

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_calendar/internal/export"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

var scopeButtons = []struct {
	scope model.TransferType
	label string
}{
	{model.TransferNearest, "Ближайший"},
	{model.TransferRegular, "Регулярный"},
	{model.TransferSpecific, "Выбранный"},
}

// Render текст и клавиатура для текущего шага мастера.
// Для закрытого мастера клавиатура nil.
func Render(s reschedule.State) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	kb := keyboard.NewBuilder()

	switch s.Step {
	case reschedule.StepChoosingTarget:
		sb.WriteString("<b>🔄 Перенос урока</b>\n\n")
		sb.WriteString("Выберите урок и тип переноса, затем нажмите «Далее».\n")
		for _, l := range s.Lessons {
			label := StartLabel(l.StartTime)
			if l.IsRegular {
				label += " 🔁"
			}
			if l.ID == s.TargetID {
				label = "✅ " + label
			}
			kb.Row(keyboard.Button(label, SelectLesson+l.ID))
		}
		row := make([]models.InlineKeyboardButton, 0, len(scopeButtons))
		for _, opt := range scopeButtons {
			label := opt.label
			if opt.scope == s.Scope {
				label = "✅ " + label
			}
			row = append(row, keyboard.Button(label, SelectScope+string(opt.scope)))
		}
		kb.Row(row...)
		kb.Row(keyboard.Button("Далее ▶️", NextStep), keyboard.Button("✖️ Отмена", Cancel))

	case reschedule.StepChoosingDate:
		writeHeader(&sb, s)
		if len(s.Dates) == 0 {
			sb.WriteString("\n📭 Нет свободных дат на ближайшие недели\n")
		} else {
			sb.WriteString("\nВыберите дату:\n")
		}
		kb.Grid(dateButtons(s), 3)
		kb.Row(keyboard.Button("✖️ Отмена", Cancel))

	case reschedule.StepChoosingTime, reschedule.StepConfirmed:
		writeHeader(&sb, s)
		fmt.Fprintf(&sb, "📅 Дата: %s\n", DateLabel(s.Date))

		times := timeButtons(s)
		if len(times) == 0 {
			sb.WriteString("\n📭 На эту дату нет свободного времени, выберите другую\n")
		} else if s.Step == reschedule.StepChoosingTime {
			sb.WriteString("\nВыберите время:\n")
		}
		if s.Step == reschedule.StepConfirmed {
			fmt.Fprintf(&sb, "\n➡️ Новое время: <b>%s %s</b>\nПодтвердите перенос.\n", DateLabel(s.Date), s.Time)
		}

		kb.Grid(times, 4)
		kb.Grid(dateButtons(s), 3)
		if s.Step == reschedule.StepConfirmed {
			kb.Row(keyboard.Button("✅ Подтвердить", Submit), keyboard.Button("✖️ Отмена", Cancel))
		} else {
			kb.Row(keyboard.Button("✖️ Отмена", Cancel))
		}

	default:
		if s.Message == reschedule.MsgChooseLesson && len(s.Lessons) == 0 {
			return "📭 Нет предстоящих уроков для переноса", nil
		}
		if s.Message != "" {
			return "ℹ️ " + s.Message, nil
		}
		return "Перенос закрыт", nil
	}

	if s.Message != "" {
		fmt.Fprintf(&sb, "\n⚠️ %s", s.Message)
	}
	return sb.String(), kb.Build()
}

func writeHeader(sb *strings.Builder, s reschedule.State) {
	fmt.Fprintf(sb, "<b>🔄 %s</b>\n\n", s.Title)
	if l, ok := targetLesson(s); ok {
		fmt.Fprintf(sb, "Урок: %s\n", StartLabel(l.StartTime))
	}
}

func targetLesson(s reschedule.State) (model.UpcomingLesson, bool) {
	for _, l := range s.Lessons {
		if l.ID == s.TargetID {
			return l, true
		}
	}
	return model.UpcomingLesson{}, false
}

func dateButtons(s reschedule.State) []models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(s.Dates))
	for _, d := range s.Dates {
		label := DateLabel(d)
		if d == s.Date {
			label = "📅 " + label
		}
		buttons = append(buttons, keyboard.Button(label, SelectDate+d))
	}
	return buttons
}

// timeButtons только доступное время
func timeButtons(s reschedule.State) []models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if !slot.IsAvailable {
			continue
		}
		label := slot.Time
		if slot.Time == s.Time {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.Button(label, SelectTime+slot.Time))
	}
	return buttons
}

// DateLabel "Вт 16.01" для YYYY-MM-DD
func DateLabel(date string) string {
	d, err := availability.ParseDate(date)
	if err != nil {
		return date
	}
	return export.WeekdayShort(d.Weekday()) + " " + d.Format("02.01")
}

// StartLabel "Вт 16.01 10:00" для локального времени начала
func StartLabel(start string) string {
	date, clock, err := availability.SplitDateTime(start)
	if err != nil {
		return start
	}
	return DateLabel(date) + " " + clock
}

// Screen экран после перехода: текст, клавиатура, всплывающее сообщение
// и нужно ли заново показать список уроков
func Screen(s reschedule.State, ui []reschedule.Effect) (text string, kb *models.InlineKeyboardMarkup, notice string, refresh bool) {
	for _, effect := range ui {
		switch e := effect.(type) {
		case reschedule.ShowMessage:
			if notice == "" {
				notice = e.Text
			}
		case reschedule.RefreshLessons:
			refresh = true
		}
	}

	text, kb = Render(s)
	if s.Step == reschedule.StepClosed && s.Message == "" && notice != "" {
		text = "✅ " + notice
	}
	return text, kb, notice, refresh
}
