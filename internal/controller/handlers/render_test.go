package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

var lessons = []model.UpcomingLesson{
	{ID: "near", StartTime: "2024-01-16T10:00:00", TeacherName: "Мария"},
	{ID: "reg", StartTime: "2024-01-18T15:30:00", TeacherName: "Мария", IsRegular: true},
}

func callbackData(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Вт 16.01", DateLabel("2024-01-16"))
	assert.Equal(t, "bad", DateLabel("bad"))
	assert.Equal(t, "Чт 18.01 15:30", StartLabel("2024-01-18T15:30:00"))
}

func TestRenderChoosingTarget(t *testing.T) {
	s := reschedule.State{
		Step:     reschedule.StepChoosingTarget,
		Lessons:  lessons,
		TargetID: "near",
		Scope:    model.TransferNearest,
	}

	text, kb := Render(s)
	require.NotNil(t, kb)
	assert.Contains(t, text, "Перенос урока")
	assert.Equal(t, []string{
		"rs_lesson:near", "rs_lesson:reg",
		"rs_scope:nearest", "rs_scope:regular", "rs_scope:specific",
		"rs_next", "rs_cancel",
	}, callbackData(kb))
	assert.Equal(t, "✅ Вт 16.01 10:00", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Чт 18.01 15:30 🔁", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "✅ Ближайший", kb.InlineKeyboard[2][0].Text)

	s.Message = reschedule.MsgChooseFromList
	text, _ = Render(s)
	assert.Contains(t, text, "⚠️ "+reschedule.MsgChooseFromList)
}

func TestRenderChoosingDate(t *testing.T) {
	s := reschedule.State{
		Step:     reschedule.StepChoosingDate,
		Title:    "Перенос ближайшего урока",
		Lessons:  lessons,
		TargetID: "near",
		Dates:    []string{"2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19"},
	}

	text, kb := Render(s)
	assert.Contains(t, text, "Перенос ближайшего урока")
	assert.Contains(t, text, "Урок: Вт 16.01 10:00")
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Equal(t, "rs_date:2024-01-19", kb.InlineKeyboard[1][0].CallbackData)

	s.Dates = nil
	text, _ = Render(s)
	assert.Contains(t, text, "Нет свободных дат")
}

func TestRenderChoosingTimeShowsOnlyAvailable(t *testing.T) {
	s := reschedule.State{
		Step:     reschedule.StepChoosingTime,
		Title:    "Перенос выбранного урока",
		Lessons:  lessons,
		TargetID: "reg",
		Dates:    []string{"2024-01-17"},
		Date:     "2024-01-17",
		Slots: []model.TimeSlot{
			{Time: "09:00", IsAvailable: false},
			{Time: "09:30", IsAvailable: true},
			{Time: "12:00", IsAvailable: true},
		},
	}

	text, kb := Render(s)
	assert.Contains(t, text, "Дата: Ср 17.01")
	assert.Equal(t, []string{"rs_time:09:30", "rs_time:12:00", "rs_date:2024-01-17", "rs_cancel"}, callbackData(kb))
	assert.Equal(t, "📅 Ср 17.01", kb.InlineKeyboard[1][0].Text)

	s.Step = reschedule.StepConfirmed
	s.Time = "12:00"
	text, kb = Render(s)
	assert.Contains(t, text, "Новое время: <b>Ср 17.01 12:00</b>")
	assert.Equal(t, []string{"rs_time:09:30", "rs_time:12:00", "rs_date:2024-01-17", "rs_submit", "rs_cancel"}, callbackData(kb))
	assert.Equal(t, "✅ 12:00", kb.InlineKeyboard[0][1].Text)
}

func TestRenderClosed(t *testing.T) {
	text, kb := Render(reschedule.State{Step: reschedule.StepClosed, Message: reschedule.MsgChooseLesson})
	assert.Nil(t, kb)
	assert.Equal(t, "📭 Нет предстоящих уроков для переноса", text)

	text, _ = Render(reschedule.State{})
	assert.Equal(t, "Перенос закрыт", text)
}

func TestScreenAfterSuccess(t *testing.T) {
	ui := []reschedule.Effect{reschedule.ShowMessage{Text: "Урок успешно перенесён"}, reschedule.RefreshLessons{}}

	text, kb, notice, refresh := Screen(reschedule.State{Step: reschedule.StepClosed, NearestID: "near"}, ui)
	assert.Equal(t, "✅ Урок успешно перенесён", text)
	assert.Nil(t, kb)
	assert.Equal(t, "Урок успешно перенесён", notice)
	assert.True(t, refresh)
}

func TestScreenAfterFailureKeepsConfirmation(t *testing.T) {
	s := reschedule.State{
		Step:    reschedule.StepConfirmed,
		Title:   "Перенос ближайшего урока",
		Dates:   []string{"2024-01-17"},
		Date:    "2024-01-17",
		Time:    "12:00",
		Slots:   []model.TimeSlot{{Time: "12:00", IsAvailable: true}},
		Message: reschedule.MsgSubmitFailed,
	}
	ui := []reschedule.Effect{reschedule.ShowMessage{Text: reschedule.MsgSubmitFailed}}

	text, kb, notice, refresh := Screen(s, ui)
	assert.Contains(t, text, "⚠️ "+reschedule.MsgSubmitFailed)
	assert.Contains(t, callbackData(kb), "rs_submit")
	assert.Equal(t, reschedule.MsgSubmitFailed, notice)
	assert.False(t, refresh)
}

func TestUpcomingScreen(t *testing.T) {
	text, kb := upcomingScreen(nil)
	assert.Nil(t, kb)
	assert.Contains(t, text, "нет предстоящих")

	text, kb = upcomingScreen(lessons)
	assert.Contains(t, text, "1. Вт 16.01 10:00, Мария")
	assert.Contains(t, text, "2. Чт 18.01 15:30 🔁, Мария")
	assert.Equal(t, []string{"rs_open:near", "rs_open:reg"}, callbackData(kb))
}
