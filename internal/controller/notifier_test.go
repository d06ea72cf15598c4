package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

type fakeSender struct {
	params []*bot.SendMessageParams
	err    error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.params = append(f.params, params)
	return &models.Message{}, f.err
}

func TestNotifyReschedule(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender)

	err := n.NotifyReschedule(context.Background(), 42, service.RescheduleNotice{
		Student: "Аня <3",
		OldDate: "2024-01-16", OldTime: "10:00",
		NewDate: "2024-01-17", NewTime: "12:00",
		Moved: 1,
	})
	require.NoError(t, err)
	require.Len(t, sender.params, 1)

	p := sender.params[0]
	assert.Equal(t, int64(42), p.ChatID)
	assert.Equal(t, models.ParseModeHTML, p.ParseMode)
	assert.Contains(t, p.Text, "Аня &lt;3")
	assert.Contains(t, p.Text, "Было: Вт 16.01 10:00")
	assert.Contains(t, p.Text, "Стало: Ср 17.01 12:00")
}

func TestFormatNoticeSeries(t *testing.T) {
	text := FormatNotice(service.RescheduleNotice{
		Student: "Петя",
		OldDate: "2024-01-16", OldTime: "10:00",
		NewDate: "2024-01-18", NewTime: "15:30",
		Series:  true,
		Moved:   4,
	})
	assert.Contains(t, text, "регулярные уроки")
	assert.Contains(t, text, "Перенесено уроков: 4")
}

func TestNotifyRescheduleError(t *testing.T) {
	n := NewNotifier(&fakeSender{err: errors.New("forbidden")})
	err := n.NotifyReschedule(context.Background(), 1, service.RescheduleNotice{})
	assert.ErrorContains(t, err, "forbidden")
}

var _ service.Notifier = (*Notifier)(nil)
