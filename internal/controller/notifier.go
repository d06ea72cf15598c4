package controller

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/lesson_calendar/internal/controller/handlers"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// MessageSender часть *bot.Bot, нужная для уведомлений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier отправляет преподавателю уведомления о переносах в Telegram
type Notifier struct {
	sender MessageSender
}

// NewNotifier создаёт уведомитель
func NewNotifier(sender MessageSender) *Notifier {
	return &Notifier{sender: sender}
}

// NotifyReschedule реализует service.Notifier
func (n *Notifier) NotifyReschedule(ctx context.Context, chatID int64, notice service.RescheduleNotice) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      FormatNotice(notice),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send reschedule notice: %w", err)
	}
	return nil
}

// FormatNotice текст уведомления о переносе
func FormatNotice(notice service.RescheduleNotice) string {
	student := html.EscapeString(notice.Student)
	if student == "" {
		student = "Ученик"
	}

	if notice.Series {
		return fmt.Sprintf(
			"🔁 <b>%s</b> перенёс(ла) регулярные уроки\n\n"+
				"Было: %s %s\n"+
				"Стало: %s %s\n"+
				"Перенесено уроков: %d",
			student,
			handlers.DateLabel(notice.OldDate), notice.OldTime,
			handlers.DateLabel(notice.NewDate), notice.NewTime,
			notice.Moved,
		)
	}

	return fmt.Sprintf(
		"🔄 <b>%s</b> перенёс(ла) урок\n\n"+
			"Было: %s %s\n"+
			"Стало: %s %s",
		student,
		handlers.DateLabel(notice.OldDate), notice.OldTime,
		handlers.DateLabel(notice.NewDate), notice.NewTime,
	)
}
