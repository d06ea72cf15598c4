package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

// HandleCallbackQuery обрабатывает нажатия кнопок мастера переноса
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	ev, ok := ParseCallback(callback.Data)
	if !ok {
		answerCallback(ctx, b, callback.ID, "❌ Неверный формат данных", true)
		return
	}
	msg := callbackMessage(callback)
	if msg == nil {
		answerCallback(ctx, b, callback.ID, "❌ Ошибка обработки сообщения", true)
		return
	}

	studentID := StudentID(&callback.From)
	s, ui := h.apply(ctx, callback.From.ID, studentID, ev)

	text, kb, notice, refresh := Screen(s, ui)
	h.editMessage(ctx, b, msg, text, kb)
	answerCallback(ctx, b, callback.ID, notice, notice != "")

	if refresh {
		h.sendUpcoming(ctx, b, msg.Chat.ID, studentID)
	}
}

// apply прогоняет событие через мастер и сохраняет новое состояние.
// Open всегда начинает диалог заново.
func (h *Handlers) apply(ctx context.Context, telegramID int64, studentID string, ev reschedule.Event) (reschedule.State, []reschedule.Effect) {
	s := h.stateManager.Get(telegramID)
	if _, ok := ev.(reschedule.Open); ok {
		s, _ = reschedule.Transition(s, reschedule.Cancel{})
	}

	s, ui := h.driver.Dispatch(ctx, studentID, s, ev)
	h.stateManager.Set(telegramID, s)
	return s, ui
}
