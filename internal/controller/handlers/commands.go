package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_calendar/internal/export"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

// HandleStart обрабатывает /start. "/start <код>" привязывает ученика
// к преподавателю с этим кодом.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	studentID := StudentID(update.Message.From)

	_, teacherID, _ := strings.Cut(update.Message.Text, " ")
	teacherID = strings.TrimSpace(teacherID)
	if teacherID != "" {
		if _, err := h.students.Enroll(ctx, studentID, teacherID); err != nil {
			h.logger.Error("Failed to enroll student",
				zap.String("student_id", studentID),
				zap.String("teacher_id", teacherID),
				zap.Error(err),
			)
			h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
			return
		}

		name := teacherID
		if settings, err := h.availability.Settings(ctx, teacherID); err == nil {
			name = settings.TeacherName
		}
		h.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"✅ Вы записаны к преподавателю <b>%s</b>\n\n"+
				"/lessons - Ближайшие уроки\n"+
				"/reschedule - Перенести урок",
			html.EscapeString(name),
		), nil)
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно посмотреть свои уроки и перенести их на свободное время преподавателя.\n\n"+
			"Доступные команды:\n"+
			"/lessons - Ближайшие уроки\n"+
			"/week - Расписание на неделю\n"+
			"/reschedule - Перенести урок\n"+
			"/help - Справка\n\n"+
			"Ваш код ученика: <code>%s</code>",
		html.EscapeString(update.Message.From.FirstName),
		studentID,
	)
	h.sendMessage(ctx, b, chatID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start &lt;код&gt; - Привязаться к преподавателю\n" +
		"/lessons - Ближайшие уроки\n" +
		"/week - Занятость преподавателя на неделю\n" +
		"/reschedule - Перенести урок\n" +
		"/cancel - Отменить перенос\n" +
		"/help - Показать эту справку\n\n" +
		"Перенести можно ближайший урок, выбранный урок или всю серию регулярных уроков. " +
		"Доступны только окна, которые преподаватель отметил свободными."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleLessons обрабатывает команду /lessons
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.sendUpcoming(ctx, b, update.Message.Chat.ID, StudentID(update.Message.From))
}

// sendUpcoming список ближайших уроков с кнопкой переноса у каждого
func (h *Handlers) sendUpcoming(ctx context.Context, b *bot.Bot, chatID int64, studentID string) {
	upcoming, err := h.students.Upcoming(ctx, studentID)
	if err != nil {
		h.logger.Error("Failed to get upcoming lessons", zap.String("student_id", studentID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
		return
	}

	text, kb := upcomingScreen(upcoming.Lessons)
	h.sendMessage(ctx, b, chatID, text, kb)
}

func upcomingScreen(lessons []model.UpcomingLesson) (string, *models.InlineKeyboardMarkup) {
	if len(lessons) == 0 {
		return "📭 У вас нет предстоящих уроков", nil
	}

	var sb strings.Builder
	kb := keyboard.NewBuilder()
	sb.WriteString("<b>📅 Ближайшие уроки</b>\n\n")
	for i, l := range lessons {
		regular := ""
		if l.IsRegular {
			regular = " 🔁"
		}
		fmt.Fprintf(&sb, "%d. %s%s, %s\n", i+1, StartLabel(l.StartTime), regular, html.EscapeString(l.TeacherName))
		kb.Row(keyboard.Button("🔄 Перенести "+StartLabel(l.StartTime), OpenLesson+l.ID))
	}
	sb.WriteString("\n🔁 регулярный урок")
	return sb.String(), kb.Build()
}

// HandleWeek отправляет картинку с занятостью преподавателя на текущую неделю.
// Подписаны только уроки самого ученика.
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	studentID := StudentID(update.Message.From)

	teacherID, err := h.students.TeacherOf(ctx, studentID)
	if err != nil {
		h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
		return
	}

	now := h.now()
	week, err := h.availability.WeekGrid(ctx, teacherID, now)
	if err != nil {
		h.logger.Error("Failed to build week grid", zap.String("teacher_id", teacherID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
		return
	}
	lessons, err := h.lessons.For(teacherID).ListRange(ctx, week.Start, week.End)
	if err != nil {
		h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
		return
	}

	own := make([]model.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.StudentID == studentID {
			own = append(own, l)
		}
	}

	imageData, err := export.RenderWeekPNG(*week, own, h.lessonDuration, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Не удалось построить расписание", nil)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:   fmt.Sprintf("🗓 Неделя %s - %s\nЗелёные окна свободны для переноса: /reschedule", DateLabel(week.Start), DateLabel(week.End)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleReschedule открывает мастер переноса с ближайшим уроком
func (h *Handlers) HandleReschedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	s, ui := h.apply(ctx, update.Message.From.ID, StudentID(update.Message.From), reschedule.Open{})
	text, kb, _, _ := Screen(s, ui)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleCancel обрабатывает команду /cancel - закрытие мастера переноса
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if !h.stateManager.Active(telegramID) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.apply(ctx, telegramID, StudentID(update.Message.From), reschedule.Cancel{})
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Перенос отменён.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}
