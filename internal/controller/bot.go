package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/controller/handlers"
	"github.com/Freeeeeet/lesson_calendar/internal/controller/state"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// Deps зависимости бота
type Deps struct {
	Students       *service.StudentService
	Availability   *service.AvailabilityService
	Lessons        *service.LessonService
	Driver         *reschedule.Driver
	LessonDuration int
	Location       *time.Location
}

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps Deps, logger *zap.Logger) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		deps.Students,
		deps.Availability,
		deps.Lessons,
		deps.Driver,
		stateManager,
		deps.LessonDuration,
		deps.Location,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// /start принимает код преподавателя после пробела
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lessons", bot.MatchTypeExact, c.handlers.HandleLessons)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reschedule", bot.MatchTypeExact, c.handlers.HandleReschedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Нажатия на кнопки мастера переноса
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, handlers.CallbackPrefix, bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "lessons", Description: "📅 Ближайшие уроки"},
		{Command: "week", Description: "🗓 Расписание на неделю"},
		{Command: "reschedule", Description: "🔄 Перенести урок"},
		{Command: "cancel", Description: "✖️ Отменить перенос"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
