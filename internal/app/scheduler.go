package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// FreeSlotPurger удаляет прошедшие отметки свободных окон
type FreeSlotPurger interface {
	PurgePastFreeSlots(ctx context.Context, before time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	purger FreeSlotPurger
	spec   string
	loc    *time.Location
	now    func() time.Time
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler создаёт планировщик. spec в формате cron, пустой означает "@daily".
// loc задаёт и расписание cron, и границу "сегодня" для очистки; nil означает UTC.
func NewScheduler(purger FreeSlotPurger, spec string, loc *time.Location, logger *zap.Logger) *Scheduler {
	if spec == "" {
		spec = "@daily"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		purger: purger,
		spec:   spec,
		loc:    loc,
		now:    time.Now,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Start регистрирует задачи и запускает cron. Первая очистка выполняется сразу.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.String("spec", s.spec))

	if _, err := s.cron.AddFunc(s.spec, func() { s.PurgeFreeSlots(ctx) }); err != nil {
		return fmt.Errorf("schedule free slot purge: %w", err)
	}

	go s.PurgeFreeSlots(ctx)
	s.cron.Start()
	return nil
}

// Stop останавливает cron и ждёт завершения запущенных задач
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// PurgeFreeSlots удаляет отметки свободных окон с датой раньше сегодняшней
func (s *Scheduler) PurgeFreeSlots(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	removed, err := s.purger.PurgePastFreeSlots(ctx, s.now().In(s.loc))
	if err != nil {
		s.logger.Error("Failed to purge free slots", zap.Error(err))
		return
	}

	s.logger.Info("Free slot purge completed", zap.Int("removed", removed))
}
