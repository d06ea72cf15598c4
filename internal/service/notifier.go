package service

import "context"

// RescheduleNotice уведомление преподавателю о переносе
type RescheduleNotice struct {
	TeacherID string
	Student   string
	OldDate   string
	OldTime   string
	NewDate   string
	NewTime   string
	Series    bool
	Moved     int
}

// Notifier доставляет уведомления преподавателю
type Notifier interface {
	NotifyReschedule(ctx context.Context, chatID int64, notice RescheduleNotice) error
}
