package model

import "time"

// RegularLessonRule еженедельный блок занятости преподавателя
type RegularLessonRule struct {
	DayOfWeek int       `json:"dayOfWeek"` // 0 = Sunday, 6 = Saturday
	Time      string    `json:"time"`      // HH:MM, кратно 30 минутам
	Duration  int       `json:"duration"`  // минуты, кратно 30
	Title     string    `json:"title"`
	AddedAt   time.Time `json:"addedAt"`
}

// RegularLessonInput данные формы "добавить регулярный урок"
type RegularLessonInput struct {
	DayOfWeek *int   `json:"dayOfWeek"`
	Time      string `json:"time"`
	Duration  int    `json:"duration"`
	Title     string `json:"title"`
}

// FreeSlots отметки "свободное окно" по ключу YYYY-MM-DD_HH:MM.
// Наличие ключа означает "свободно", false никогда не хранится.
type FreeSlots map[string]bool

// AvailabilitySnapshot занятость преподавателя, сохраняется целиком
type AvailabilitySnapshot struct {
	RegularLessons []RegularLessonRule `json:"regularLessons"`
	FreeSlots      FreeSlots           `json:"freeSlots"`
}

// NewAvailabilitySnapshot возвращает пустую занятость
func NewAvailabilitySnapshot() *AvailabilitySnapshot {
	return &AvailabilitySnapshot{
		RegularLessons: []RegularLessonRule{},
		FreeSlots:      FreeSlots{},
	}
}

// CellStatus статус получасовой ячейки сетки
type CellStatus string

const (
	CellLessonBusy  CellStatus = "lesson-busy"
	CellRegularBusy CellStatus = "regular-busy"
	CellFree        CellStatus = "free"
	CellAvailable   CellStatus = "available"
)

// IsBusy занята ли ячейка уроком или регулярным блоком
func (s CellStatus) IsBusy() bool {
	return s == CellLessonBusy || s == CellRegularBusy
}
