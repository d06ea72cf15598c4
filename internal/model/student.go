package model

// Данные виджета переноса уроков для ученика.
// Время передаётся как локальное "YYYY-MM-DDTHH:MM:SS" без часового пояса.

// TransferType выбранный тип переноса
type TransferType string

const (
	TransferNearest  TransferType = "nearest"
	TransferRegular  TransferType = "regular"
	TransferSpecific TransferType = "specific"
)

// Valid проверяет, что тип переноса известен
func (t TransferType) Valid() bool {
	switch t {
	case TransferNearest, TransferRegular, TransferSpecific:
		return true
	}
	return false
}

// Interval занятый промежуток времени
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CalendarLesson урок в недельном календаре ученика
type CalendarLesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsRegular   bool   `json:"is_regular"`
	TeacherName string `json:"teacher_name"`
}

// WeeklyAvailability ответ fetchAvailability
type WeeklyAvailability struct {
	TeacherBusy []Interval       `json:"teacher_busy"`
	StudentBusy []Interval       `json:"student_busy"`
	Lessons     []CalendarLesson `json:"lessons"`
}

// UpcomingLesson ближайший урок ученика
type UpcomingLesson struct {
	ID          string `json:"id"`
	TeacherName string `json:"teacher_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsRegular   bool   `json:"is_regular"`
}

// UpcomingLessons ответ fetchUpcomingLessons
type UpcomingLessons struct {
	Lessons []UpcomingLesson `json:"lessons"`
}

// AvailableDate дата, на которую можно перенести урок
type AvailableDate struct {
	Date string `json:"date"`
}

// AvailableDates ответ fetchAvailableDates
type AvailableDates struct {
	AvailableDates []AvailableDate `json:"available_dates"`
}

// TimeSlot время начала в выбранный день
type TimeSlot struct {
	Time        string `json:"time"`
	IsAvailable bool   `json:"is_available"`
}

// TimeSlots ответ fetchTimeSlots
type TimeSlots struct {
	Date      string     `json:"date,omitempty"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

// RescheduleRequest тело запроса на перенос
type RescheduleRequest struct {
	NewStartTime     string       `json:"new_start_time"`
	TransferType     TransferType `json:"transfer_type"`
	RescheduleSeries bool         `json:"reschedule_series"`
}

// RescheduleResult ответ на перенос
type RescheduleResult struct {
	Message string   `json:"message"`
	Lesson  *Lesson  `json:"lesson,omitempty"`
	Moved   []string `json:"moved,omitempty"`
}

// BookRequest запись ученика на свободное время
type BookRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	Student   string `json:"student"`
	Topic     string `json:"topic"`
	IsRegular bool   `json:"is_regular"`
}

// BookResult ответ на запись
type BookResult struct {
	Message string  `json:"message"`
	Lesson  *Lesson `json:"lesson"`
}
