package model

import "fmt"

// WorkHours окно рабочего дня в часах, [Start, End)
type WorkHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Settings настройки преподавателя
type Settings struct {
	TeacherName    string    `json:"teacherName"`
	WorkHours      WorkHours `json:"workHours"`
	TelegramChatID int64     `json:"telegramChatId,omitempty"`
}

// DefaultSettings настройки, которые создаются при первом обращении
func DefaultSettings(teacherID string, hours WorkHours) *Settings {
	return &Settings{
		TeacherName: fmt.Sprintf("Преподаватель %s", teacherID),
		WorkHours:   hours,
	}
}

// SettingsPatch частичное обновление настроек
type SettingsPatch struct {
	TeacherName    *string    `json:"teacherName"`
	WorkHours      *WorkHours `json:"workHours"`
	TelegramChatID *int64     `json:"telegramChatId"`
}

// Apply накладывает заданные поля поверх настроек
func (p SettingsPatch) Apply(s *Settings) {
	if p.TeacherName != nil {
		s.TeacherName = *p.TeacherName
	}
	if p.WorkHours != nil {
		s.WorkHours = *p.WorkHours
	}
	if p.TelegramChatID != nil {
		s.TelegramChatID = *p.TelegramChatID
	}
}
