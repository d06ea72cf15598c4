package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/export"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

func main() {
	now := time.Now()
	monday := availability.WeekStart(now)
	day := func(offset int) string {
		return availability.FormatDate(monday.AddDate(0, 0, offset))
	}

	// Тестовые уроки
	lessons := []model.Lesson{
		{ID: "1", Date: day(0), Time: "10:00", Student: "Аня", Type: model.LessonTypeRegular},
		{ID: "2", Date: day(0), Time: "16:30", Student: "Петя", Type: model.LessonTypeSingle},
		{ID: "3", Date: day(1), Time: "12:00", Student: "Маша", Type: model.LessonTypeRescheduled},
		{ID: "4", Date: day(3), Time: "18:00", Student: "Олег", Type: model.LessonTypeCancelled},
		{ID: "5", Date: day(4), Time: "09:30", Student: "Аня", Type: model.LessonTypeRegular},
	}

	// Регулярная занятость: среда 14:00-16:00, суббота 10:00-11:00
	rules := []model.RegularLessonRule{
		{DayOfWeek: int(time.Wednesday), Time: "14:00", Duration: 120, Title: "Группа"},
		{DayOfWeek: int(time.Saturday), Time: "10:00", Duration: 60, Title: "Курсы"},
	}

	free := model.FreeSlots{}
	for _, key := range []string{
		availability.SlotKey(day(1), 15*60),
		availability.SlotKey(day(1), 15*60+30),
		availability.SlotKey(day(2), 11*60),
		availability.SlotKey(day(4), 13*60),
	} {
		free[key] = true
	}

	classifier := availability.NewClassifier(availability.LessonDuration)
	week := classifier.BuildWeek(now, now, model.WorkHours{Start: 9, End: 21}, lessons, rules, free)

	imageData, err := export.RenderWeekPNG(week, lessons, availability.LessonDuration, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Период: %s - %s\n", week.Start, week.End)
	fmt.Printf("📊 Уроков: %d, свободных окон: %d\n", len(lessons), len(free))
}
