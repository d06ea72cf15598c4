// Package reschedule описывает мастер переноса урока как чистую функцию
// перехода: (состояние, событие) -> (новое состояние, эффекты).
// Эффекты выполняет Driver, результаты возвращаются событиями.
package reschedule

import (
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// Step шаг мастера
type Step string

const (
	StepClosed         Step = "closed"
	StepChoosingTarget Step = "choosing_target"
	StepChoosingDate   Step = "choosing_date"
	StepChoosingTime   Step = "choosing_time"
	StepConfirmed      Step = "confirmed"
)

// Сообщения пользователю
const (
	MsgChooseLesson    = "Выберите урок для переноса"
	MsgChooseScope     = "Выберите тип переноса"
	MsgChooseFromList  = "Выберите урок из списка"
	MsgChooseDate      = "Выберите дату из списка"
	MsgTimeUnavailable = "Это время недоступно"
	MsgChooseDateTime  = "Выберите дату и время"
	MsgDatesFailed     = "Ошибка загрузки дат"
	MsgSlotsFailed     = "Ошибка загрузки времени"
	MsgSubmitFailed    = "Ошибка при переносе урока"
	MsgRescheduled     = "Урок перенесен"
)

var scopeTitles = map[model.TransferType]string{
	model.TransferNearest:  "Перенос ближайшего урока",
	model.TransferRegular:  "Перенос регулярного урока",
	model.TransferSpecific: "Перенос выбранного урока",
}

// State состояние мастера. Значение, копируется при каждом переходе.
type State struct {
	Step  Step
	Scope model.TransferType
	// SelectedID урок, выбранный пользователем явно
	SelectedID string
	// NearestID ближайший предстоящий урок, переживает сброс
	NearestID string
	// TargetID урок, который будет перенесён
	TargetID string
	Lessons  []model.UpcomingLesson
	Dates    []string
	Date     string
	Slots    []model.TimeSlot
	Time     string

	Title      string
	Loading    bool
	Submitting bool
	// Message ошибка или подсказка последнего перехода
	Message string
}

// Event входное событие мастера
type Event interface{ isEvent() }

// Open пользователь открыл диалог; SelectedID может быть пустым
type Open struct{ SelectedID string }

// UpcomingLoaded список ближайших уроков получен
type UpcomingLoaded struct{ Lessons []model.UpcomingLesson }

// UpcomingFailed список ближайших уроков не загрузился
type UpcomingFailed struct{ Err error }

// SelectLesson выбор конкретного урока
type SelectLesson struct{ LessonID string }

// SelectScope выбор типа переноса
type SelectScope struct{ Scope model.TransferType }

// Next кнопка "Далее" на первом шаге
type Next struct{}

// DatesLoaded доступные даты получены
type DatesLoaded struct{ Dates []string }

// DatesFailed загрузка дат не удалась
type DatesFailed struct{ Err error }

// SelectDate выбор даты
type SelectDate struct{ Date string }

// SlotsLoaded время на дату получено
type SlotsLoaded struct {
	Date  string
	Slots []model.TimeSlot
}

// SlotsFailed загрузка времени не удалась
type SlotsFailed struct {
	Date string
	Err  error
}

// SelectTime выбор времени
type SelectTime struct{ Time string }

// Submit подтверждение переноса
type Submit struct{}

// SubmitSucceeded сервер принял перенос
type SubmitSucceeded struct{ Message string }

// SubmitFailed сервер отклонил перенос или недоступен
type SubmitFailed struct{ Err error }

// Cancel закрытие диалога на любом шаге
type Cancel struct{}

func (Open) isEvent()            {}
func (UpcomingLoaded) isEvent()  {}
func (UpcomingFailed) isEvent()  {}
func (SelectLesson) isEvent()    {}
func (SelectScope) isEvent()     {}
func (Next) isEvent()            {}
func (DatesLoaded) isEvent()     {}
func (DatesFailed) isEvent()     {}
func (SelectDate) isEvent()      {}
func (SlotsLoaded) isEvent()     {}
func (SlotsFailed) isEvent()     {}
func (SelectTime) isEvent()      {}
func (Submit) isEvent()          {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}
func (Cancel) isEvent()          {}

// Effect побочный эффект, который должен выполнить Driver или интерфейс
type Effect interface{ isEffect() }

// LoadUpcoming запросить ближайшие уроки
type LoadUpcoming struct{}

// LoadDates запросить доступные даты
type LoadDates struct{}

// LoadSlots запросить время на дату
type LoadSlots struct{ Date string }

// SubmitReschedule отправить запрос на перенос
type SubmitReschedule struct {
	LessonID string
	Request  model.RescheduleRequest
}

// ShowMessage показать пользователю сообщение
type ShowMessage struct{ Text string }

// RefreshLessons перерисовать список уроков после переноса
type RefreshLessons struct{}

func (LoadUpcoming) isEffect()     {}
func (LoadDates) isEffect()        {}
func (LoadSlots) isEffect()        {}
func (SubmitReschedule) isEffect() {}
func (ShowMessage) isEffect()      {}
func (RefreshLessons) isEffect()   {}

// Transition чистая функция перехода. Нулевое State означает закрытый
// диалог. Недопустимое событие оставляет шаг прежним.
func Transition(s State, ev Event) (State, []Effect) {
	if s.Step == "" {
		s.Step = StepClosed
	}
	if _, ok := ev.(Cancel); ok {
		return reset(s), nil
	}

	s.Message = ""

	switch e := ev.(type) {
	case Open:
		if s.Step != StepClosed {
			return s, nil
		}
		s = reset(s)
		s.SelectedID = e.SelectedID
		s.Loading = true
		return s, []Effect{LoadUpcoming{}}

	case UpcomingLoaded:
		return opened(s, e.Lessons)

	case UpcomingFailed:
		return opened(s, nil)

	case SelectLesson:
		if s.Step != StepChoosingTarget {
			return s, nil
		}
		s.SelectedID = e.LessonID
		s.TargetID = e.LessonID
		return s, nil

	case SelectScope:
		if s.Step != StepChoosingTarget {
			return s, nil
		}
		if !e.Scope.Valid() {
			s.Message = MsgChooseScope
			return s, nil
		}
		s.Scope = e.Scope
		if e.Scope == model.TransferNearest && s.NearestID != "" {
			s.TargetID = s.NearestID
		} else if s.SelectedID != "" {
			s.TargetID = s.SelectedID
		}
		return s, nil

	case Next:
		if s.Step != StepChoosingTarget {
			return s, nil
		}
		if s.Scope == "" {
			s.Message = MsgChooseScope
			return s, nil
		}
		if s.Scope == model.TransferSpecific && s.SelectedID == "" {
			s.Message = MsgChooseFromList
			return s, nil
		}
		if s.TargetID == "" {
			s.Message = MsgChooseLesson
			return s, nil
		}
		s.Step = StepChoosingDate
		s.Title = scopeTitles[s.Scope]
		s.Loading = true
		return s, []Effect{LoadDates{}}

	case DatesLoaded:
		if !s.active() {
			return s, nil
		}
		s.Loading = false
		s.Dates = append([]string{}, e.Dates...)
		return s, nil

	case DatesFailed:
		if !s.active() {
			return s, nil
		}
		s.Loading = false
		s.Dates = []string{}
		s.Message = MsgDatesFailed
		return s, []Effect{ShowMessage{Text: MsgDatesFailed}}

	case SelectDate:
		if s.Step != StepChoosingDate && s.Step != StepChoosingTime && s.Step != StepConfirmed {
			return s, nil
		}
		if !contains(s.Dates, e.Date) {
			s.Message = MsgChooseDate
			return s, nil
		}
		s.Step = StepChoosingTime
		s.Date = e.Date
		s.Time = ""
		s.Slots = nil
		s.Loading = true
		return s, []Effect{LoadSlots{Date: e.Date}}

	case SlotsLoaded:
		// ответ применяется, даже если пользователь уже выбрал другую дату
		if s.Step != StepChoosingTime && s.Step != StepConfirmed {
			return s, nil
		}
		s.Loading = false
		s.Slots = append([]model.TimeSlot{}, e.Slots...)
		return s, nil

	case SlotsFailed:
		if s.Step != StepChoosingTime && s.Step != StepConfirmed {
			return s, nil
		}
		s.Loading = false
		s.Slots = []model.TimeSlot{}
		s.Message = MsgSlotsFailed
		return s, []Effect{ShowMessage{Text: MsgSlotsFailed}}

	case SelectTime:
		if s.Step != StepChoosingTime && s.Step != StepConfirmed {
			return s, nil
		}
		if !slotAvailable(s.Slots, e.Time) {
			s.Message = MsgTimeUnavailable
			return s, nil
		}
		s.Time = e.Time
		s.Step = StepConfirmed
		return s, nil

	case Submit:
		if s.Step != StepConfirmed || s.Submitting {
			return s, nil
		}
		if s.Date == "" || s.Time == "" {
			s.Message = MsgChooseDateTime
			return s, nil
		}
		s.Submitting = true
		return s, []Effect{SubmitReschedule{
			LessonID: s.TargetID,
			Request: model.RescheduleRequest{
				NewStartTime:     s.Date + "T" + s.Time + ":00",
				TransferType:     s.Scope,
				RescheduleSeries: s.Scope == model.TransferRegular,
			},
		}}

	case SubmitSucceeded:
		if s.Step != StepConfirmed || !s.Submitting {
			return s, nil
		}
		text := e.Message
		if text == "" {
			text = MsgRescheduled
		}
		return reset(s), []Effect{ShowMessage{Text: text}, RefreshLessons{}}

	case SubmitFailed:
		if s.Step != StepConfirmed || !s.Submitting {
			return s, nil
		}
		s.Submitting = false
		s.Message = MsgSubmitFailed
		return s, []Effect{ShowMessage{Text: MsgSubmitFailed}}
	}

	return s, nil
}

// opened решает, можно ли открыть диалог после загрузки ближайших уроков
func opened(s State, lessons []model.UpcomingLesson) (State, []Effect) {
	if s.Step != StepClosed || !s.Loading {
		return s, nil
	}
	s.Loading = false
	s.Lessons = append([]model.UpcomingLesson{}, lessons...)
	s.NearestID = ""
	if len(lessons) > 0 {
		s.NearestID = lessons[0].ID
	}

	switch {
	case s.SelectedID != "":
		s.TargetID = s.SelectedID
	case s.NearestID != "":
		s.TargetID = s.NearestID
	default:
		s.Message = MsgChooseLesson
		return s, []Effect{ShowMessage{Text: MsgChooseLesson}}
	}

	s.Step = StepChoosingTarget
	return s, nil
}

// reset полный сброс выбора, известный ближайший урок сохраняется
func reset(s State) State {
	return State{Step: StepClosed, NearestID: s.NearestID, Lessons: s.Lessons}
}

func (s State) active() bool {
	return s.Step != StepClosed && s.Step != StepChoosingTarget
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func slotAvailable(slots []model.TimeSlot, t string) bool {
	for _, slot := range slots {
		if slot.Time == t {
			return slot.IsAvailable
		}
	}
	return false
}
