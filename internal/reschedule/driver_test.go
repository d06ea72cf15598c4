package reschedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

type fakeCollaborator struct {
	upcoming   []model.UpcomingLesson
	dates      []string
	slots      map[string][]model.TimeSlot
	submitErr  error
	weeksAhead int
	submitted  []model.RescheduleRequest
	lessonIDs  []string
}

func (f *fakeCollaborator) Upcoming(context.Context, string) (*model.UpcomingLessons, error) {
	return &model.UpcomingLessons{Lessons: f.upcoming}, nil
}

func (f *fakeCollaborator) AvailableDates(_ context.Context, _ string, weeksAhead int) (*model.AvailableDates, error) {
	f.weeksAhead = weeksAhead
	res := &model.AvailableDates{}
	for _, d := range f.dates {
		res.AvailableDates = append(res.AvailableDates, model.AvailableDate{Date: d})
	}
	return res, nil
}

func (f *fakeCollaborator) TimeSlots(_ context.Context, _ string, date string) (*model.TimeSlots, error) {
	return &model.TimeSlots{Date: date, TimeSlots: f.slots[date]}, nil
}

func (f *fakeCollaborator) Reschedule(_ context.Context, _ string, lessonID string, req model.RescheduleRequest) (*model.RescheduleResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.lessonIDs = append(f.lessonIDs, lessonID)
	f.submitted = append(f.submitted, req)
	return &model.RescheduleResult{Message: "Урок успешно перенесён"}, nil
}

func TestDriver_FullFlow(t *testing.T) {
	collab := &fakeCollaborator{
		upcoming: []model.UpcomingLesson{{ID: "l1"}},
		dates:    []string{"2024-01-17"},
		slots:    map[string][]model.TimeSlot{"2024-01-17": {{Time: "11:00", IsAvailable: true}}},
	}
	d := NewDriver(collab, 3, zap.NewNop())
	ctx := context.Background()

	s, ui := d.Dispatch(ctx, "s1", State{Step: StepClosed}, Open{})
	require.Equal(t, StepChoosingTarget, s.Step)
	assert.Empty(t, ui)

	s, _ = d.Dispatch(ctx, "s1", s, SelectScope{Scope: model.TransferRegular})
	s, _ = d.Dispatch(ctx, "s1", s, Next{})
	assert.Equal(t, []string{"2024-01-17"}, s.Dates)
	assert.Equal(t, 3, collab.weeksAhead)

	s, _ = d.Dispatch(ctx, "s1", s, SelectDate{Date: "2024-01-17"})
	require.Len(t, s.Slots, 1)

	s, _ = d.Dispatch(ctx, "s1", s, SelectTime{Time: "11:00"})
	s, ui = d.Dispatch(ctx, "s1", s, Submit{})

	assert.Equal(t, StepClosed, s.Step)
	assert.Equal(t, []Effect{ShowMessage{Text: "Урок успешно перенесён"}, RefreshLessons{}}, ui)
	assert.Equal(t, []string{"l1"}, collab.lessonIDs)
	assert.Equal(t, "2024-01-17T11:00:00", collab.submitted[0].NewStartTime)
	assert.True(t, collab.submitted[0].RescheduleSeries)
}

func TestDriver_SubmitFailure(t *testing.T) {
	collab := &fakeCollaborator{
		upcoming:  []model.UpcomingLesson{{ID: "l1"}},
		dates:     []string{"2024-01-17"},
		slots:     map[string][]model.TimeSlot{"2024-01-17": {{Time: "11:00", IsAvailable: true}}},
		submitErr: &model.NetworkError{Op: "reschedule", StatusCode: 502},
	}
	d := NewDriver(collab, 0, zap.NewNop())
	ctx := context.Background()

	s := State{Step: StepClosed}
	for _, ev := range []Event{Open{}, SelectScope{Scope: model.TransferNearest}, Next{}, SelectDate{Date: "2024-01-17"}, SelectTime{Time: "11:00"}} {
		s, _ = d.Dispatch(ctx, "s1", s, ev)
	}

	s, ui := d.Dispatch(ctx, "s1", s, Submit{})
	assert.Equal(t, StepConfirmed, s.Step)
	assert.Equal(t, []Effect{ShowMessage{Text: MsgSubmitFailed}}, ui)
	assert.Equal(t, 2, collab.weeksAhead)
}
