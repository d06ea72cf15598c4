package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/students/s1/lessons/upcoming", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.UpcomingLessons{Lessons: []model.UpcomingLesson{{ID: "l1", TeacherName: "Мария"}}})
	})
	mux.HandleFunc("/api/v1/students/s1/availability/dates", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("weeks_ahead"))
		json.NewEncoder(w).Encode(model.AvailableDates{AvailableDates: []model.AvailableDate{{Date: "2024-01-17"}}})
	})
	mux.HandleFunc("/api/v1/students/s1/availability/slots", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.TimeSlots{
			Date:      r.URL.Query().Get("date"),
			TimeSlots: []model.TimeSlot{{Time: "10:00", IsAvailable: true}},
		})
	})
	mux.HandleFunc("/api/v1/students/s1/availability/weekly", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.WeeklyAvailability{StudentBusy: []model.Interval{{Start: "a", End: "b"}}})
	})
	mux.HandleFunc("/api/v1/students/s1/lessons/l1/reschedule", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.RescheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2024-01-17T10:00:00", req.NewStartTime)
		assert.True(t, req.RescheduleSeries)

		json.NewEncoder(w).Encode(model.RescheduleResult{Message: "ok"})
	})
	mux.HandleFunc("/api/v1/students/s1/lessons/missing/reschedule", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Урок не найден"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Calls(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/", nil)
	ctx := context.Background()

	upcoming, err := c.Upcoming(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "l1", upcoming.Lessons[0].ID)

	dates, err := c.AvailableDates(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-17", dates.AvailableDates[0].Date)

	slots, err := c.TimeSlots(ctx, "s1", "2024-01-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-17", slots.Date)
	assert.True(t, slots.TimeSlots[0].IsAvailable)

	weekly, err := c.Availability(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, weekly.StudentBusy, 1)

	res, err := c.Reschedule(ctx, "s1", "l1", model.RescheduleRequest{
		NewStartTime:     "2024-01-17T10:00:00",
		TransferType:     model.TransferRegular,
		RescheduleSeries: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
}

func TestClient_StatusErrorIsNetworkError(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	_, err := c.Reschedule(context.Background(), "s1", "missing", model.RescheduleRequest{})
	require.Error(t, err)

	var ne *model.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusNotFound, ne.StatusCode)
	assert.Equal(t, "Урок не найден", ne.Err.Error())
}

func TestClient_TransportErrorIsNetworkError(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Upcoming(context.Background(), "s1")
	assert.True(t, model.IsNetwork(err))
}
