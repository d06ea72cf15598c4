// Package client HTTP клиент API виджета ученика
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// Client обращается к /api/v1/students/... сервиса календаря
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создаёт клиент. httpClient может быть nil. Таймаут не задаётся:
// запросы ограничиваются контекстом вызывающего.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Availability недельная занятость для календаря ученика
func (c *Client) Availability(ctx context.Context, studentID string) (*model.WeeklyAvailability, error) {
	var out model.WeeklyAvailability
	if err := c.get(ctx, "availability", c.studentPath(studentID, "availability/weekly"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upcoming ближайшие уроки ученика
func (c *Client) Upcoming(ctx context.Context, studentID string) (*model.UpcomingLessons, error) {
	var out model.UpcomingLessons
	if err := c.get(ctx, "upcoming lessons", c.studentPath(studentID, "lessons/upcoming"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableDates даты, доступные для переноса
func (c *Client) AvailableDates(ctx context.Context, studentID string, weeksAhead int) (*model.AvailableDates, error) {
	query := url.Values{}
	query.Set("weeks_ahead", strconv.Itoa(weeksAhead))

	var out model.AvailableDates
	if err := c.get(ctx, "available dates", c.studentPath(studentID, "availability/dates"), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TimeSlots время на дату
func (c *Client) TimeSlots(ctx context.Context, studentID, date string) (*model.TimeSlots, error) {
	query := url.Values{}
	query.Set("date", date)

	var out model.TimeSlots
	if err := c.get(ctx, "time slots", c.studentPath(studentID, "availability/slots"), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reschedule отправляет перенос урока
func (c *Client) Reschedule(ctx context.Context, studentID, lessonID string, req model.RescheduleRequest) (*model.RescheduleResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode reschedule request: %w", err)
	}

	path := c.studentPath(studentID, "lessons/"+url.PathEscape(lessonID)+"/reschedule")
	var out model.RescheduleResult
	if err := c.do(ctx, "reschedule", http.MethodPost, path, nil, bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) studentPath(studentID, rest string) string {
	return "/api/v1/students/" + url.PathEscape(studentID) + "/" + rest
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &model.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		var cause error
		if apiErr.Error != "" {
			cause = errors.New(apiErr.Error)
		}
		return &model.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: cause}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
