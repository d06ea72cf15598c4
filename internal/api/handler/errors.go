package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// httpStatus сопоставляет доменные ошибки с HTTP статусами
func httpStatus(err error) int {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет {"error": ...}. Внутренние ошибки наружу не отдаются,
// они попадают в c.Errors и логируются middleware.
func respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = "Не найдено"
		if errors.Is(err, model.ErrNotEnrolled) {
			msg = "Ученик не привязан к преподавателю"
		}
	case http.StatusInternalServerError:
		_ = c.Error(err)
		msg = "Внутренняя ошибка сервера"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// dayParam дата из query, сегодня если не задана
func dayParam(c *gin.Context, key string, now func() time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return availability.DateOf(now()), true
	}
	day, err := availability.ParseDate(raw)
	if err != nil {
		respondError(c, err)
		return time.Time{}, false
	}
	return day, true
}
