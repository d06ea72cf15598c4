package model

import (
	"errors"
	"fmt"
)

// ErrNotFound запрошенный урок или документ отсутствует. Не фатально,
// вызывающий код обязан проверить.
var ErrNotFound = errors.New("not found")

// ErrNotEnrolled ученик не привязан ни к одному преподавателю
var ErrNotEnrolled = fmt.Errorf("student is not enrolled: %w", ErrNotFound)

// ValidationError некорректный ввод, блокирует действие
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError создаёт ошибку валидации
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation проверяет, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NetworkError ошибка обращения к внешнему API
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetwork проверяет, является ли ошибка сетевой
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
