package model

import "time"

// Enrollment связывает ученика с его преподавателем
type Enrollment struct {
	StudentID string    `json:"student_id"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}
