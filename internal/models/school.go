package models

import "time"

type SchoolClass struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Student struct {
	ID       int  `json:"id"`
	UserID   int  `json:"user_id"`
	ClassID  int  `json:"class_id"`
	ParentID *int `json:"parent_id,omitempty"`
}

// StudentDetail — студент вместе с классом и родителем (если есть).
type StudentDetail struct {
	Student
	User      *User        `json:"user,omitempty"`
	Class     *SchoolClass `json:"class,omitempty"`
	Parent    *User        `json:"parent,omitempty"`
	ClassName string       `json:"class_name,omitempty"`
}

// ChildInfo — то, что родитель получает про ребёнка при входе (info_child).
type ChildInfo struct {
	StudentID   int        `json:"student_id"`
	UserID      int        `json:"user_id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	ClassName   string     `json:"class_name"`
	ClassID     int        `json:"class_id"`
}

// Виды оценок и их веса при подсчёте среднего.
const (
	GradeAssignment = "ASSIGNMENT"
	GradeMiddle     = "MIDDLE"
	GradeFinal      = "FINAL"
)

type Grade struct {
	ID        int64   `json:"id"`
	StudentID int     `json:"student_id"`
	Subject   string  `json:"subject"`
	Kind      string  `json:"kind"` // ASSIGNMENT | MIDDLE | FINAL
	Score     float64 `json:"score"`
}
