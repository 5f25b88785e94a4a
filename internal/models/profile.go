package models

import "time"

// Профили ответа логина: по одной явной форме на роль вместо
// динамического добавления полей по ходу сериализации.

type ProfileBase struct {
	ID             int        `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	Address        string     `json:"address,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// StudentProfile — базовый профиль плюс класс и родитель.
type StudentProfile struct {
	ProfileBase
	ClassID     int    `json:"class_id"`
	ClassName   string `json:"class_name"`
	ParentID    *int   `json:"parent_id,omitempty"`
	ParentName  string `json:"parent_name,omitempty"`
	ParentEmail string `json:"parent_email,omitempty"`
	ParentPhone string `json:"parent_phone,omitempty"`
}

type TeacherProfile struct{ ProfileBase }

type ParentProfile struct{ ProfileBase }

type AdminProfile struct{ ProfileBase }

func BaseProfileOf(u *User) ProfileBase {
	return ProfileBase{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role,
		AvatarURL:      u.AvatarURL,
		Address:        u.Address,
		DateOfBirth:    u.DateOfBirth,
		LastAccessedAt: u.LastAccessedAt,
	}
}
