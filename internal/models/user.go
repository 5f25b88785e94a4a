package models

import "time"

type User struct {
	ID           int        `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"` // не отдаём наружу
	Role         string     `json:"role"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`

	LastAccessedAt *time.Time `json:"-"`
	DeletedAt      *time.Time `json:"-"` // soft delete, в auth-флоу не снимается
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// PIN-вариант входа: код вместе с device_token, выданным на get-pin.
	Pin   *int   `json:"pin,omitempty"`
	Token string `json:"token,omitempty"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	DeviceToken  string `json:"device_token,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	Pin         *int   `json:"pin"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type SendResetPasswordEmailRequest struct {
	Email   string `json:"email"`
	BaseURL string `json:"base_url"`
}
