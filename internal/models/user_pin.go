package models

import "time"

// UserPin — одноразовый шестизначный код плюс непрозрачный device_token.
// Привязка к пользователю опциональна: при signup пользователя ещё нет,
// пин коррелируется только по device_token.
type UserPin struct {
	ID          int64     `json:"id"`
	Code        int       `json:"code"`
	DeviceToken string    `json:"device_token"`
	PinExpired  time.Time `json:"pin_expired"`
	UserID      *int      `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *UserPin) Expired(now time.Time) bool {
	return now.After(p.PinExpired)
}
