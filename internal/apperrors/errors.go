package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")

	ErrPinNotExists = errors.New("pin not exists")
	ErrPinExpired   = errors.New("pin expired")

	ErrBadSignature     = errors.New("bad token signature")
	ErrSignatureExpired = errors.New("token signature expired")

	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenRevoked = errors.New("token is revoked")

	ErrHostnameNotAllowed = errors.New("hostname is not allowed")
)

// PasswordPolicyError — новый пароль не прошёл проверку политики.
// Несём список нарушенных правил целиком, как их показываем клиенту.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not match validation: " + strings.Join(e.Violations, "; ")
}

// MissingFieldError — обязательное поле запроса отсутствует.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
