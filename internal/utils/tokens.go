package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewOpaqueToken — криптослучайная hex-строка. Используется и для
// device_token пин-кода, и везде, где нужен непрозрачный одноразовый секрет.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NormalizeEmail — единственная точка канонизации email.
// Любой lookup/insert по email обязан проходить через неё, иначе два
// по-разному записанных адреса разъедутся на два "разных" пользователя.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UsernameFromEmail — username по умолчанию: локальная часть адреса.
func UsernameFromEmail(email string) string {
	email = NormalizeEmail(email)
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
