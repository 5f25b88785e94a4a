package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

// resetTokenSalt отделяет подпись reset-токенов от любых других
// применений секрета.
const resetTokenSalt = "user-reset-password"

// ResetService — подписанные, ограниченные по времени reset-токены.
// Валидность чисто криптографическая: подпись плюс max-age, без строки в БД.
// Намеренно не использует JWT-сервис.
type ResetService struct {
	secret          []byte
	maxAge          time.Duration
	allowedHostname string
	users           UserService
	emails          EmailService
}

func NewResetService(secret []byte, maxAge time.Duration, allowedHostname string, users UserService, emails EmailService) *ResetService {
	return &ResetService{
		secret:          secret,
		maxAge:          maxAge,
		allowedHostname: allowedHostname,
		users:           users,
		emails:          emails,
	}
}

// SendResetEmail шлёт письмо со ссылкой сброса. Несуществующий email
// намеренно не является ошибкой — не раскрываем, есть ли аккаунт.
func (s *ResetService) SendResetEmail(email, baseURL string) error {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Hostname() != s.allowedHostname {
		return fmt.Errorf("%w: %q", apperrors.ErrHostnameNotAllowed, baseURL)
	}

	user, err := s.users.GetByEmail(email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		log.Printf("[reset][send] no user for requested email, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	token := s.signToken(user.ID, time.Now())
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	resetURL := baseURL + token

	go func() {
		if err := s.emails.SendPasswordResetEmail(user.Email, resetURL); err != nil {
			log.Printf("[reset][send] warning: failed to send reset email to %s: %v", user.Email, err)
		}
	}()
	return nil
}

// ResetPassword меняет пароль, если токен подлинный и не старше max-age.
func (s *ResetService) ResetPassword(token, password string) (*models.User, error) {
	userID, err := s.verifyToken(token, time.Now())
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPassword(user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// Формат токена: base64url(userID:issuedUnix) + "." + base64url(HMAC-SHA256).
func (s *ResetService) signToken(userID int, now time.Time) string {
	payload := fmt.Sprintf("%d:%d", userID, now.Unix())
	sig := s.mac(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}

func (s *ResetService) verifyToken(token string, now time.Time) (int, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return 0, apperrors.ErrBadSignature
	}
	payloadRaw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return 0, apperrors.ErrBadSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, apperrors.ErrBadSignature
	}
	if !hmac.Equal(sig, s.mac(string(payloadRaw))) {
		return 0, apperrors.ErrBadSignature
	}

	fields := strings.Split(string(payloadRaw), ":")
	if len(fields) != 2 {
		return 0, apperrors.ErrBadSignature
	}
	userID, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, apperrors.ErrBadSignature
	}
	issuedUnix, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, apperrors.ErrBadSignature
	}

	issued := time.Unix(issuedUnix, 0)
	if issued.After(now) || now.Sub(issued) > s.maxAge {
		return 0, apperrors.ErrSignatureExpired
	}
	return userID, nil
}

func (s *ResetService) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(resetTokenSalt + ":" + payload))
	return h.Sum(nil)
}
