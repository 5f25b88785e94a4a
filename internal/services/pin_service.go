package services

import (
	"log"
	"math/rand"
	"time"

	"techwiz/internal/models"
	"techwiz/internal/repositories"
	"techwiz/internal/utils"
)

const defaultPinTTL = 5 * time.Minute

// PinService выдаёт и принимает одноразовые пин-коды. Код — шесть цифр,
// равномерно из [100000, 999999]; device_token — криптослучайный секрет,
// одна схема и для signup-, и для login-пинов.
type PinService struct {
	repo   repositories.PinRepository
	emails EmailService
	ttl    time.Duration
}

func NewPinService(repo repositories.PinRepository, emails EmailService, ttl time.Duration) *PinService {
	if ttl <= 0 {
		ttl = defaultPinTTL
	}
	return &PinService{repo: repo, emails: emails, ttl: ttl}
}

// IssueSignupPin — пользователя ещё нет, пин живёт только с device_token.
// Код уходит письмом (fire-and-forget), device_token — в ответе запроса.
func (s *PinService) IssueSignupPin(email string) (*models.UserPin, error) {
	email = utils.NormalizeEmail(email)
	pin, err := s.issue(nil)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emails.SendSignupPinEmail(email, pin.Code); err != nil {
			log.Printf("[pin][issue] warning: failed to send signup pin email to %s: %v", email, err)
		}
	}()
	return pin, nil
}

// IssueLoginPin — пин для существующего пользователя.
func (s *PinService) IssueLoginPin(user *models.User) (*models.UserPin, error) {
	pin, err := s.issue(&user.ID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emails.SendLoginPinEmail(user.Email, pin.Code); err != nil {
			log.Printf("[pin][issue] warning: failed to send login pin email to %s: %v", user.Email, err)
		}
	}()
	return pin, nil
}

// Claim — одноразовое изъятие пина. Просроченный пин остаётся в таблице
// (ErrPinExpired), удаляется только успешно предъявленный.
func (s *PinService) Claim(code int, deviceToken string) (*models.UserPin, error) {
	return s.repo.Claim(code, deviceToken, time.Now())
}

// Inspect — проверка без изъятия: forgot-password сначала валидирует пин,
// меняет пароль и только потом изымает.
func (s *PinService) Inspect(code int, deviceToken string) (*models.UserPin, error) {
	return s.repo.Inspect(code, deviceToken, time.Now())
}

func (s *PinService) issue(userID *int) (*models.UserPin, error) {
	deviceToken, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	pin := &models.UserPin{
		Code:        100000 + rand.Intn(900000),
		DeviceToken: deviceToken,
		PinExpired:  time.Now().Add(s.ttl),
		UserID:      userID,
	}
	if err := s.repo.Create(pin); err != nil {
		return nil, err
	}
	return pin, nil
}
