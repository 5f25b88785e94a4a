package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendSignupPinEmail(email string, code int) error
	SendLoginPinEmail(email string, code int) error
	SendPasswordResetEmail(email, resetURL string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendSignupPinEmail(email string, code int) error {
	body := fmt.Sprintf(`
		<h3>Confirm your account</h3>
		<p>Your verification code is: <strong>%06d</strong></p>
		<p>The code expires in a few minutes. If you did not request it, ignore this email.</p>
	`, code)
	return s.send(email, "Your Techwiz verification code", body)
}

func (s *emailService) SendLoginPinEmail(email string, code int) error {
	body := fmt.Sprintf(`
		<h3>Sign-in code</h3>
		<p>Use this code to sign in: <strong>%06d</strong></p>
		<p>If you did not try to sign in, change your password.</p>
	`, code)
	return s.send(email, "Your Techwiz sign-in code", body)
}

func (s *emailService) SendPasswordResetEmail(email, resetURL string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Follow this link to set a new password: <a href="%s">%s</a></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, resetURL, resetURL)
	return s.send(email, "Password reset request", body)
}

func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
