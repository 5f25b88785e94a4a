package services

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"techwiz/internal/apperrors"
	"techwiz/internal/authz"
	"techwiz/internal/models"
	"techwiz/internal/repositories"
	"techwiz/internal/utils"
)

const minPasswordLength = 8

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Phone     string
	Address   string
}

type UserService interface {
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(input CreateUserInput) (*models.User, error)
	Update(user *models.User) error
	SoftDelete(id int) error
	List(role, nameFilter string, limit, offset int) ([]*models.User, error)
	Count(role string) (int, error)

	VerifyPassword(user *models.User, plaintext string) bool
	SetPassword(user *models.User, plaintext string) error
	ChangePassword(user *models.User, oldPassword, newPassword string) error
	TouchLastAccessed(userID int) error
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(utils.NormalizeEmail(email))
}

func (s *userService) Create(input CreateUserInput) (*models.User, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" {
		return nil, &apperrors.MissingFieldError{Field: "email"}
	}
	role := input.Role
	if role == "" {
		role = authz.RoleStudent
	}
	if !authz.IsValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if violations := validatePasswordPolicy(input.Password); len(violations) > 0 {
		return nil, &apperrors.PasswordPolicyError{Violations: violations}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     utils.UsernameFromEmail(email),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        input.Phone,
		Address:      input.Address,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(user *models.User) error {
	user.Email = utils.NormalizeEmail(user.Email)
	return s.repo.Update(user)
}

func (s *userService) SoftDelete(id int) error {
	return s.repo.SoftDelete(id)
}

func (s *userService) List(role, nameFilter string, limit, offset int) ([]*models.User, error) {
	return s.repo.List(role, nameFilter, limit, offset)
}

func (s *userService) Count(role string) (int, error) {
	return s.repo.Count(role)
}

func (s *userService) VerifyPassword(user *models.User, plaintext string) bool {
	ph := strings.TrimSpace(user.PasswordHash)
	if ph == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(ph), []byte(plaintext)) == nil
}

func (s *userService) SetPassword(user *models.User, plaintext string) error {
	if violations := validatePasswordPolicy(plaintext); len(violations) > 0 {
		return &apperrors.PasswordPolicyError{Violations: violations}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}

func (s *userService) ChangePassword(user *models.User, oldPassword, newPassword string) error {
	if !s.VerifyPassword(user, oldPassword) {
		return apperrors.ErrInvalidPassword
	}
	return s.SetPassword(user, newPassword)
}

func (s *userService) TouchLastAccessed(userID int) error {
	return s.repo.TouchLastAccessed(userID)
}

func validatePasswordPolicy(password string) []string {
	var violations []string
	if len(password) < minPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		violations = append(violations, "password must contain at least one letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one digit")
	}
	return violations
}
