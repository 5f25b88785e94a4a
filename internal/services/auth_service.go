package services

import (
	"context"
	"errors"
	"log"

	"techwiz/internal/apperrors"
	"techwiz/internal/authz"
	"techwiz/internal/models"
	"techwiz/internal/repositories"
)

// SignInListener — дополнительные данные в ответ логина. Листенеры
// передаются явным списком при сборке сервиса; никакого глобального
// реестра.
type SignInListener interface {
	Key() string
	// Возвращает nil, если листенеру нечего добавить для этого пользователя.
	OnUserSignedIn(user *models.User) (any, error)
}

// LoginResult — профиль по роли, пара токенов и данные листенеров.
// Extra хендлер раскладывает в payload по ключам листенеров.
type LoginResult struct {
	User   any            `json:"user"`
	Tokens *TokenPair     `json:"tokens"`
	Extra  map[string]any `json:"-"`
}

// AuthService — оркестратор auth-флоу: login/signup/logout/сброс пароля.
// Сам ничего не хранит, вся работа идёт через Credential Store (users),
// PinService и TokenService.
type AuthService struct {
	users     UserService
	pins      *PinService
	tokens    *TokenService
	reset     *ResetService
	students  repositories.StudentRepository
	devices   repositories.DeviceTokenRepository
	listeners []SignInListener
}

func NewAuthService(
	users UserService,
	pins *PinService,
	tokens *TokenService,
	reset *ResetService,
	students repositories.StudentRepository,
	devices repositories.DeviceTokenRepository,
	listeners ...SignInListener,
) *AuthService {
	return &AuthService{
		users:     users,
		pins:      pins,
		tokens:    tokens,
		reset:     reset,
		students:  students,
		devices:   devices,
		listeners: listeners,
	}
}

// LoginByPassword: lookup по нормализованному email → bcrypt →
// токены → профиль по роли. last_accessed_at обновляется здесь,
// а не внутри Credential Store.
func (s *AuthService) LoginByPassword(email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if !s.users.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidPassword
	}
	return s.completeSignIn(user)
}

// LoginAdmin — как LoginByPassword, но не-админ неотличим от
// несуществующего пользователя.
func (s *AuthService) LoginAdmin(email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user.Role != authz.RoleAdmin {
		return nil, apperrors.ErrUserNotFound
	}
	if !s.users.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidPassword
	}
	return s.completeSignIn(user)
}

// LoginByPin: claim изымает пин атомарно, повторный вход по тому же коду
// даст ErrPinNotExists. Три вида отказа различимы для клиента:
// PinNotExists / PinExpired / UserNotFound.
func (s *AuthService) LoginByPin(email string, code int, deviceToken string) (*LoginResult, error) {
	if _, err := s.pins.Claim(code, deviceToken); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	return s.completeSignIn(user)
}

// Signup терпим к гонке двойной отправки: если email уже занят,
// возвращаем существующего пользователя, оба запроса получают токены.
func (s *AuthService) Signup(req models.SignupRequest) (*TokenPair, error) {
	for _, f := range []struct{ name, value string }{
		{"email", req.Email},
		{"password", req.Password},
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
	} {
		if f.value == "" {
			return nil, &apperrors.MissingFieldError{Field: f.name}
		}
	}

	user, err := s.users.Create(CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      authz.RoleStudent,
	})
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		user, err = s.users.GetByEmail(req.Email)
	}
	if err != nil {
		return nil, err
	}
	return s.tokens.Mint(user)
}

// Logout: refresh в blacklist; деактивация device_token — best-effort,
// с blacklist не транзакционна.
func (s *AuthService) Logout(ctx context.Context, userID int, refreshToken, deviceToken string) error {
	if err := s.tokens.Blacklist(ctx, refreshToken); err != nil {
		return err
	}
	if deviceToken != "" && userID != 0 {
		if err := s.devices.Deactivate(userID, deviceToken); err != nil {
			log.Printf("[auth][logout] warning: failed to deactivate device token for user %d: %v", userID, err)
		}
	}
	return nil
}

// ForgotPassword (PIN-вариант): пин сначала проверяется без изъятия —
// если новый пароль не пройдёт политику, пин остаётся пригодным для
// повторной попытки. Изъятие — последним шагом.
func (s *AuthService) ForgotPassword(req models.ForgotPasswordRequest) error {
	if req.Email == "" {
		return &apperrors.MissingFieldError{Field: "email"}
	}
	if req.Pin == nil {
		return &apperrors.MissingFieldError{Field: "pin"}
	}
	if req.Token == "" {
		return &apperrors.MissingFieldError{Field: "token"}
	}
	if req.NewPassword == "" {
		return &apperrors.MissingFieldError{Field: "new_password"}
	}

	if _, err := s.pins.Inspect(*req.Pin, req.Token); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(user, req.NewPassword); err != nil {
		return err
	}
	if _, err := s.pins.Claim(*req.Pin, req.Token); err != nil {
		// пароль уже сменён; конкурентное изъятие пина не откатываем
		log.Printf("[auth][forgot] warning: pin already claimed: %v", err)
	}
	return nil
}

// ChangePassword — для аутентифицированного пользователя, по старому паролю.
func (s *AuthService) ChangePassword(userID int, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	return s.users.ChangePassword(user, oldPassword, newPassword)
}

func (s *AuthService) completeSignIn(user *models.User) (*LoginResult, error) {
	if err := s.users.TouchLastAccessed(user.ID); err != nil {
		log.Printf("[auth][login] warning: failed to touch last_accessed_at for user %d: %v", user.ID, err)
	}

	pair, err := s.tokens.Mint(user)
	if err != nil {
		return nil, err
	}

	res := &LoginResult{
		User:   s.profileFor(user),
		Tokens: pair,
		Extra:  map[string]any{},
	}
	for _, l := range s.listeners {
		data, err := l.OnUserSignedIn(user)
		if err != nil {
			log.Printf("[auth][login] warning: sign-in listener %q failed for user %d: %v", l.Key(), user.ID, err)
			continue
		}
		if data != nil {
			res.Extra[l.Key()] = data
		}
	}
	return res, nil
}

// profileFor — явный вариант профиля на каждую роль.
func (s *AuthService) profileFor(user *models.User) any {
	base := models.BaseProfileOf(user)
	switch user.Role {
	case authz.RoleStudent:
		p := models.StudentProfile{ProfileBase: base}
		detail, err := s.students.GetByUserID(user.ID)
		if err != nil {
			log.Printf("[auth][login] warning: no student record for user %d: %v", user.ID, err)
			return p
		}
		p.ClassID = detail.ClassID
		p.ClassName = detail.ClassName
		if detail.Parent != nil {
			p.ParentID = detail.ParentID
			p.ParentName = detail.Parent.FullName()
			p.ParentEmail = detail.Parent.Email
			p.ParentPhone = detail.Parent.Phone
		}
		return p
	case authz.RoleTeacher:
		return models.TeacherProfile{ProfileBase: base}
	case authz.RoleParent:
		return models.ParentProfile{ProfileBase: base}
	case authz.RoleAdmin:
		return models.AdminProfile{ProfileBase: base}
	default:
		return base
	}
}

// ParentChildrenListener добавляет родителю список его детей (info_child).
type ParentChildrenListener struct {
	Students repositories.StudentRepository
}

func (l *ParentChildrenListener) Key() string { return "info_child" }

func (l *ParentChildrenListener) OnUserSignedIn(user *models.User) (any, error) {
	if user.Role != authz.RoleParent {
		return nil, nil
	}
	children, err := l.Students.ListChildren(user.ID)
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []*models.ChildInfo{}
	}
	return children, nil
}
