package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techwiz/internal/apperrors"
	"techwiz/internal/authz"
	"techwiz/internal/models"
)

type authFixture struct {
	auth     *AuthService
	users    UserService
	pins     *PinService
	tokens   *TokenService
	students *fakeStudentRepo
	devices  *fakeDeviceRepo
	emails   *fakeEmailService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := NewUserService(newFakeUserRepo())
	emails := newFakeEmailService()
	pins := NewPinService(newFakePinRepo(), emails, 5*time.Minute)
	tokens := NewTokenService(testSecret, time.Hour, 24*time.Hour, newFakeBlacklist())
	reset := NewResetService(testSecret, 48*time.Hour, "app.example.com", users, emails)
	students := newFakeStudentRepo()
	devices := &fakeDeviceRepo{}
	auth := NewAuthService(users, pins, tokens, reset, students, devices,
		&ParentChildrenListener{Students: students})
	return &authFixture{
		auth: auth, users: users, pins: pins, tokens: tokens,
		students: students, devices: devices, emails: emails,
	}
}

func (f *authFixture) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user, err := f.users.Create(CreateUserInput{
		Email:     email,
		Password:  "password1",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_LoginByPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)

	res, err := f.auth.LoginByPassword("S@Example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	assert.NotEmpty(t, res.Tokens.Access)
	assert.NotEmpty(t, res.Tokens.Refresh)

	// без записи студента профиль падает до базового студенческого
	profile, ok := res.User.(models.StudentProfile)
	require.True(t, ok)
	assert.Equal(t, user.ID, profile.ID)

	_, err = f.auth.LoginByPassword("s@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = f.auth.LoginByPassword("nobody@example.com", "password1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_LoginAdminRejectsOtherRoles(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "teacher@example.com", authz.RoleTeacher)
	f.createUser(t, "admin@example.com", authz.RoleAdmin)

	// не-админ неотличим от несуществующего пользователя
	_, err := f.auth.LoginAdmin("teacher@example.com", "password1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	res, err := f.auth.LoginAdmin("admin@example.com", "password1")
	require.NoError(t, err)
	_, ok := res.User.(models.AdminProfile)
	assert.True(t, ok)
}

func TestAuthService_LoginByPinIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)

	pin, err := f.pins.IssueLoginPin(user)
	require.NoError(t, err)

	res, err := f.auth.LoginByPin(user.Email, pin.Code, pin.DeviceToken)
	require.NoError(t, err)
	assert.NotNil(t, res.Tokens)

	_, err = f.auth.LoginByPin(user.Email, pin.Code, pin.DeviceToken)
	assert.ErrorIs(t, err, apperrors.ErrPinNotExists)
}

func TestAuthService_ParentLoginIncludesChildren(t *testing.T) {
	f := newAuthFixture(t)
	parent := f.createUser(t, "parent@example.com", authz.RoleParent)

	f.students.children[parent.ID] = []*models.ChildInfo{
		{StudentID: 1, UserID: 10, FullName: "Kid One", ClassName: "5B", ClassID: 3},
	}

	res, err := f.auth.LoginByPassword("parent@example.com", "password1")
	require.NoError(t, err)

	children, ok := res.Extra["info_child"].([]*models.ChildInfo)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "Kid One", children[0].FullName)
}

func TestAuthService_StudentProfileCarriesClassAndParent(t *testing.T) {
	f := newAuthFixture(t)
	student := f.createUser(t, "s@example.com", authz.RoleStudent)

	parentID := 42
	f.students.details[student.ID] = &models.StudentDetail{
		Student:   models.Student{ID: 1, UserID: student.ID, ClassID: 3, ParentID: &parentID},
		ClassName: "5B",
		Parent: &models.User{
			ID: parentID, FirstName: "Jane", LastName: "Doe",
			Email: "jane@example.com", Phone: "+700",
		},
	}

	res, err := f.auth.LoginByPassword("s@example.com", "password1")
	require.NoError(t, err)

	profile, ok := res.User.(models.StudentProfile)
	require.True(t, ok)
	assert.Equal(t, "5B", profile.ClassName)
	assert.Equal(t, &parentID, profile.ParentID)
	assert.Equal(t, "Jane Doe", profile.ParentName)
	assert.Equal(t, "jane@example.com", profile.ParentEmail)
}

func TestAuthService_SignupValidatesFields(t *testing.T) {
	f := newAuthFixture(t)

	cases := []struct {
		field string
		req   models.SignupRequest
	}{
		{"email", models.SignupRequest{Password: "password1", FirstName: "A", LastName: "B"}},
		{"password", models.SignupRequest{Email: "a@b.com", FirstName: "A", LastName: "B"}},
		{"first_name", models.SignupRequest{Email: "a@b.com", Password: "password1", LastName: "B"}},
		{"last_name", models.SignupRequest{Email: "a@b.com", Password: "password1", FirstName: "A"}},
	}
	for _, tc := range cases {
		_, err := f.auth.Signup(tc.req)
		var missing *apperrors.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, tc.field, missing.Field)
	}
}

func TestAuthService_SignupToleratesDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	req := models.SignupRequest{
		Email: "a@b.com", Password: "password1",
		FirstName: "A", LastName: "B",
	}

	first, err := f.auth.Signup(req)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Access)

	// повторная отправка той же формы — не ошибка
	second, err := f.auth.Signup(req)
	require.NoError(t, err)
	assert.NotEmpty(t, second.Access)
}

func TestAuthService_LogoutRevokesRefresh(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)
	ctx := context.Background()

	res, err := f.auth.LoginByPassword(user.Email, "password1")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, user.ID, res.Tokens.Refresh, "device-1"))

	_, _, err = f.tokens.Refresh(ctx, res.Tokens.Refresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	assert.Contains(t, f.devices.deactivated, "device-1")
}

func TestAuthService_ForgotPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)

	pin, err := f.pins.IssueLoginPin(user)
	require.NoError(t, err)

	// слабый пароль не изымает пин
	err = f.auth.ForgotPassword(models.ForgotPasswordRequest{
		Email: user.Email, Pin: &pin.Code, Token: pin.DeviceToken, NewPassword: "short",
	})
	var policyErr *apperrors.PasswordPolicyError
	require.ErrorAs(t, err, &policyErr)

	// пин всё ещё пригоден, со вторым паролем всё проходит
	err = f.auth.ForgotPassword(models.ForgotPasswordRequest{
		Email: user.Email, Pin: &pin.Code, Token: pin.DeviceToken, NewPassword: "newpassword2",
	})
	require.NoError(t, err)

	_, err = f.auth.LoginByPassword(user.Email, "newpassword2")
	assert.NoError(t, err)

	// пин изъят
	_, err = f.pins.Inspect(pin.Code, pin.DeviceToken)
	assert.ErrorIs(t, err, apperrors.ErrPinNotExists)
}

func TestAuthService_ForgotPasswordWrongPin(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)

	code := 111111
	err := f.auth.ForgotPassword(models.ForgotPasswordRequest{
		Email: user.Email, Pin: &code, Token: "no-such-token", NewPassword: "newpassword2",
	})
	assert.ErrorIs(t, err, apperrors.ErrPinNotExists)

	// пароль не изменился
	_, err = f.auth.LoginByPassword(user.Email, "password1")
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "s@example.com", authz.RoleStudent)

	err := f.auth.ChangePassword(user.ID, "wrong", "newpassword2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	require.NoError(t, f.auth.ChangePassword(user.ID, "password1", "newpassword2"))

	_, err = f.auth.LoginByPassword(user.Email, "newpassword2")
	assert.NoError(t, err)
}
