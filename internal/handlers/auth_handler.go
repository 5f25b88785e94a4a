package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
	"techwiz/internal/services"
	"techwiz/internal/utils"
)

type AuthHandler struct {
	auth   *services.AuthService
	users  services.UserService
	pins   *services.PinService
	tokens *services.TokenService
	reset  *services.ResetService
	debug  bool
}

func NewAuthHandler(
	auth *services.AuthService,
	users services.UserService,
	pins *services.PinService,
	tokens *services.TokenService,
	reset *services.ResetService,
	debug bool,
) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, pins: pins, tokens: tokens, reset: reset, debug: debug}
}

// @Summary      Вход в систему
// @Description  Вход по email+паролю либо по пин-коду (pin + token из /get-pin)
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  handlers.Envelope
// @Failure      400    {object}  handlers.Envelope
// @Failure      401    {object}  handlers.Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Email == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "email"})
		return
	}
	email := utils.NormalizeEmail(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	var (
		res *services.LoginResult
		err error
	)
	if req.Pin != nil {
		if req.Token == "" {
			respondDomainError(c, &apperrors.MissingFieldError{Field: "token"})
			return
		}
		res, err = h.auth.LoginByPin(email, *req.Pin, req.Token)
	} else {
		if req.Password == "" {
			respondDomainError(c, &apperrors.MissingFieldError{Field: "password"})
			return
		}
		res, err = h.auth.LoginByPassword(email, req.Password)
	}
	if err != nil {
		log.Printf("[auth][login] failed email=%q: err=%v", email, err)
		respondDomainError(c, err)
		return
	}

	log.Printf("[auth][login] success email=%q took=%s", email, time.Since(start).Truncate(time.Millisecond))
	respondOK(c, loginPayload(res))
}

// @Summary      Вход для администратора
// @Description  Как /login, но пускает только роль ADMIN
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  handlers.Envelope
// @Failure      401    {object}  handlers.Envelope
// @Router       /login-admin [post]
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Email == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "email"})
		return
	}
	if req.Password == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "password"})
		return
	}

	res, err := h.auth.LoginAdmin(utils.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		log.Printf("[auth][login-admin] failed email=%q: err=%v", req.Email, err)
		respondDomainError(c, err)
		return
	}
	respondOK(c, loginPayload(res))
}

// @Summary      Выход из системы
// @Description  Отзывает refresh-токен и деактивирует device_token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        logout  body      models.LogoutRequest  true  "Токены"
// @Success      200     {object}  handlers.Envelope
// @Failure      401     {object}  handlers.Envelope
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.RefreshToken == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "refresh_token"})
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.auth.Logout(c.Request.Context(), userID, req.RefreshToken, req.DeviceToken); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Logged out"})
}

// @Summary      Обновление access-токена
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      models.RefreshRequest  true  "Refresh-токен"
// @Success      200      {object}  handlers.Envelope
// @Failure      401      {object}  handlers.Envelope
// @Router       /token/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Refresh == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "refresh"})
		return
	}

	access, expiresAt, err := h.tokens.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{
		"access":               access,
		"access_token_expired": expiresAt,
	})
}

// @Summary      Получить пин-код
// @Description  Шлёт пин-код на email; device_token возвращается в ответе
// @Tags         Auth
// @Produce      json
// @Param        email  query     string  true  "Email получателя"
// @Success      200    {object}  handlers.Envelope
// @Failure      400    {object}  handlers.Envelope
// @Router       /get-pin [get]
func (h *AuthHandler) GetPin(c *gin.Context) {
	email := utils.NormalizeEmail(c.Query("email"))
	if email == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "email"})
		return
	}

	var (
		pin *models.UserPin
		err error
	)
	user, uerr := h.users.GetByEmail(email)
	switch {
	case uerr == nil:
		pin, err = h.pins.IssueLoginPin(user)
	case errors.Is(uerr, apperrors.ErrUserNotFound):
		// пользователя ещё нет — пин для регистрации
		pin, err = h.pins.IssueSignupPin(email)
	default:
		respondDomainError(c, uerr)
		return
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	payload := gin.H{"token": pin.DeviceToken}
	if h.debug {
		// в бою код уходит только письмом
		payload["pin"] = pin.Code
	}
	respondOK(c, payload)
}

// @Summary      Регистрация
// @Description  Создаёт пользователя-студента и возвращает пару токенов
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Данные регистрации"
// @Success      200     {object}  handlers.Envelope
// @Failure      400     {object}  handlers.Envelope
// @Router       /sign-up [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}

	pair, err := h.auth.Signup(req)
	if err != nil {
		log.Printf("[auth][signup] failed email=%q: err=%v", req.Email, err)
		respondDomainError(c, err)
		return
	}
	respondOK(c, pair)
}

// @Summary      Восстановление пароля по пин-коду
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Email, пин и новый пароль"
// @Success      200     {object}  handlers.Envelope
// @Failure      400     {object}  handlers.Envelope
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}

	if err := h.auth.ForgotPassword(req); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Password has been updated"})
}

// @Summary      Смена пароля
// @Description  Для аутентифицированного пользователя, по старому паролю
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        change  body      models.ChangePasswordRequest  true  "Старый и новый пароли"
// @Success      200     {object}  handlers.Envelope
// @Failure      401     {object}  handlers.Envelope
// @Router       /change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.OldPassword == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "old_password"})
		return
	}
	if req.NewPassword == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "new_password"})
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.auth.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Password has been changed"})
}

// @Summary      Отправить письмо для сброса пароля
// @Description  Ссылка сброса строится от base_url; хост проверяется по allowlist
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        send  body      models.SendResetPasswordEmailRequest  true  "Email и базовый URL"
// @Success      200   {object}  handlers.Envelope
// @Failure      400   {object}  handlers.Envelope
// @Router       /send-reset-password-email [post]
func (h *AuthHandler) SendResetPasswordEmail(c *gin.Context) {
	var req models.SendResetPasswordEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Email == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "email"})
		return
	}
	if req.BaseURL == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "base_url"})
		return
	}

	if err := h.reset.SendResetEmail(req.Email, req.BaseURL); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Reset email has been sent"})
}

// @Summary      Сброс пароля по подписанному токену
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Токен из письма и новый пароль"
// @Success      200    {object}  handlers.Envelope
// @Failure      400    {object}  handlers.Envelope
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Token == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "token"})
		return
	}
	if req.Password == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "password"})
		return
	}

	user, err := h.reset.ResetPassword(req.Token, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Password has been reset", "user": user})
}

// loginPayload разворачивает данные листенеров рядом с user/tokens.
func loginPayload(res *services.LoginResult) gin.H {
	payload := gin.H{
		"user":   res.User,
		"tokens": res.Tokens,
	}
	for k, v := range res.Extra {
		payload[k] = v
	}
	return payload
}
