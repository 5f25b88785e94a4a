package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"techwiz/internal/apperrors"
)

// Envelope — единый конверт ответа: result/payload при успехе,
// result/error при отказе.
type Envelope struct {
	Result  string     `json:"result"`
	Payload any        `json:"payload,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

type ErrorBody struct {
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// Машиночитаемые коды ошибок — контракт с клиентами, не менять.
const (
	codeUserNotFound       = "ERROR_USER_NOT_FOUND"
	codeAlreadyExists      = "ERROR_ALREADY_EXISTS"
	codeInvalidPassword    = "ERROR_INVALID_PASSWORD"
	codePinNotExists       = "ERROR_PIN_NOT_EXISTS"
	codePinExpired         = "ERROR_PIN_EXPIRED"
	codePasswordValidation = "ERROR_PASSWORD_VALIDATION"
	codeBadSignature       = "BAD_TOKEN_SIGNATURE"
	codeExpiredSignature   = "EXPIRED_TOKEN_SIGNATURE"
	codeInvalidToken       = "ERROR_INVALID_TOKEN"
	codeTokenExpired       = "ERROR_TOKEN_EXPIRED"
	codeTokenRevoked       = "ERROR_TOKEN_REVOKED"
	codeBodyValidation     = "ERROR_REQUEST_BODY_VALIDATION"
	codeHostnameNotAllowed = "ERROR_HOSTNAME_IS_NOT_ALLOWED"
	codeInternal           = "ERROR_INTERNAL"
)

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Result: resultSuccess, Payload: payload})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		Result: resultFailure,
		Error: &ErrorBody{
			Message:   message,
			Code:      code,
			Timestamp: time.Now().UTC(),
		},
	})
}

// respondDomainError переводит доменные ошибки в конверт. Всё, что не
// распознано — 500 без деталей наружу.
func respondDomainError(c *gin.Context, err error) {
	var policyErr *apperrors.PasswordPolicyError
	var missingErr *apperrors.MissingFieldError

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		respondError(c, http.StatusUnauthorized, codeUserNotFound, "User not found")
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		respondError(c, http.StatusBadRequest, codeAlreadyExists, "User already exists")
	case errors.Is(err, apperrors.ErrInvalidPassword):
		respondError(c, http.StatusUnauthorized, codeInvalidPassword, "Invalid email or password")
	case errors.Is(err, apperrors.ErrPinNotExists):
		respondError(c, http.StatusBadRequest, codePinNotExists, "Pin does not exist")
	case errors.Is(err, apperrors.ErrPinExpired):
		respondError(c, http.StatusBadRequest, codePinExpired, "Pin has expired")
	case errors.As(err, &policyErr):
		respondError(c, http.StatusBadRequest, codePasswordValidation, policyErr.Error())
	case errors.Is(err, apperrors.ErrBadSignature):
		respondError(c, http.StatusBadRequest, codeBadSignature, "Bad token signature")
	case errors.Is(err, apperrors.ErrSignatureExpired):
		respondError(c, http.StatusBadRequest, codeExpiredSignature, "Token signature has expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, codeTokenRevoked, "Token has been revoked")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, codeTokenExpired, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, codeInvalidToken, "Invalid token")
	case errors.As(err, &missingErr):
		respondError(c, http.StatusBadRequest, codeBodyValidation, missingErr.Error())
	case errors.Is(err, apperrors.ErrHostnameNotAllowed):
		respondError(c, http.StatusBadRequest, codeHostnameNotAllowed, "Hostname is not allowed")
	default:
		respondError(c, http.StatusInternalServerError, codeInternal, "Internal server error")
	}
}

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID int, role string) {
	if id, ok := getIntFromCtx(c, "user_id"); ok {
		userID = id
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return
}
