package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair — клиенту вместе с токенами отдаются абсолютные сроки,
// чтобы не заставлять его декодировать JWT.
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_token_expired"`
	RefreshExpiresAt time.Time `json:"refresh_expired"`
}

// Blacklist — отозванные refresh-токены, по jti.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
}

func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *TokenService {
	return &TokenService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
	}
}

func (s *TokenService) Secret() []byte { return s.secret }

func (s *TokenService) Mint(user *models.User) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	access, err := s.sign(user, tokenTypeAccess, now, accessExp, "")
	if err != nil {
		return nil, err
	}
	// jti нужен только refresh-токену: blacklist ключуется по нему
	refresh, err := s.sign(user, tokenTypeRefresh, now, refreshExp, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh — новый access-токен по действующему refresh-токену.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" {
		return "", time.Time{}, apperrors.ErrTokenInvalid
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", time.Time{}, err
	}
	if revoked {
		return "", time.Time{}, apperrors.ErrTokenRevoked
	}

	now := time.Now()
	exp := now.Add(s.accessTTL)
	access, err := s.sign(&models.User{ID: claims.UserID, Role: claims.Role}, tokenTypeAccess, now, exp, "")
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// Blacklist помечает refresh-токен отозванным. Запись живёт в redis ровно
// до естественного истечения токена: дольше хранить незачем, просроченный
// токен отбрасывается ещё на проверке подписи.
func (s *TokenService) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken)
	if errors.Is(err, apperrors.ErrTokenExpired) {
		return nil // уже не сможет обменяться, запись не нужна
	}
	if err != nil {
		return err
	}
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" {
		return apperrors.ErrTokenInvalid
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}

func (s *TokenService) sign(user *models.User, tokenType string, now, exp time.Time, jti string) (string, error) {
	claims := &TokenClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	if !token.Valid || claims.ExpiresAt == nil {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
