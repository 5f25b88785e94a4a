package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

type PinRepository interface {
	Create(pin *models.UserPin) error
	// Inspect — проверка без удаления (просроченный пин остаётся в таблице).
	Inspect(code int, deviceToken string, now time.Time) (*models.UserPin, error)
	// Claim — одноразовое изъятие: удаляет запись только при успехе.
	// Два конкурентных Claim на один пин не могут сработать оба.
	Claim(code int, deviceToken string, now time.Time) (*models.UserPin, error)
	DeleteExpired(before time.Time) (int64, error)
}

type pinRepository struct {
	DB *sql.DB
}

func NewPinRepository(db *sql.DB) PinRepository {
	return &pinRepository{DB: db}
}

const pinColumns = `id, code, device_token, pin_expired, user_id, created_at`

func (r *pinRepository) Create(pin *models.UserPin) error {
	const q = `
		INSERT INTO user_pins (code, device_token, pin_expired, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, pin.Code, pin.DeviceToken, pin.PinExpired, pin.UserID).
		Scan(&pin.ID, &pin.CreatedAt); err != nil {
		return fmt.Errorf("create pin: %w", err)
	}
	return nil
}

func (r *pinRepository) Inspect(code int, deviceToken string, now time.Time) (*models.UserPin, error) {
	q := `SELECT ` + pinColumns + ` FROM user_pins WHERE code = $1 AND device_token = $2`
	pin, err := scanPin(r.DB.QueryRow(q, code, deviceToken))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrPinNotExists
	}
	if err != nil {
		return nil, err
	}
	if pin.Expired(now) {
		return nil, apperrors.ErrPinExpired
	}
	return pin, nil
}

func (r *pinRepository) Claim(code int, deviceToken string, now time.Time) (*models.UserPin, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// FOR UPDATE сериализует конкурентные claim: второй дождётся первого
	// и увидит уже удалённую строку.
	q := `SELECT ` + pinColumns + ` FROM user_pins WHERE code = $1 AND device_token = $2 FOR UPDATE`
	pin, err := scanPin(tx.QueryRow(q, code, deviceToken))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrPinNotExists
	}
	if err != nil {
		return nil, err
	}

	// Просроченный пин не удаляем: проверка срока должна быть идемпотентной.
	if pin.Expired(now) {
		return nil, apperrors.ErrPinExpired
	}

	if _, err := tx.Exec(`DELETE FROM user_pins WHERE id = $1`, pin.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pin, nil
}

func (r *pinRepository) DeleteExpired(before time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM user_pins WHERE pin_expired < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanPin(row rowScanner) (*models.UserPin, error) {
	p := &models.UserPin{}
	var userID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Code, &p.DeviceToken, &p.PinExpired, &userID, &p.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		p.UserID = &id
	}
	return p, nil
}
