package repositories

import "database/sql"

// DeviceTokenRepository — push-токены мобильных клиентов. В auth-флоу
// участвует только деактивация при logout (best-effort).
type DeviceTokenRepository interface {
	Register(userID int, token string) error
	Deactivate(userID int, token string) error
}

type deviceTokenRepository struct {
	DB *sql.DB
}

func NewDeviceTokenRepository(db *sql.DB) DeviceTokenRepository {
	return &deviceTokenRepository{DB: db}
}

func (r *deviceTokenRepository) Register(userID int, token string) error {
	const q = `
		INSERT INTO device_tokens (user_id, token, active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, token) DO UPDATE SET active = TRUE
	`
	_, err := r.DB.Exec(q, userID, token)
	return err
}

func (r *deviceTokenRepository) Deactivate(userID int, token string) error {
	_, err := r.DB.Exec(`
		UPDATE device_tokens SET active = FALSE
		WHERE user_id = $1 AND token = $2
	`, userID, token)
	return err
}
