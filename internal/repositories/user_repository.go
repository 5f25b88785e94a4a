package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	SoftDelete(id int) error
	List(role, nameFilter string, limit, offset int) ([]*models.User, error)
	Count(role string) (int, error)

	UpdatePassword(userID int, passwordHash string) error
	TouchLastAccessed(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, first_name, last_name, username, email, password_hash,
	COALESCE(role,''), phone, avatar_url, address, date_of_birth,
	last_accessed_at, deleted_at, created_at, updated_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			first_name, last_name, username, email, password_hash, role,
			phone, avatar_url, address, date_of_birth
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(q,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		nullString(user.Phone),
		nullString(user.AvatarURL),
		nullString(user.Address),
		user.DateOfBirth,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.ErrUserAlreadyExists
	}
	return err
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET
			first_name=$1,
			last_name=$2,
			email=$3,
			phone=$4,
			role=$5,
			avatar_url=$6,
			address=$7,
			date_of_birth=$8,
			updated_at=NOW()
		WHERE id=$9 AND deleted_at IS NULL
	`
	_, err := r.DB.Exec(q,
		user.FirstName,
		user.LastName,
		user.Email,
		nullString(user.Phone),
		user.Role,
		nullString(user.AvatarURL),
		nullString(user.Address),
		user.DateOfBirth,
		user.ID,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrUserAlreadyExists
	}
	return err
}

// SoftDelete — жёсткого удаления в auth-флоу нет, только отметка.
func (r *userRepository) SoftDelete(id int) error {
	res, err := r.DB.Exec(`UPDATE users SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(role, nameFilter string, limit, offset int) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []any{}
	if role != "" {
		args = append(args, role)
		q += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if nameFilter != "" {
		args = append(args, "%"+nameFilter+"%")
		n := len(args)
		q += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) Count(role string) (int, error) {
	var c int
	var err error
	if role != "" {
		err = r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role=$1`, role).Scan(&c)
	} else {
		err = r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&c)
	}
	return c, err
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	res, err := r.DB.Exec(`
		UPDATE users SET password_hash=$1, updated_at=NOW()
		WHERE id=$2 AND deleted_at IS NULL
	`, passwordHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) TouchLastAccessed(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET last_accessed_at=NOW() WHERE id=$1`, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		phone     sql.NullString
		avatarURL sql.NullString
		address   sql.NullString
		dob       sql.NullTime
		lastAcc   sql.NullTime
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &phone, &avatarURL, &address, &dob,
		&lastAcc, &deletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if avatarURL.Valid {
		u.AvatarURL = avatarURL.String
	}
	if address.Valid {
		u.Address = address.String
	}
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	if lastAcc.Valid {
		t := lastAcc.Time
		u.LastAccessedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return u, nil
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	return u, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
