package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

type StudentRepository interface {
	Create(student *models.Student) error
	GetByUserID(userID int) (*models.StudentDetail, error)
	GetByID(studentID int) (*models.StudentDetail, error)
	ListChildren(parentID int) ([]*models.ChildInfo, error)
	ListGrades(studentID int) ([]*models.Grade, error)
	GetClass(classID int) (*models.SchoolClass, error)
}

type studentRepository struct {
	DB *sql.DB
}

func NewStudentRepository(db *sql.DB) StudentRepository {
	return &studentRepository{DB: db}
}

func (r *studentRepository) Create(student *models.Student) error {
	const q = `
		INSERT INTO students (user_id, class_id, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var parentID sql.NullInt64
	if student.ParentID != nil {
		parentID = sql.NullInt64{Int64: int64(*student.ParentID), Valid: true}
	}
	if err := r.DB.QueryRow(q, student.UserID, student.ClassID, parentID).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *studentRepository) GetByUserID(userID int) (*models.StudentDetail, error) {
	return r.getDetail(`s.user_id = $1`, userID)
}

func (r *studentRepository) GetByID(studentID int) (*models.StudentDetail, error) {
	return r.getDetail(`s.id = $1`, studentID)
}

func (r *studentRepository) getDetail(where string, arg any) (*models.StudentDetail, error) {
	q := `
		SELECT
			s.id, s.user_id, s.class_id, s.parent_id,
			c.name,
			u.id, u.first_name, u.last_name, u.email, u.phone, u.date_of_birth,
			p.id, p.first_name, p.last_name, p.email, p.phone
		FROM students s
		JOIN school_classes c ON c.id = s.class_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN users p ON p.id = s.parent_id
		WHERE ` + where

	d := &models.StudentDetail{User: &models.User{}, Class: &models.SchoolClass{}}
	var (
		parentID sql.NullInt64
		dob      sql.NullTime
		phone    sql.NullString

		pID    sql.NullInt64
		pFirst sql.NullString
		pLast  sql.NullString
		pEmail sql.NullString
		pPhone sql.NullString
	)
	err := r.DB.QueryRow(q, arg).Scan(
		&d.ID, &d.UserID, &d.ClassID, &parentID,
		&d.Class.Name,
		&d.User.ID, &d.User.FirstName, &d.User.LastName, &d.User.Email, &phone, &dob,
		&pID, &pFirst, &pLast, &pEmail, &pPhone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Class.ID = d.ClassID
	d.ClassName = d.Class.Name
	if phone.Valid {
		d.User.Phone = phone.String
	}
	if dob.Valid {
		t := dob.Time
		d.User.DateOfBirth = &t
	}
	if parentID.Valid {
		id := int(parentID.Int64)
		d.ParentID = &id
		d.Parent = &models.User{
			ID:        int(pID.Int64),
			FirstName: pFirst.String,
			LastName:  pLast.String,
			Email:     pEmail.String,
			Phone:     pPhone.String,
		}
	}
	return d, nil
}

func (r *studentRepository) ListChildren(parentID int) ([]*models.ChildInfo, error) {
	const q = `
		SELECT
			s.id, u.id, u.first_name, u.last_name, u.email, u.date_of_birth,
			c.name, c.id
		FROM students s
		JOIN users u ON u.id = s.user_id
		JOIN school_classes c ON c.id = s.class_id
		WHERE s.parent_id = $1 AND u.deleted_at IS NULL
		ORDER BY s.id
	`
	rows, err := r.DB.Query(q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.ChildInfo
	for rows.Next() {
		var (
			ci    models.ChildInfo
			first string
			last  string
			dob   sql.NullTime
		)
		if err := rows.Scan(&ci.StudentID, &ci.UserID, &first, &last, &ci.Email, &dob, &ci.ClassName, &ci.ClassID); err != nil {
			return nil, err
		}
		ci.FullName = first + " " + last
		if dob.Valid {
			t := dob.Time
			ci.DateOfBirth = &t
		}
		res = append(res, &ci)
	}
	return res, rows.Err()
}

func (r *studentRepository) ListGrades(studentID int) ([]*models.Grade, error) {
	const q = `
		SELECT id, student_id, subject, kind, score
		FROM grades
		WHERE student_id = $1
		ORDER BY subject, kind
	`
	rows, err := r.DB.Query(q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Grade
	for rows.Next() {
		g := &models.Grade{}
		if err := rows.Scan(&g.ID, &g.StudentID, &g.Subject, &g.Kind, &g.Score); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *studentRepository) GetClass(classID int) (*models.SchoolClass, error) {
	c := &models.SchoolClass{}
	err := r.DB.QueryRow(`SELECT id, name FROM school_classes WHERE id = $1`, classID).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("class %d not found", classID)
	}
	return c, err
}
