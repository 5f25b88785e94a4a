package services

import (
	"context"
	"sync"
	"time"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
)

// Общие in-memory фейки для тестов сервисного слоя.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email && u.DeletedAt == nil {
			return apperrors.ErrUserAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SoftDelete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (r *fakeUserRepo) List(role, nameFilter string, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*models.User
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		cp := *u
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeUserRepo) Count(role string) (int, error) {
	users, _ := r.List(role, "", 0, 0)
	return len(users), nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) TouchLastAccessed(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	u.LastAccessedAt = &now
	return nil
}

type fakePinRepo struct {
	mu     sync.Mutex
	nextID int64
	pins   []*models.UserPin
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{nextID: 1}
}

func (r *fakePinRepo) Create(pin *models.UserPin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pin.ID = r.nextID
	r.nextID++
	pin.CreatedAt = time.Now()
	cp := *pin
	r.pins = append(r.pins, &cp)
	return nil
}

func (r *fakePinRepo) find(code int, deviceToken string) (int, *models.UserPin) {
	for i, p := range r.pins {
		if p.Code == code && p.DeviceToken == deviceToken {
			return i, p
		}
	}
	return -1, nil
}

func (r *fakePinRepo) Inspect(code int, deviceToken string, now time.Time) (*models.UserPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, p := r.find(code, deviceToken)
	if p == nil {
		return nil, apperrors.ErrPinNotExists
	}
	if p.Expired(now) {
		return nil, apperrors.ErrPinExpired
	}
	cp := *p
	return &cp, nil
}

func (r *fakePinRepo) Claim(code int, deviceToken string, now time.Time) (*models.UserPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, p := r.find(code, deviceToken)
	if p == nil {
		return nil, apperrors.ErrPinNotExists
	}
	if p.Expired(now) {
		return nil, apperrors.ErrPinExpired
	}
	cp := *p
	r.pins = append(r.pins[:i], r.pins[i+1:]...)
	return &cp, nil
}

func (r *fakePinRepo) DeleteExpired(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.UserPin
	var removed int64
	for _, p := range r.pins {
		if p.PinExpired.Before(before) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	r.pins = kept
	return removed, nil
}

// fakeEmailService складывает отправленные письма в каналы, чтобы тест
// мог дождаться асинхронной отправки.
type fakeEmailService struct {
	pinCodes  chan int
	resetURLs chan string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{
		pinCodes:  make(chan int, 8),
		resetURLs: make(chan string, 8),
	}
}

func (s *fakeEmailService) SendSignupPinEmail(email string, code int) error {
	s.pinCodes <- code
	return nil
}

func (s *fakeEmailService) SendLoginPinEmail(email string, code int) error {
	s.pinCodes <- code
	return nil
}

func (s *fakeEmailService) SendPasswordResetEmail(email, resetURL string) error {
	s.resetURLs <- resetURL
	return nil
}

type fakeStudentRepo struct {
	details  map[int]*models.StudentDetail // по user_id
	byID     map[int]*models.StudentDetail
	children map[int][]*models.ChildInfo // по parent_id
	grades   map[int][]*models.Grade     // по student_id
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		details:  map[int]*models.StudentDetail{},
		byID:     map[int]*models.StudentDetail{},
		children: map[int][]*models.ChildInfo{},
		grades:   map[int][]*models.Grade{},
	}
}

func (r *fakeStudentRepo) Create(student *models.Student) error { return nil }

func (r *fakeStudentRepo) GetByUserID(userID int) (*models.StudentDetail, error) {
	d, ok := r.details[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return d, nil
}

func (r *fakeStudentRepo) GetByID(studentID int) (*models.StudentDetail, error) {
	d, ok := r.byID[studentID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return d, nil
}

func (r *fakeStudentRepo) ListChildren(parentID int) ([]*models.ChildInfo, error) {
	return r.children[parentID], nil
}

func (r *fakeStudentRepo) ListGrades(studentID int) ([]*models.Grade, error) {
	return r.grades[studentID], nil
}

func (r *fakeStudentRepo) GetClass(classID int) (*models.SchoolClass, error) {
	return &models.SchoolClass{ID: classID, Name: "11A"}, nil
}

type fakeDeviceRepo struct {
	mu          sync.Mutex
	deactivated []string
}

func (r *fakeDeviceRepo) Register(userID int, token string) error { return nil }

func (r *fakeDeviceRepo) Deactivate(userID int, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deactivated = append(r.deactivated, token)
	return nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]bool{}}
}

func (b *fakeBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *fakeBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}
