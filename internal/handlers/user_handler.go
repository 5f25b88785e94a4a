package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techwiz/internal/apperrors"
	"techwiz/internal/models"
	"techwiz/internal/repositories"
	"techwiz/internal/services"
)

type UserHandler struct {
	users    services.UserService
	students repositories.StudentRepository
	devices  repositories.DeviceTokenRepository
}

func NewUserHandler(users services.UserService, students repositories.StudentRepository, devices repositories.DeviceTokenRepository) *UserHandler {
	return &UserHandler{users: users, students: students, devices: devices}
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	// для роли STUDENT: привязка к классу и (опционально) родителю
	Student *struct {
		ClassID  int  `json:"class_id"`
		ParentID *int `json:"parent_id"`
	} `json:"student,omitempty"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	AvatarURL *string `json:"avatar_url"`
}

// @Summary      Список пользователей
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Фильтр по роли"
// @Param        name    query     string  false  "Поиск по имени"
// @Param        limit   query     int     false  "Размер страницы"
// @Param        offset  query     int     false  "Смещение"
// @Success      200     {object}  handlers.Envelope
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	role := c.Query("role")
	name := c.Query("name")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.users.List(role, name, limit, offset)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	total, err := h.users.Count(role)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	respondOK(c, gin.H{"users": users, "total": total})
}

// @Summary      Текущий пользователь
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.users.GetByID(userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// @Summary      Пользователь по ID
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID пользователя"
// @Success      200  {object}  handlers.Envelope
// @Failure      404  {object}  handlers.Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, "id must be an integer")
		return
	}
	user, err := h.users.GetByID(id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, codeUserNotFound, "User not found")
		return
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// @Summary      Создать пользователя
// @Description  Только для администратора; для роли STUDENT можно сразу привязать класс
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      handlers.createUserRequest  true  "Данные пользователя"
// @Success      200   {object}  handlers.Envelope
// @Failure      400   {object}  handlers.Envelope
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}

	user, err := h.users.Create(services.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if req.Student != nil {
		student := &models.Student{
			UserID:   user.ID,
			ClassID:  req.Student.ClassID,
			ParentID: req.Student.ParentID,
		}
		if err := h.students.Create(student); err != nil {
			// пользователь уже создан, запись студента не удалась
			log.Printf("[users][create] warning: failed to create student record for user %d: %v", user.ID, err)
		}
	}

	respondOK(c, user)
}

// @Summary      Обновить пользователя
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                         true  "ID пользователя"
// @Param        user  body      handlers.updateUserRequest  true  "Изменяемые поля"
// @Success      200   {object}  handlers.Envelope
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, "id must be an integer")
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}

	user, err := h.users.GetByID(id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, codeUserNotFound, "User not found")
		return
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := h.users.Update(user); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, user)
}

// @Summary      Удалить пользователя
// @Description  Мягкое удаление: запись остаётся, вход блокируется
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID пользователя"
// @Success      200  {object}  handlers.Envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, "id must be an integer")
		return
	}
	if err := h.users.SoftDelete(id); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "User has been deleted"})
}

// @Summary      Зарегистрировать device_token
// @Description  Push-токен текущего устройства; повторная регистрация реактивирует
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        device  body      object  true  "token"
// @Success      200     {object}  handlers.Envelope
// @Router       /devices [post]
func (h *UserHandler) RegisterDevice(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBodyValidation, err.Error())
		return
	}
	if req.Token == "" {
		respondDomainError(c, &apperrors.MissingFieldError{Field: "token"})
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.devices.Register(userID, req.Token); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Device has been registered"})
}
