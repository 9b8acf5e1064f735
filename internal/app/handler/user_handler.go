package handler

import (
	"net/http"
	"strconv"

	"automarket/internal/app/dto"
	"automarket/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ПОЛЬЗОВАТЕЛИ (только суперадмин) ============

// GetUsers получает список всех пользователей
// @Summary Получение списка пользователей
// @Description Все учётные записи системы (только суперадмин)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/users [get]
func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.Repository.GetAllUsers()
	if err != nil {
		logrus.Error("Error getting users: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения пользователей")
		return
	}

	dtoUsers := make([]dto.UserResponse, len(users))
	for i, u := range users {
		dtoUsers[i] = dto.UserResponse{
			ID:       u.ID,
			Login:    u.Login,
			FullName: u.FullName,
			Phone:    u.Phone,
			Role:     u.Role,
			DealerID: u.DealerID,
		}
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users: dtoUsers,
		Total: len(dtoUsers),
	})
}

// GetUser получает одного пользователя
// @Summary Получение пользователя по ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id} [get]
func (h *APIHandler) GetUser(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пользователя")
		return
	}

	user, err := h.Repository.GetUserByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:       user.ID,
		Login:    user.Login,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
		DealerID: user.DealerID,
	})
}

// CreateUser заводит учётную запись с произвольной ролью
// @Summary Создание пользователя
// @Description Заведение сотрудника (менеджера, админа дилера) или покупателя суперадмином. Сотрудники привязываются к дилеру.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Данные пользователя"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/users [post]
func (h *APIHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	userRole, ok := role.Parse(req.Role)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неизвестная роль: "+req.Role)
		return
	}

	// Менеджер и админ дилера работают в рамках конкретного дилера
	var dealerID *uint
	if userRole == role.Manager || userRole == role.DealerAdmin {
		if req.DealerID == nil {
			h.errorResponse(c, http.StatusBadRequest, "Для роли "+req.Role+" необходимо указать дилера")
			return
		}
		exists, err := h.Repository.DealerExists(*req.DealerID)
		if err != nil {
			logrus.Error("Error checking dealer: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки дилера")
			return
		}
		if !exists {
			h.errorResponse(c, http.StatusBadRequest, "Дилер не найден")
			return
		}
		dealerID = req.DealerID
	}

	exists, err := h.Repository.UserExistsByLogin(req.Login)
	if err != nil {
		logrus.Error("Error checking user: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки пользователя")
		return
	}
	if exists {
		h.errorResponse(c, http.StatusBadRequest, "Пользователь с таким логином уже существует")
		return
	}

	user, err := h.Repository.CreateUser(req.Login, generateHashString(req.Password), req.FullName, req.Phone, int(userRole), dealerID)
	if err != nil {
		logrus.Error("Error creating user: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания пользователя")
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		ID:       user.ID,
		Login:    user.Login,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
		DealerID: user.DealerID,
	})
}
