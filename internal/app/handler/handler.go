package handler

import (
	"errors"
	"fmt"
	"net/http"

	"automarket/internal/app/apperr"
	"automarket/internal/app/dto"
	"automarket/internal/app/policy"
	"automarket/internal/app/repository"
	"automarket/internal/app/role"
	"automarket/internal/app/service"
	"automarket/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository   *repository.Repository
	Applications *service.ApplicationService
	MinIOClient  *storage.MinIOClient
	AuthHandler  *AuthHandler
}

func NewAPIHandler(r *repository.Repository, apps *service.ApplicationService, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:   r,
		Applications: apps,
		MinIOClient:  minioClient,
		AuthHandler:  authHandler,
	}
}

// Получение актора (явного контекста пользователя) из gin-контекста.
// Данные кладёт auth middleware из JWT.
func (h *APIHandler) actorFromContext(c *gin.Context) (policy.Actor, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return policy.Actor{}, fmt.Errorf("user not authenticated")
	}

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("actorFromContext: invalid userID type: %T", userID)
		return policy.Actor{}, fmt.Errorf("invalid user ID")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	actor := policy.Actor{ID: id, Role: r}
	if dealerID, ok := c.Get("dealerID"); ok {
		if did, ok := dealerID.(uint); ok {
			actor.DealerID = &did
		}
	}

	return actor, nil
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// coreError переводит ошибки ядра в HTTP статусы:
// валидация - 400, запрет - 403, отсутствие - 404, конфликт - 409
func (h *APIHandler) coreError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Error("internal error: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
