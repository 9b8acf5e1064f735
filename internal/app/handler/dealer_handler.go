package handler

import (
	"net/http"
	"strconv"

	"automarket/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ДИЛЕРЫ ============

// GetDealers получает список дилеров
// @Summary Получение списка дилеров
// @Tags Dealers
// @Produce json
// @Success 200 {object} dto.DealerListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dealers [get]
func (h *APIHandler) GetDealers(c *gin.Context) {
	dealers, err := h.Repository.GetAllDealers()
	if err != nil {
		logrus.Error("Error getting dealers: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения дилеров")
		return
	}

	dtoDealers := make([]dto.DealerResponse, len(dealers))
	for i, d := range dealers {
		dtoDealers[i] = dto.DealerResponse{
			ID:      d.ID,
			Name:    d.Name,
			City:    d.City,
			Address: d.Address,
			Phone:   d.Phone,
		}
	}

	c.JSON(http.StatusOK, dto.DealerListResponse{
		Dealers: dtoDealers,
		Total:   len(dtoDealers),
	})
}

// GetDealer получает одного дилера
// @Summary Получение дилера по ID
// @Tags Dealers
// @Produce json
// @Param id path int true "ID дилера"
// @Success 200 {object} dto.DealerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/dealers/{id} [get]
func (h *APIHandler) GetDealer(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID дилера")
		return
	}

	dealer, err := h.Repository.GetDealerByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Дилер не найден")
		return
	}

	c.JSON(http.StatusOK, dto.DealerResponse{
		ID:      dealer.ID,
		Name:    dealer.Name,
		City:    dealer.City,
		Address: dealer.Address,
		Phone:   dealer.Phone,
	})
}

// CreateDealer создает дилера
// @Summary Создание дилера
// @Description Добавляет дилерский центр (только суперадмин)
// @Tags Dealers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDealerRequest true "Данные дилера"
// @Success 201 {object} dto.DealerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dealers [post]
func (h *APIHandler) CreateDealer(c *gin.Context) {
	var req dto.CreateDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	dealer, err := h.Repository.CreateDealer(req.Name, req.City, req.Address, req.Phone)
	if err != nil {
		logrus.Error("Error creating dealer: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания дилера")
		return
	}

	c.JSON(http.StatusCreated, dto.DealerResponse{
		ID:      dealer.ID,
		Name:    dealer.Name,
		City:    dealer.City,
		Address: dealer.Address,
		Phone:   dealer.Phone,
	})
}

// UpdateDealer обновляет дилера
// @Summary Обновление дилера
// @Tags Dealers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID дилера"
// @Param request body dto.UpdateDealerRequest true "Данные для обновления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/dealers/{id} [put]
func (h *APIHandler) UpdateDealer(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID дилера")
		return
	}

	var req dto.UpdateDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	var name, city, address, phone *string
	if req.Name != "" {
		name = &req.Name
	}
	if req.City != "" {
		city = &req.City
	}
	if req.Address != "" {
		address = &req.Address
	}
	if req.Phone != "" {
		phone = &req.Phone
	}

	err = h.Repository.UpdateDealer(uint(id), name, city, address, phone)
	if err != nil {
		h.coreError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Дилер успешно обновлен", nil)
}
