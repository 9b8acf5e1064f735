package handler

import (
	"io"
	"net/http"
	"strconv"

	"automarket/internal/app/dto"
	"automarket/internal/app/policy"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН АВТОМОБИЛИ ============

// GetCars получает каталог автомобилей
// @Summary Получение каталога автомобилей
// @Description Возвращает каталог с возможностью поиска по марке и модели
// @Tags Cars
// @Produce json
// @Param query query string false "Поиск по марке или модели"
// @Success 200 {object} dto.CarListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/cars [get]
func (h *APIHandler) GetCars(c *gin.Context) {
	searchQuery := c.Query("query")

	cars, err := h.Repository.GetAllCars(searchQuery)
	if err != nil {
		logrus.Error("Error getting cars: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения каталога")
		return
	}

	// Преобразуем в DTO
	dtoCars := make([]dto.CarResponse, len(cars))
	for i, car := range cars {
		imageURL := ""
		if car.ImageURL != nil {
			imageURL = *car.ImageURL
		}
		dtoCars[i] = dto.CarResponse{
			ID:       car.ID,
			Brand:    car.Brand,
			Model:    car.Model,
			Year:     car.Year,
			Body:     car.Body,
			Engine:   car.Engine,
			ImageURL: imageURL,
		}
	}

	c.JSON(http.StatusOK, dto.CarListResponse{
		Cars:  dtoCars,
		Total: len(dtoCars),
	})
}

// GetCar получает один автомобиль
// @Summary Получение автомобиля по ID
// @Tags Cars
// @Produce json
// @Param id path int true "ID автомобиля"
// @Success 200 {object} dto.CarResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/cars/{id} [get]
func (h *APIHandler) GetCar(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID автомобиля")
		return
	}

	car, err := h.Repository.GetCarByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Автомобиль не найден")
		return
	}

	imageURL := ""
	if car.ImageURL != nil {
		imageURL = *car.ImageURL
	}

	c.JSON(http.StatusOK, dto.CarResponse{
		ID:       car.ID,
		Brand:    car.Brand,
		Model:    car.Model,
		Year:     car.Year,
		Body:     car.Body,
		Engine:   car.Engine,
		ImageURL: imageURL,
	})
}

// CreateCar создает автомобиль в каталоге
// @Summary Создание автомобиля
// @Description Добавляет автомобиль в каталог (админ дилера и суперадмин)
// @Tags Cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCarRequest true "Данные автомобиля"
// @Success 201 {object} dto.CarResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/cars [post]
func (h *APIHandler) CreateCar(c *gin.Context) {
	var req dto.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	car, err := h.Repository.CreateCar(req.Brand, req.Model, req.Year, req.Body, req.Engine)
	if err != nil {
		logrus.Error("Error creating car: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания автомобиля")
		return
	}

	c.JSON(http.StatusCreated, dto.CarResponse{
		ID:     car.ID,
		Brand:  car.Brand,
		Model:  car.Model,
		Year:   car.Year,
		Body:   car.Body,
		Engine: car.Engine,
	})
}

// UpdateCar обновляет автомобиль
// @Summary Обновление автомобиля
// @Tags Cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID автомобиля"
// @Param request body dto.UpdateCarRequest true "Данные для обновления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/cars/{id} [put]
func (h *APIHandler) UpdateCar(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID автомобиля")
		return
	}

	var req dto.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	// Проверяем существование автомобиля
	exists, err := h.Repository.CarExists(uint(id))
	if err != nil || !exists {
		h.errorResponse(c, http.StatusNotFound, "Автомобиль не найден")
		return
	}

	var brand, model, body, engine *string
	var year *int

	if req.Brand != "" {
		brand = &req.Brand
	}
	if req.Model != "" {
		model = &req.Model
	}
	if req.Body != "" {
		body = &req.Body
	}
	if req.Engine != "" {
		engine = &req.Engine
	}
	if req.Year > 0 {
		year = &req.Year
	}

	err = h.Repository.UpdateCar(uint(id), brand, model, body, engine, year)
	if err != nil {
		logrus.Error("Error updating car: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления автомобиля")
		return
	}

	h.successResponse(c, http.StatusOK, "Автомобиль успешно обновлен", nil)
}

// DeleteCar удаляет автомобиль из каталога
// @Summary Удаление автомобиля
// @Description Логически удаляет автомобиль из каталога
// @Tags Cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID автомобиля"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/cars/{id} [delete]
func (h *APIHandler) DeleteCar(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID автомобиля")
		return
	}

	// Сначала получаем автомобиль чтобы удалить изображение
	car, _ := h.Repository.GetCarByID(uint(id))
	if car != nil && car.ImageURL != nil && *car.ImageURL != "" {
		if h.MinIOClient != nil {
			if err := h.MinIOClient.DeleteFile(*car.ImageURL); err != nil {
				logrus.Warnf("Failed to delete image from MinIO: %v", err)
			}
		}
		h.Repository.DeleteCarImage(uint(id))
	}

	// Логическое удаление
	err = h.Repository.DeleteCar(uint(id))
	if err != nil {
		logrus.Error("Error deleting car: ", err)
		h.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Автомобиль успешно удален", nil)
}

// UploadCarImage загружает фотографию автомобиля
// @Summary Загрузка фотографии автомобиля
// @Description Загружает фотографию в MinIO
// @Tags Cars
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID автомобиля"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/cars/{id}/image [post]
func (h *APIHandler) UploadCarImage(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID автомобиля")
		return
	}

	car, err := h.Repository.GetCarByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Автомобиль не найден")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	// Удаляем старое изображение из MinIO (если есть)
	if car.ImageURL != nil && *car.ImageURL != "" && h.MinIOClient != nil {
		if err := h.MinIOClient.DeleteFile(*car.ImageURL); err != nil {
			logrus.Warnf("Failed to delete old image %s: %v", *car.ImageURL, err)
		}
	}

	// Загружаем новое изображение в MinIO
	var imageURL string
	if h.MinIOClient != nil {
		imageURL, err = h.MinIOClient.UploadFile(fileData, file.Filename)
		if err != nil {
			logrus.Error("Error uploading to MinIO: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки изображения")
			return
		}
	} else {
		// Fallback если MinIO не настроен
		imageURL = "uploaded_" + file.Filename
	}

	err = h.Repository.UpdateCarImage(uint(id), imageURL)
	if err != nil {
		logrus.Error("Error updating car image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления изображения")
		return
	}

	h.successResponse(c, http.StatusOK, "Изображение успешно загружено", gin.H{
		"image_url": imageURL,
	})
}

// ============ ПОЗИЦИИ ДИЛЕРОВ ============

// GetDealerListings получает витрину дилера
// @Summary Витрина дилера
// @Description Возвращает доступные автомобили дилера с ценами
// @Tags Listings
// @Produce json
// @Param id path int true "ID дилера"
// @Success 200 {object} dto.ListingListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dealers/{id}/cars [get]
func (h *APIHandler) GetDealerListings(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID дилера")
		return
	}

	listings, err := h.Repository.GetDealerListings(uint(id))
	if err != nil {
		logrus.Error("Error getting listings: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения витрины")
		return
	}

	dtoListings := make([]dto.ListingResponse, len(listings))
	for i, l := range listings {
		imageURL := ""
		if l.Car.ImageURL != nil {
			imageURL = *l.Car.ImageURL
		}
		dtoListings[i] = dto.ListingResponse{
			DealerID:    l.DealerID,
			CarID:       l.CarID,
			Price:       l.Price,
			IsAvailable: l.IsAvailable,
			Car: dto.CarResponse{
				ID:       l.Car.ID,
				Brand:    l.Car.Brand,
				Model:    l.Car.Model,
				Year:     l.Car.Year,
				Body:     l.Car.Body,
				Engine:   l.Car.Engine,
				ImageURL: imageURL,
			},
		}
	}

	c.JSON(http.StatusOK, dto.ListingListResponse{
		Listings: dtoListings,
		Total:    len(dtoListings),
	})
}

// CreateListing добавляет автомобиль на витрину дилера
// @Summary Добавление позиции дилера
// @Description Привязывает автомобиль каталога к дилеру с ценой
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID дилера"
// @Param request body dto.CreateListingRequest true "Данные позиции"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/dealers/{id}/cars [post]
func (h *APIHandler) CreateListing(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	dealerID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || dealerID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID дилера")
		return
	}

	if !policy.CanManageCars(actor, uint(dealerID)) {
		h.errorResponse(c, http.StatusForbidden, "Управление витриной доступно администратору своего дилера")
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	exists, err := h.Repository.CarExists(req.CarID)
	if err != nil || !exists {
		h.errorResponse(c, http.StatusNotFound, "Автомобиль не найден")
		return
	}

	listing, err := h.Repository.CreateListing(uint(dealerID), req.CarID, req.Price)
	if err != nil {
		logrus.Error("Error creating listing: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания позиции")
		return
	}

	h.successResponse(c, http.StatusCreated, "Позиция добавлена", gin.H{
		"dealer_id": listing.DealerID,
		"car_id":    listing.CarID,
		"price":     listing.Price,
	})
}

// UpdateListing изменяет цену или доступность позиции
// @Summary Обновление позиции дилера
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID дилера"
// @Param car_id path int true "ID автомобиля"
// @Param request body dto.UpdateListingRequest true "Данные для обновления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/dealers/{id}/cars/{car_id} [put]
func (h *APIHandler) UpdateListing(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	dealerID, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	carID, err2 := strconv.ParseUint(c.Param("car_id"), 10, 32)
	if err1 != nil || err2 != nil || dealerID == 0 || carID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверные ID")
		return
	}

	if !policy.CanManageCars(actor, uint(dealerID)) {
		h.errorResponse(c, http.StatusForbidden, "Управление витриной доступно администратору своего дилера")
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	err = h.Repository.UpdateListing(uint(dealerID), uint(carID), req.Price, req.IsAvailable)
	if err != nil {
		h.coreError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Позиция обновлена", nil)
}
