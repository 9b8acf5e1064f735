package handler

import (
	"net/http"
	"strconv"
	"time"

	"automarket/internal/app/calculator"
	"automarket/internal/app/ds"
	"automarket/internal/app/dto"
	"automarket/internal/app/service"

	"github.com/gin-gonic/gin"
)

// ============ ДОМЕН КРЕДИТНЫЕ ЗАЯВКИ ============

func applicationToDTO(app *ds.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:        app.ID,
		CarID:     app.CarID,
		DealerID:  app.DealerID,
		UserID:    app.UserID,
		CreatedAt: app.CreatedAt,

		Name:   app.Name,
		Phone:  app.Phone,
		City:   app.City,
		IIN:    app.IIN,
		Salary: app.Salary,

		CarPrice:       app.CarPrice,
		DownPayment:    app.DownPayment,
		LoanTerm:       app.LoanTerm,
		MonthlyPayment: app.MonthlyPayment,
		CreditScore:    app.CreditScore,

		Status: app.Status,
	}

	if app.ManagerCode != nil {
		resp.ManagerCode = *app.ManagerCode
	}
	if app.Message != nil {
		resp.Message = *app.Message
	}
	if app.Manager != nil {
		resp.Manager = app.Manager.Login
	}
	if app.Car.ID != 0 {
		resp.Car = app.Car.Brand + " " + app.Car.Model
	}
	if app.Dealer.ID != 0 {
		resp.Dealer = app.Dealer.Name
	}

	return resp
}

// CalculateCredit считает аннуитетный платёж
// @Summary Кредитный калькулятор
// @Description Возвращает ежемесячный платёж, общую сумму выплат и переплату
// @Tags Credit
// @Produce json
// @Param price query number true "Стоимость автомобиля"
// @Param down_payment query number false "Первоначальный взнос"
// @Param loan_term query int true "Срок кредита в месяцах"
// @Param annual_rate query number false "Годовая ставка, % (по умолчанию 18)"
// @Success 200 {object} dto.CalculateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/credit/calculate [get]
func (h *APIHandler) CalculateCredit(c *gin.Context) {
	var req dto.CalculateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	rate := calculator.DefaultAnnualRate
	if req.AnnualRate != nil {
		rate = *req.AnnualRate
	}

	quote, err := calculator.Calculate(req.Price, req.DownPayment, req.LoanTerm, rate)
	if err != nil {
		h.coreError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CalculateResponse{
		LoanAmount:     quote.LoanAmount,
		MonthlyPayment: quote.MonthlyPayment,
		TotalPayment:   quote.TotalPayment,
		Overpayment:    quote.Overpayment,
	})
}

// SubmitApplication подает кредитную заявку
// @Summary Подача кредитной заявки
// @Description Создаёт заявку в статусе NEW: цена берётся из позиции дилера, платёж считается на сервере, присваивается скоринговый балл
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitApplicationRequest true "Данные заявки"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/applications [post]
func (h *APIHandler) SubmitApplication(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	app, err := h.Applications.Submit(actor, service.SubmitInput{
		CarID:       req.CarID,
		DealerID:    req.DealerID,
		Name:        req.Name,
		Phone:       req.Phone,
		City:        req.City,
		IIN:         req.IIN,
		Salary:      req.Salary,
		ManagerCode: req.ManagerCode,
		Message:     req.Message,
		DownPayment: req.DownPayment,
		LoanTerm:    req.LoanTerm,
		AnnualRate:  req.AnnualRate,
	})
	if err != nil {
		h.coreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, applicationToDTO(app))
}

// GetApplications получает список заявок в области видимости актора
// @Summary Получение списка заявок
// @Description Клиент видит свои заявки, менеджер - незанятые заявки своего дилера и свои назначенные, админ дилера - весь дилер, суперадмин - всё
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "Дата начала (формат: 2006-01-02)"
// @Param date_to query string false "Дата окончания (формат: 2006-01-02)"
// @Success 200 {object} dto.ApplicationListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/applications [get]
func (h *APIHandler) GetApplications(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	status := c.Query("status")

	var dateFrom, dateTo *time.Time
	if s := c.Query("date_from"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			dateFrom = &parsed
		}
	}
	if s := c.Query("date_to"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			dateTo = &parsed
		}
	}

	apps, err := h.Applications.List(actor, status, dateFrom, dateTo)
	if err != nil {
		h.coreError(c, err)
		return
	}

	dtoApps := make([]dto.ApplicationResponse, len(apps))
	for i := range apps {
		dtoApps[i] = applicationToDTO(&apps[i])
	}

	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Applications: dtoApps,
		Total:        len(dtoApps),
	})
}

// GetApplication получает одну заявку
// @Summary Получение заявки по ID
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/applications/{id} [get]
func (h *APIHandler) GetApplication(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	app, err := h.Applications.Get(actor, uint(id))
	if err != nil {
		h.coreError(c, err)
		return
	}

	c.JSON(http.StatusOK, applicationToDTO(app))
}

// ChangeApplicationStatus переводит заявку в новый статус
// @Summary Изменение статуса заявки
// @Description Переход по таблице статусов, выход из COMPLETED и CANCELLED запрещён
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.ChangeStatusRequest true "Новый статус"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/applications/{id}/status [put]
func (h *APIHandler) ChangeApplicationStatus(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	app, err := h.Applications.ChangeStatus(actor, uint(id), req.Status)
	if err != nil {
		h.coreError(c, err)
		return
	}

	c.JSON(http.StatusOK, applicationToDTO(app))
}

// ClaimApplication берет заявку в работу
// @Summary Взятие заявки в работу
// @Description Атомарно назначает менеджера и переводит заявку в IN_PROGRESS; если заявка уже взята - 409
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/applications/{id}/claim [post]
func (h *APIHandler) ClaimApplication(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	app, err := h.Applications.Claim(actor, uint(id))
	if err != nil {
		h.coreError(c, err)
		return
	}

	c.JSON(http.StatusOK, applicationToDTO(app))
}
