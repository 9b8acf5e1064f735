package handler

import (
	"net/http"

	"automarket/internal/app/dto"
	"automarket/internal/app/middleware"
	"automarket/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// REST API маршруты
	api := router.Group("/api")

	// ============ Каталог (Cars) - публичный просмотр, управление для админов ============
	cars := api.Group("/cars")
	{
		// Публичные эндпоинты (без авторизации)
		cars.GET("", h.GetCars)
		cars.GET("/:id", h.GetCar)

		// Управление каталогом
		cars.POST("", authMiddleware.WithAuthCheck(role.DealerAdmin, role.SuperAdmin), h.CreateCar)
		cars.PUT("/:id", authMiddleware.WithAuthCheck(role.DealerAdmin, role.SuperAdmin), h.UpdateCar)
		cars.DELETE("/:id", authMiddleware.WithAuthCheck(role.SuperAdmin), h.DeleteCar)
		cars.POST("/:id/image", authMiddleware.WithAuthCheck(role.DealerAdmin, role.SuperAdmin), h.UploadCarImage)
	}

	// ============ Дилеры (Dealers) - публичный просмотр, справочник ведет суперадмин ============
	dealers := api.Group("/dealers")
	{
		dealers.GET("", h.GetDealers)
		dealers.GET("/:id", h.GetDealer)
		dealers.GET("/:id/cars", h.GetDealerListings)

		dealers.POST("", authMiddleware.WithAuthCheck(role.SuperAdmin), h.CreateDealer)
		dealers.PUT("/:id", authMiddleware.WithAuthCheck(role.SuperAdmin), h.UpdateDealer)

		// Витрина дилера - админ дилера (своего) и суперадмин, доп. проверка в policy
		dealers.POST("/:id/cars", authMiddleware.WithAuthCheck(role.DealerAdmin, role.SuperAdmin), h.CreateListing)
		dealers.PUT("/:id/cars/:car_id", authMiddleware.WithAuthCheck(role.DealerAdmin, role.SuperAdmin), h.UpdateListing)
	}

	// ============ Кредитный калькулятор - публичный ============
	api.GET("/credit/calculate", h.CalculateCredit)

	// ============ Кредитные заявки (Applications) ============
	applications := api.Group("/applications")
	{
		// Подача и просмотр - любой авторизованный, область видимости решает policy
		applications.POST("", authMiddleware.WithAuthCheck(), h.SubmitApplication)
		applications.GET("", authMiddleware.WithAuthCheck(), h.GetApplications)
		applications.GET("/:id", authMiddleware.WithAuthCheck(), h.GetApplication)

		// Жизненный цикл - только персонал, принадлежность дилеру решает policy
		applications.PUT("/:id/status", authMiddleware.WithAuthCheck(role.Manager, role.DealerAdmin, role.SuperAdmin), h.ChangeApplicationStatus)
		applications.POST("/:id/claim", authMiddleware.WithAuthCheck(role.Manager, role.DealerAdmin, role.SuperAdmin), h.ClaimApplication)
	}

	// ============ Пользователи - учётные записи ведёт суперадмин ============
	users := api.Group("/users", authMiddleware.WithAuthCheck(role.SuperAdmin))
	{
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.CreateUser)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.GET("/profile", authMiddleware.WithAuthCheck(), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(), h.UpdateProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.LogoutUser)
	}

	// Swagger документация
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}

// UpdateProfile обновляет профиль пользователя
// @Summary Обновление профиля
// @Description Обновляет данные профиля текущего пользователя
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Данные для обновления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auth/profile [put]
func (h *APIHandler) UpdateProfile(c *gin.Context) {
	actor, err := h.actorFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	var fullName, phone, password *string
	if req.FullName != "" {
		fullName = &req.FullName
	}
	if req.Phone != "" {
		phone = &req.Phone
	}
	if req.Password != "" {
		hashed := generateHashString(req.Password)
		password = &hashed
	}

	err = h.Repository.UpdateUser(actor.ID, fullName, phone, password)
	if err != nil {
		logrus.Error("Error updating user: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления профиля")
		return
	}

	h.successResponse(c, http.StatusOK, "Профиль успешно обновлен", nil)
}
