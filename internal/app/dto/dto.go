package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Автомобили (Cars) ============

type CarResponse struct {
	ID       uint   `json:"id"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Body     string `json:"body"`
	Engine   string `json:"engine"`
	ImageURL string `json:"image_url,omitempty"`
}

type CarListResponse struct {
	Cars  []CarResponse `json:"cars"`
	Total int           `json:"total"`
}

type CreateCarRequest struct {
	Brand  string `json:"brand" binding:"required"`
	Model  string `json:"model" binding:"required"`
	Year   int    `json:"year" binding:"required,gte=1990"`
	Body   string `json:"body"`
	Engine string `json:"engine"`
}

type UpdateCarRequest struct {
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Year   int    `json:"year" binding:"omitempty,gte=1990"`
	Body   string `json:"body"`
	Engine string `json:"engine"`
}

// ============ Дилеры (Dealers) ============

type DealerResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type DealerListResponse struct {
	Dealers []DealerResponse `json:"dealers"`
	Total   int              `json:"total"`
}

type CreateDealerRequest struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateDealerRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ============ Позиции дилеров (Listings) ============

type ListingResponse struct {
	DealerID    uint        `json:"dealer_id"`
	CarID       uint        `json:"car_id"`
	Price       float64     `json:"price"`
	IsAvailable bool        `json:"is_available"`
	Car         CarResponse `json:"car"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int               `json:"total"`
}

type CreateListingRequest struct {
	CarID uint    `json:"car_id" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

type UpdateListingRequest struct {
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	IsAvailable *bool    `json:"is_available"`
}

// ============ Кредитный калькулятор ============

type CalculateRequest struct {
	Price       float64  `form:"price" json:"price" binding:"required"`
	DownPayment float64  `form:"down_payment" json:"down_payment"`
	LoanTerm    int      `form:"loan_term" json:"loan_term" binding:"required"`
	AnnualRate  *float64 `form:"annual_rate" json:"annual_rate"`
}

type CalculateResponse struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	Overpayment    float64 `json:"overpayment"`
}

// ============ Кредитные заявки (Applications) ============

type SubmitApplicationRequest struct {
	CarID    uint `json:"car_id" binding:"required"`
	DealerID uint `json:"dealer_id" binding:"required"`

	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	City        string  `json:"city" binding:"required"`
	IIN         string  `json:"iin" binding:"required"`
	Salary      float64 `json:"salary" binding:"required,gt=0"`
	ManagerCode string  `json:"manager_code"`
	Message     string  `json:"message"`

	DownPayment float64  `json:"down_payment" binding:"gte=0"`
	LoanTerm    int      `json:"loan_term" binding:"required,gt=0"`
	AnnualRate  *float64 `json:"annual_rate"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationResponse struct {
	ID        uint      `json:"id"`
	CarID     uint      `json:"car_id"`
	DealerID  uint      `json:"dealer_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	City        string  `json:"city"`
	IIN         string  `json:"iin"`
	Salary      float64 `json:"salary"`
	ManagerCode string  `json:"manager_code,omitempty"`
	Message     string  `json:"message,omitempty"`

	CarPrice       float64 `json:"car_price"`
	DownPayment    float64 `json:"down_payment"`
	LoanTerm       int     `json:"loan_term"`
	MonthlyPayment float64 `json:"monthly_payment"`
	CreditScore    int     `json:"credit_score"`

	Status  string `json:"status"`
	Manager string `json:"manager,omitempty"` // логин назначенного менеджера
	Car     string `json:"car,omitempty"`     // марка и модель
	Dealer  string `json:"dealer,omitempty"`  // название дилера
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     int    `json:"role"`
	DealerID *uint  `json:"dealer_id,omitempty"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// CreateUserRequest - заведение учётной записи суперадмином.
// Роль передаётся строковым именем, как она хранится в JWT и отчётах.
type CreateUserRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
	DealerID *uint  `json:"dealer_id"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
