package service

import (
	"regexp"
	"time"

	"automarket/internal/app/apperr"
	"automarket/internal/app/calculator"
	"automarket/internal/app/ds"
	"automarket/internal/app/policy"
	"automarket/internal/app/scoring"
)

// ApplicationStore - персистентный коллаборатор жизненного цикла заявки.
// Реализуется *repository.Repository; тесты подставляют in-memory хранилище.
type ApplicationStore interface {
	GetListing(dealerID, carID uint) (*ds.DealerCar, error)
	CreateApplication(app *ds.Application) error
	GetApplicationByID(id uint) (*ds.Application, error)
	ListApplications(scope policy.ListScope, status string, dateFrom, dateTo *time.Time) ([]ds.Application, error)
	ClaimApplication(id, managerID uint) (*ds.Application, error)
	UpdateApplicationStatus(id uint, status string) (*ds.Application, error)
}

// ApplicationService управляет жизненным циклом кредитной заявки:
// подача с расчётом снимка и скорингом, видимость по ролям,
// взятие в работу, смена статуса.
type ApplicationService struct {
	store  ApplicationStore
	scorer *scoring.Generator
}

func NewApplicationService(store ApplicationStore, scorer *scoring.Generator) *ApplicationService {
	return &ApplicationService{
		store:  store,
		scorer: scorer,
	}
}

// Казахстанский мобильный номер
var phoneRe = regexp.MustCompile(`^\+77\d{9}$`)

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SubmitInput - данные формы кредитной заявки
type SubmitInput struct {
	CarID    uint
	DealerID uint

	Name        string
	Phone       string
	City        string
	IIN         string
	Salary      float64
	ManagerCode string
	Message     string

	DownPayment float64
	LoanTerm    int
	AnnualRate  *float64 // nil - ставка по умолчанию
}

// Submit создаёт заявку в статусе NEW. Цена берётся из позиции дилера,
// снимок платежа считается на сервере, скоринговый балл присваивается
// до сохранения - заявки без балла не существует.
func (s *ApplicationService) Submit(actor policy.Actor, in SubmitInput) (*ds.Application, error) {
	if !policy.CanSubmit(actor) {
		return nil, apperr.ErrForbidden
	}

	if in.Name == "" || in.Phone == "" || in.City == "" {
		return nil, apperr.NewValidation("имя, телефон и город обязательны")
	}
	if !phoneRe.MatchString(in.Phone) {
		return nil, apperr.NewValidation("телефон должен быть в формате +77XXXXXXXXX")
	}
	if len(in.IIN) != 12 || !isDigits(in.IIN) {
		return nil, apperr.NewValidation("ИИН должен состоять из 12 цифр")
	}
	if in.Salary <= 0 {
		return nil, apperr.NewValidation("ежемесячный доход должен быть положительным")
	}

	// Ссылочная целостность проверяется только при создании
	listing, err := s.store.GetListing(in.DealerID, in.CarID)
	if err != nil {
		if err == apperr.ErrNotFound {
			return nil, apperr.NewValidation("автомобиль не представлен у выбранного дилера")
		}
		return nil, err
	}
	if !listing.IsAvailable {
		return nil, apperr.NewValidation("автомобиль недоступен для заказа")
	}

	rate := calculator.DefaultAnnualRate
	if in.AnnualRate != nil {
		rate = *in.AnnualRate
	}

	quote, err := calculator.Calculate(listing.Price, in.DownPayment, in.LoanTerm, rate)
	if err != nil {
		return nil, err
	}

	app := &ds.Application{
		CarID:    in.CarID,
		DealerID: in.DealerID,
		UserID:   actor.ID,

		Name:   in.Name,
		Phone:  in.Phone,
		City:   in.City,
		IIN:    in.IIN,
		Salary: in.Salary,

		CarPrice:       listing.Price,
		DownPayment:    in.DownPayment,
		LoanTerm:       in.LoanTerm,
		MonthlyPayment: quote.MonthlyPayment,
		CreditScore:    s.scorer.Score(),

		Status: ds.StatusNew,
	}
	if in.ManagerCode != "" {
		app.ManagerCode = &in.ManagerCode
	}
	if in.Message != "" {
		app.Message = &in.Message
	}

	if err := s.store.CreateApplication(app); err != nil {
		return nil, err
	}

	return app, nil
}

// Get возвращает заявку, если актору разрешено её видеть
func (s *ApplicationService) Get(actor policy.Actor, id uint) (*ds.Application, error) {
	app, err := s.store.GetApplicationByID(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanViewApplication(actor, app) {
		return nil, apperr.ErrForbidden
	}

	return app, nil
}

// List возвращает заявки в области видимости актора
func (s *ApplicationService) List(actor policy.Actor, status string, dateFrom, dateTo *time.Time) ([]ds.Application, error) {
	if status != "" && !ds.IsValidStatus(status) {
		return nil, apperr.NewValidation("недопустимый статус заявки: %s", status)
	}
	return s.store.ListApplications(policy.ScopeFor(actor), status, dateFrom, dateTo)
}

// ChangeStatus переводит заявку в новый статус с проверкой таблицы
// переходов: возврат в NEW и выход из терминальных статусов запрещены.
func (s *ApplicationService) ChangeStatus(actor policy.Actor, id uint, status string) (*ds.Application, error) {
	if !ds.IsValidStatus(status) {
		return nil, apperr.NewValidation("недопустимый статус заявки: %s", status)
	}

	app, err := s.store.GetApplicationByID(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateApplication(actor, app) {
		return nil, apperr.ErrForbidden
	}

	if ds.IsTerminalStatus(app.Status) {
		return nil, apperr.NewValidation("заявка в статусе %s, изменение невозможно", app.Status)
	}
	if !ds.CanTransition(app.Status, status) {
		return nil, apperr.NewValidation("переход из статуса %s в %s невозможен", app.Status, status)
	}

	return s.store.UpdateApplicationStatus(id, status)
}

// Claim назначает заявку на актора и переводит её в IN_PROGRESS одним
// атомарным условным обновлением. При двух одновременных попытках
// побеждает ровно одна, проигравший получает apperr.ErrConflict.
// Терминальные заявки в работу не берутся - отмена незанятой заявки
// не снимает запрет. Обратной операции нет - назначенный менеджер
// не снимается.
func (s *ApplicationService) Claim(actor policy.Actor, id uint) (*ds.Application, error) {
	app, err := s.store.GetApplicationByID(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateApplication(actor, app) {
		return nil, apperr.ErrForbidden
	}

	if ds.IsTerminalStatus(app.Status) {
		return nil, apperr.NewValidation("заявка в статусе %s, взятие в работу невозможно", app.Status)
	}
	if app.ManagerID != nil {
		return nil, apperr.ErrConflict
	}

	return s.store.ClaimApplication(id, actor.ID)
}
