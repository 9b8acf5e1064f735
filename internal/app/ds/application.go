package ds

import "time"

// Статусы кредитной заявки
const (
	StatusNew        = "NEW"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Таблица кредитных заявок. Финансовый снимок (CarPrice, DownPayment,
// LoanTerm, MonthlyPayment) и CreditScore фиксируются при создании и
// больше не пересчитываются.
type Application struct {
	ID        uint      `gorm:"primaryKey"`
	CarID     uint      `gorm:"not null;index"`
	DealerID  uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`

	// Контактные данные заёмщика
	Name        string  `gorm:"type:varchar(100);not null"`
	Phone       string  `gorm:"type:varchar(20);not null"`
	City        string  `gorm:"type:varchar(100);not null"`
	IIN         string  `gorm:"type:varchar(12);not null"` // ИИН заёмщика
	Salary      float64 `gorm:"type:decimal(12,2);not null"`
	ManagerCode *string `gorm:"type:varchar(50)"` // Свободный текст, не проверяется по справочнику менеджеров
	Message     *string `gorm:"type:text"`

	// Финансовый снимок на момент подачи
	CarPrice       float64 `gorm:"type:decimal(12,2);not null"`
	DownPayment    float64 `gorm:"type:decimal(12,2);not null"`
	LoanTerm       int     `gorm:"type:int;not null"` // срок в месяцах
	MonthlyPayment float64 `gorm:"type:decimal(12,2);not null"`
	CreditScore    int     `gorm:"type:int;not null"`

	Status    string `gorm:"type:varchar(20);not null;default:'NEW'"`
	ManagerID *uint  `gorm:"default:null;index"` // NULL - заявка никем не взята

	Car     Car    `gorm:"foreignKey:CarID"`
	Dealer  Dealer `gorm:"foreignKey:DealerID"`
	User    User   `gorm:"foreignKey:UserID"`
	Manager *User  `gorm:"foreignKey:ManagerID"`
}

// IsValidStatus проверяет что значение входит в перечень статусов
func IsValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminalStatus - из COMPLETED и CANCELLED переходов нет
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition - таблица допустимых переходов статусов.
// Возврат в NEW невозможен ни из какого состояния.
func CanTransition(from, to string) bool {
	switch from {
	case StatusNew:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// TransitionSources возвращает статусы, из которых разрешён переход в to.
// Используется репозиторием в условии атомарного UPDATE.
func TransitionSources(to string) []string {
	switch to {
	case StatusInProgress:
		return []string{StatusNew}
	case StatusCompleted:
		return []string{StatusInProgress}
	case StatusCancelled:
		return []string{StatusNew, StatusInProgress}
	}
	return nil
}
