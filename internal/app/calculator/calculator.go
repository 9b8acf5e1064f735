package calculator

import (
	"math"

	"automarket/internal/app/apperr"
)

// Ставка по умолчанию, % годовых
const DefaultAnnualRate = 18.0

// Quote - результат расчёта аннуитетного кредита.
// Суммы в целых тенге, без тиынов.
type Quote struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	Overpayment    float64 `json:"overpayment"`
}

// Calculate считает фиксированный ежемесячный платёж по аннуитетной формуле:
//
//	payment = loan * r * (1+r)^term / ((1+r)^term - 1), r - месячная ставка
//
// При нулевой ставке формула вырождается (деление на ноль),
// поэтому платёж считается как loan / term.
func Calculate(price, downPayment float64, termMonths int, annualRatePercent float64) (*Quote, error) {
	if price <= 0 {
		return nil, apperr.NewValidation("стоимость автомобиля должна быть положительной")
	}
	if termMonths <= 0 {
		return nil, apperr.NewValidation("срок кредита должен быть положительным числом месяцев")
	}
	if downPayment < 0 {
		return nil, apperr.NewValidation("первоначальный взнос не может быть отрицательным")
	}
	if downPayment >= price {
		return nil, apperr.NewValidation("первоначальный взнос должен быть меньше стоимости автомобиля")
	}
	if annualRatePercent < 0 {
		return nil, apperr.NewValidation("процентная ставка не может быть отрицательной")
	}

	loanAmount := price - downPayment
	monthlyRate := annualRatePercent / 100 / 12

	var payment float64
	if monthlyRate == 0 {
		payment = math.Round(loanAmount / float64(termMonths))
	} else {
		growth := math.Pow(1+monthlyRate, float64(termMonths))
		payment = math.Round(loanAmount * monthlyRate * growth / (growth - 1))
	}

	total := payment*float64(termMonths) + downPayment

	return &Quote{
		LoanAmount:     loanAmount,
		MonthlyPayment: payment,
		TotalPayment:   total,
		Overpayment:    total - price,
	}, nil
}
