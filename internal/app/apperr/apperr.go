package apperr

import (
	"errors"
	"fmt"
)

// Классы ошибок ядра. Обработчики переводят их в HTTP статусы:
// ValidationError -> 400, ErrForbidden -> 403, ErrNotFound -> 404,
// ErrConflict -> 409, всё остальное -> 500.
var (
	ErrNotFound  = errors.New("запись не найдена")
	ErrForbidden = errors.New("недостаточно прав для выполнения операции")
	ErrConflict  = errors.New("заявка уже взята в работу другим менеджером")
)

// ValidationError - некорректные входные данные, исправляются вызывающей стороной
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
