package repository

import (
	"time"

	"automarket/internal/app/apperr"
	"automarket/internal/app/ds"
	"automarket/internal/app/policy"
)

// Методы для работы с кредитными заявками

func (r *Repository) CreateApplication(app *ds.Application) error {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	return r.db.Create(app).Error
}

func (r *Repository) GetApplicationByID(id uint) (*ds.Application, error) {
	var app ds.Application
	err := r.db.Preload("Car").Preload("Dealer").Preload("Manager").
		First(&app, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &app, nil
}

// Список заявок в области видимости актора, с фильтрами по статусу и датам
func (r *Repository) ListApplications(scope policy.ListScope, status string, dateFrom, dateTo *time.Time) ([]ds.Application, error) {
	q := r.db.Preload("Car").Preload("Dealer").Preload("Manager")

	if scope.UserID != nil {
		q = q.Where("user_id = ?", *scope.UserID)
	}
	if scope.DealerID != nil {
		q = q.Where("dealer_id = ?", *scope.DealerID)
	}
	if scope.ManagerID != nil {
		// Менеджер видит незанятые заявки и заявки, взятые им самим
		q = q.Where("manager_id IS NULL OR manager_id = ?", *scope.ManagerID)
	}

	if status != "" {
		q = q.Where("status = ?", status)
	}
	if dateFrom != nil {
		q = q.Where("created_at >= ?", *dateFrom)
	}
	if dateTo != nil {
		q = q.Where("created_at <= ?", *dateTo)
	}

	var apps []ds.Application
	err := q.Order("created_at DESC").Find(&apps).Error
	return apps, err
}

// ClaimApplication атомарно назначает менеджера на незанятую заявку.
// Одиночный условный UPDATE: при двух одновременных попытках ровно одна
// проходит, вторая получает apperr.ErrConflict. Условие по статусу не даёт
// реанимировать отменённую или завершённую заявку: незанятая заявка в
// терминальном статусе (NEW → CANCELLED не трогает manager_id) иначе
// вернулась бы в IN_PROGRESS.
func (r *Repository) ClaimApplication(id, managerID uint) (*ds.Application, error) {
	result := r.db.Exec(
		"UPDATE applications SET manager_id = ?, status = ? WHERE id = ? AND manager_id IS NULL AND status IN ?",
		managerID, ds.StatusInProgress, id, []string{ds.StatusNew, ds.StatusInProgress},
	)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Заявки нет, она в терминальном статусе или уже взята -
		// различаем повторным чтением
		app, err := r.GetApplicationByID(id)
		if err != nil {
			return nil, err
		}
		if ds.IsTerminalStatus(app.Status) {
			return nil, apperr.NewValidation("заявка в статусе %s, взятие в работу невозможно", app.Status)
		}
		return nil, apperr.ErrConflict
	}

	return r.GetApplicationByID(id)
}

// UpdateApplicationStatus переводит заявку в новый статус. Условие по
// исходным статусам входит в сам UPDATE, поэтому недопустимый переход
// (в т.ч. из терминального состояния) не проходит даже при гонке.
func (r *Repository) UpdateApplicationStatus(id uint, status string) (*ds.Application, error) {
	sources := ds.TransitionSources(status)
	if sources == nil {
		return nil, apperr.NewValidation("недопустимый статус заявки: %s", status)
	}

	result := r.db.Exec(
		"UPDATE applications SET status = ? WHERE id = ? AND status IN ?",
		status, id, sources,
	)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		app, err := r.GetApplicationByID(id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.NewValidation("переход из статуса %s в %s невозможен", app.Status, status)
	}

	return r.GetApplicationByID(id)
}
