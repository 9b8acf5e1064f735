package repository

import (
	"testing"

	"automarket/internal/app/apperr"
	"automarket/internal/app/ds"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewWithDB(gdb), mock
}

// expectFetchApplication отвечает на SELECT заявки и preload связанных таблиц
func expectFetchApplication(mock sqlmock.Sqlmock, id uint, status string, managerID *uint) {
	appRows := sqlmock.NewRows([]string{"id", "car_id", "dealer_id", "user_id", "status", "manager_id"}).
		AddRow(id, 1, 1, 10, status, managerID)
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE "applications"\."id" = \$1`).
		WillReturnRows(appRows)

	mock.ExpectQuery(`SELECT \* FROM "cars"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "brand", "model"}).AddRow(1, "Hyundai", "Tucson"))
	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Астана Моторс"))
	if managerID != nil {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "login"}).AddRow(*managerID, "manager1"))
	}
}

func TestClaimApplication_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE applications SET manager_id = \$1, status = \$2 WHERE id = \$3 AND manager_id IS NULL AND status IN \(\$4,\$5\)`).
		WithArgs(uint(20), ds.StatusInProgress, uint(1), ds.StatusNew, ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mgr := uint(20)
	expectFetchApplication(mock, 1, ds.StatusInProgress, &mgr)

	app, err := repo.ClaimApplication(1, 20)
	require.NoError(t, err)
	require.NotNil(t, app.ManagerID)
	assert.Equal(t, uint(20), *app.ManagerID)
	assert.Equal(t, ds.StatusInProgress, app.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimApplication_AlreadyClaimed(t *testing.T) {
	repo, mock := newMockRepo(t)

	// условный UPDATE не затронул строк
	mock.ExpectExec(`UPDATE applications SET manager_id = \$1, status = \$2 WHERE id = \$3 AND manager_id IS NULL AND status IN \(\$4,\$5\)`).
		WithArgs(uint(21), ds.StatusInProgress, uint(1), ds.StatusNew, ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// повторное чтение: заявка существует, значит уже взята
	other := uint(20)
	expectFetchApplication(mock, 1, ds.StatusInProgress, &other)

	app, err := repo.ClaimApplication(1, 21)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimApplication_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE applications SET manager_id = \$1, status = \$2 WHERE id = \$3 AND manager_id IS NULL AND status IN \(\$4,\$5\)`).
		WithArgs(uint(20), ds.StatusInProgress, uint(99), ds.StatusNew, ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// повторное чтение: заявки нет
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE "applications"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app, err := repo.ClaimApplication(99, 20)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimApplication_TerminalStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	// отменённая незанятая заявка не проходит условие по статусу
	mock.ExpectExec(`UPDATE applications SET manager_id = \$1, status = \$2 WHERE id = \$3 AND manager_id IS NULL AND status IN \(\$4,\$5\)`).
		WithArgs(uint(20), ds.StatusInProgress, uint(1), ds.StatusNew, ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// повторное чтение: заявка в терминальном статусе, менеджер пуст
	expectFetchApplication(mock, 1, ds.StatusCancelled, nil)

	app, err := repo.ClaimApplication(1, 20)
	assert.Nil(t, app)
	assert.True(t, apperr.IsValidation(err), "ожидалась ошибка валидации, получено: %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	// переход в COMPLETED разрешён только из IN_PROGRESS
	mock.ExpectExec(`UPDATE applications SET status = \$1 WHERE id = \$2 AND status IN \(\$3\)`).
		WithArgs(ds.StatusCompleted, uint(1), ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mgr := uint(20)
	expectFetchApplication(mock, 1, ds.StatusCompleted, &mgr)

	app, err := repo.UpdateApplicationStatus(1, ds.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusCompleted, app.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus_CancelFromTwoSources(t *testing.T) {
	repo, mock := newMockRepo(t)

	// отмена возможна из NEW и из IN_PROGRESS
	mock.ExpectExec(`UPDATE applications SET status = \$1 WHERE id = \$2 AND status IN \(\$3,\$4\)`).
		WithArgs(ds.StatusCancelled, uint(1), ds.StatusNew, ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectFetchApplication(mock, 1, ds.StatusCancelled, nil)

	app, err := repo.UpdateApplicationStatus(1, ds.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusCancelled, app.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus_BlockedTransition(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE applications SET status = \$1 WHERE id = \$2 AND status IN \(\$3\)`).
		WithArgs(ds.StatusCompleted, uint(1), ds.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// повторное чтение показывает терминальный статус
	expectFetchApplication(mock, 1, ds.StatusCancelled, nil)

	app, err := repo.UpdateApplicationStatus(1, ds.StatusCompleted)
	assert.Nil(t, app)
	assert.True(t, apperr.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus_InvalidTarget(t *testing.T) {
	repo, mock := newMockRepo(t)

	// NEW не является целевым статусом ни одного перехода, запрос в БД не уходит
	app, err := repo.UpdateApplicationStatus(1, ds.StatusNew)
	assert.Nil(t, app)
	assert.True(t, apperr.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
