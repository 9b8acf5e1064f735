package repository

import (
	"errors"
	"fmt"

	"automarket/internal/app/apperr"
	"automarket/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Dealer{},
		&ds.Car{},
		&ds.DealerCar{},
		&ds.Application{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// NewWithDB оборачивает готовое соединение (используется тестами с sqlmock)
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Перевод ошибок gorm в ошибки ядра
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
