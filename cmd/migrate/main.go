package main

import (
	"crypto/sha1"
	"encoding/hex"
	"log"
	"os"

	"automarket/internal/app/ds"
	"automarket/internal/app/dsn"
	"automarket/internal/app/role"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	// Получение DSN строки подключения
	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	// Подключение к базе данных
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Dealer{},
		&ds.Car{},
		&ds.DealerCar{},
		&ds.Application{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")

	seedSuperAdmin(db)
}

// seedSuperAdmin создает суперадмина, если его еще нет
func seedSuperAdmin(db *gorm.DB) {
	login := os.Getenv("ADMIN_LOGIN")
	password := os.Getenv("ADMIN_PASSWORD")
	if login == "" || password == "" {
		log.Println("ADMIN_LOGIN/ADMIN_PASSWORD not set, skipping super admin seed")
		return
	}

	var count int64
	db.Model(&ds.User{}).Where("login = ?", login).Count(&count)
	if count > 0 {
		log.Println("Super admin already exists")
		return
	}

	hash := sha1.New()
	hash.Write([]byte(password))
	admin := ds.User{
		Login:    login,
		Password: hex.EncodeToString(hash.Sum(nil)),
		FullName: "Администратор",
		Role:     int(role.SuperAdmin),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	log.Println("Super admin seeded successfully")
}
