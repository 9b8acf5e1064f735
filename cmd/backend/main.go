package main

import (
	"context"
	"log"

	"automarket/internal/app/config"
	"automarket/internal/app/dsn"
	"automarket/internal/app/handler"
	"automarket/internal/app/middleware"
	"automarket/internal/app/redis"
	"automarket/internal/app/repository"
	"automarket/internal/app/scoring"
	"automarket/internal/app/service"
	"automarket/internal/app/storage"
	"automarket/internal/pkg"

	_ "automarket/docs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Automarket API
// @version 1.0
// @description API маркетплейса автомобилей: каталог, дилеры, кредитный калькулятор и кредитные заявки

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("ошибка инициализации репозитория: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("ошибка подключения к Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logrus.Fatalf("ошибка подключения к MinIO: %v", err)
	}

	applications := service.NewApplicationService(repo, scoring.New())
	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, applications, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()
	app := pkg.NewApp(cfg, router, apiHandler, authMiddleware)
	app.RunApp()

	log.Println("App terminated")
}
