package main

import (
	"log"
	"net/http"

	_ "kiitrentals/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"kiitrentals/internal/auth"
	"kiitrentals/internal/cache"
	"kiitrentals/internal/config"
	"kiitrentals/internal/db"
	"kiitrentals/internal/handler"
	"kiitrentals/internal/model"
	"kiitrentals/internal/repository"
	"kiitrentals/internal/router"
	"kiitrentals/internal/service"
)

// @title KIIT Rentals API
// @version 1.0
// @description Campus marketplace API with user accounts and product listings.
// @host localhost:5001
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	productService := service.NewProductService(
		productRepo,
		service.NewListingValidator(),
		service.NewJPEGNormalizer(),
		cacheClient,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)

	router.Register(e, cfg, authHandler, productHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
