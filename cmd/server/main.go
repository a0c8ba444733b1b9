package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "authgate/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authgate/internal/auth"
	"authgate/internal/cache"
	"authgate/internal/config"
	"authgate/internal/db"
	"authgate/internal/handler"
	"authgate/internal/model"
	"authgate/internal/repository"
	"authgate/internal/router"
	"authgate/internal/service"
)

// @title Auth Service API
// @version 1.0
// @description Minimal authentication API: signup, login, token-based session retrieval, and email lookup.
// @host localhost:8080
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

	// Drop the users table if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping users table...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, jwtService, cacheClient)
	userHandler := handler.NewUserHandler(authService)

	router.Register(e, userHandler)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
