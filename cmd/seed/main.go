package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authgate/internal/config"
	"authgate/internal/db"
	"authgate/internal/model"
	"authgate/internal/repository"
)

// demoUser is one entry of the demo roster.
type demoUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

var demoUsers = []demoUser{
	{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "pw123"},
	{FirstName: "Bob", LastName: "Stone", Email: "bob@example.com", Password: "hunter2"},
	{FirstName: "Cora", LastName: "Diaz", Email: "cora@example.com", Password: "s3cret"},
	{FirstName: "Dan", LastName: "Okafor", Email: "dan@example.com", Password: "letmein"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, item := range demoUsers {
		_, err := userRepo.FindByEmail(ctx, item.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check %s: %v", item.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", item.Email, err)
		}

		user := &model.User{
			FirstName:    item.FirstName,
			LastName:     item.LastName,
			Email:        item.Email,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create %s: %v", item.Email, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}
