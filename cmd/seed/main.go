package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"styledeco/internal/config"
	"styledeco/internal/database"
	"styledeco/internal/domain"
	"styledeco/internal/pkg/logger"
	"styledeco/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	zlog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal("logger: ", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	if !database.IsPostgres(cfg.DatabaseURL) {
		log.Println("Running AutoMigrate...")
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("AutoMigrate failed: ", err)
		}
	}

	// Cleanup in dependency order.
	log.Println("Cleaning old data...")
	for _, table := range []string{"payments", "reviews", "bookings", "services", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	services := repository.NewServiceRepository(db)
	reviews := repository.NewReviewRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	clients := []string{"nadia@example.com", "rafi@example.com", "tanvir@example.com"}
	for i, email := range clients {
		u := &domain.User{
			Email:        email,
			Name:         fmt.Sprintf("Client %d", i+1),
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			Active:       true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal(err)
		}
	}

	decorators := []struct {
		email       string
		phone       string
		specialties []string
	}{
		{"mim.decor@example.com", "+8801700000001", []string{"wedding", "home"}},
		{"arif.decor@example.com", "+8801700000002", []string{"birthday", "corporate"}},
	}
	for i, d := range decorators {
		u := &domain.User{
			Email:        d.email,
			Name:         fmt.Sprintf("Decorator %d", i+1),
			Phone:        d.phone,
			PasswordHash: string(hash),
			Role:         domain.RoleDecorator,
			Specialties:  d.specialties,
			Active:       true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("Users created (password: password123), admin signs in as %s", cfg.AdminEmail)

	// ================== SERVICES ==================
	log.Println("Creating services...")
	catalog := []struct {
		name, category, unit string
		cost                 int64
	}{
		{"Royal Wedding Stage", "wedding", "per event", 85000},
		{"Holud Night Setup", "wedding", "per event", 45000},
		{"Balloon Birthday Package", "birthday", "per event", 12000},
		{"Living Room Makeover", "home", "per room", 25000},
		{"Office Launch Backdrop", "corporate", "per event", 30000},
		{"Seminar Hall Dressing", "seminar", "per sq ft", 40},
	}

	var created []domain.Service
	for _, c := range catalog {
		s := &domain.Service{
			Name:        c.name,
			Cost:        decimal.NewFromInt(c.cost),
			Unit:        c.unit,
			Category:    c.category,
			Description: fmt.Sprintf("%s by StyleDecor's in-house team.", c.name),
			Image:       "https://images.styledeco.example/" + c.category + ".jpg",
			CreatedBy:   cfg.AdminEmail,
		}
		if err := services.Create(ctx, s); err != nil {
			log.Fatal(err)
		}
		created = append(created, *s)
	}

	// ================== REVIEWS ==================
	log.Println("Creating reviews...")
	for i, s := range created[:3] {
		rv := &domain.Review{
			ServiceID: s.ID,
			UserEmail: clients[i%len(clients)],
			Rating:    5 - i%2,
			Comment:   "Setup was on time and looked great.",
		}
		if err := reviews.Create(ctx, rv); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("Seed complete: %d users, %d services", len(clients)+len(decorators), len(created))
}
