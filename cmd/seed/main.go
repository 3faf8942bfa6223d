package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kiitrentals/internal/config"
	"kiitrentals/internal/db"
	"kiitrentals/internal/model"
	"kiitrentals/internal/repository"
)

const seedOwnerEmail = "seed@kiitrentals.local"

// SeedListing represents one entry of the seed JSON file.
type SeedListing struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Deadline string `json:"deadline"`
	Expiry   string `json:"expiry"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	path := seedFilePath()
	log.Printf("Loading listings from: %s", path)
	listings, err := loadListings(path)
	if err != nil {
		log.Fatalf("Failed to load listings: %v", err)
	}
	log.Printf("Loaded %d listings", len(listings))

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	owner, err := ensureSeedOwner(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to prepare seed owner: %v", err)
	}

	seeded, updated, skipped, err := seedListings(ctx, productRepo, owner.ID, listings)
	if err != nil {
		log.Fatalf("Failed to seed listings: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Listings created: %d", seeded)
	log.Printf("  - Listings updated: %d", updated)
	log.Printf("  - Skipped (invalid): %d", skipped)
}

// seedFilePath resolves the seed file from argv or SEED_FILE, defaulting to
// seed/listings.json.
func seedFilePath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		return v
	}
	return "seed/listings.json"
}

func loadListings(path string) ([]SeedListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var listings []SeedListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return listings, nil
}

// ensureSeedOwner finds or creates the demo user that owns seeded listings.
func ensureSeedOwner(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, seedOwnerEmail)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = uuid.NewString()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	owner := &model.User{
		Name:         "KIIT Rentals Demo",
		Email:        seedOwnerEmail,
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// seedListings upserts listings by id: existing rows get their fields
// refreshed, new rows are created.
func seedListings(ctx context.Context, repo repository.ProductRepository, ownerID uuid.UUID, listings []SeedListing) (seeded int, updated int, skipped int, err error) {
	for _, item := range listings {
		productID, err := uuid.Parse(item.ID)
		if err != nil {
			log.Printf("Skipping listing with invalid id: %s", item.ID)
			skipped++
			continue
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil || !price.IsPositive() {
			log.Printf("Skipping listing %s with invalid price: %s", item.ID, item.Price)
			skipped++
			continue
		}

		product := &model.Product{
			ID:       productID,
			OwnerID:  ownerID,
			Name:     item.Name,
			Price:    price,
			Image:    item.Image,
			Type:     model.ListingType(item.Type),
			Category: model.Category(item.Category),
			Phone:    item.Phone,
			Address:  item.Address,
			Deadline: item.Deadline,
			Expiry:   item.Expiry,
		}

		existing, err := repo.FindByID(ctx, productID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return seeded, updated, skipped, fmt.Errorf("error checking listing %s: %w", item.ID, err)
		}

		if existing != nil {
			product.CreatedAt = existing.CreatedAt
			if err := repo.Update(ctx, product); err != nil {
				return seeded, updated, skipped, fmt.Errorf("error updating listing %s: %w", item.ID, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, product); err != nil {
				return seeded, updated, skipped, fmt.Errorf("error creating listing %s: %w", item.ID, err)
			}
			seeded++
		}
	}
	return seeded, updated, skipped, nil
}
