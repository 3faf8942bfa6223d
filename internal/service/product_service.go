package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kiitrentals/internal/cache"
	apperrors "kiitrentals/internal/errors"
	"kiitrentals/internal/model"
	"kiitrentals/internal/repository"
)

const (
	listingCacheKey = "products:all"
	listingCacheTTL = time.Minute
)

// ProductInput carries the mutable listing fields supplied by a client.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Image    string
	Type     model.ListingType
	Category model.Category
	Phone    string
	Address  string
	Deadline string
	Expiry   string
}

// ProductService exposes listing operations. Mutations require the caller's
// identity: create records it as the owner, update and delete enforce it.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, ownerID uuid.UUID, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, subjectID uuid.UUID, id string, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, subjectID uuid.UUID, id string) error
}

type productService struct {
	repo       repository.ProductRepository
	validator  *ListingValidator
	normalizer ImageNormalizer
	cache      *cache.Client
}

// NewProductService builds a ProductService.
func NewProductService(repo repository.ProductRepository, validator *ListingValidator, normalizer ImageNormalizer, cache *cache.Client) ProductService {
	return &productService{
		repo:       repo,
		validator:  validator,
		normalizer: normalizer,
		cache:      cache,
	}
}

// List returns every listing, served from cache when possible. Cache
// failures degrade silently to a database read.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	if data, _ := s.cache.Get(ctx, listingCacheKey); data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if payload, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, listingCacheKey, payload, listingCacheTTL)
	}
	return products, nil
}

// Create validates, normalizes and persists a new listing owned by ownerID.
func (s *productService) Create(ctx context.Context, ownerID uuid.UUID, in ProductInput) (*model.Product, error) {
	product := &model.Product{OwnerID: ownerID}
	if err := s.applyInput(product, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	_ = s.cache.Delete(ctx, listingCacheKey)
	return product, nil
}

// Update replaces the mutable fields of an existing listing. The id must be
// a well-formed identifier and the caller must own the listing; both checks
// run before anything is written.
func (s *productService) Update(ctx context.Context, subjectID uuid.UUID, id string, in ProductInput) (*model.Product, error) {
	product, err := s.findOwned(ctx, subjectID, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyInput(product, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	_ = s.cache.Delete(ctx, listingCacheKey)
	return product, nil
}

// Delete removes a listing. A second delete of the same id reports
// ErrProductNotFound and leaves the store untouched.
func (s *productService) Delete(ctx context.Context, subjectID uuid.UUID, id string) error {
	product, err := s.findOwned(ctx, subjectID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	_ = s.cache.Delete(ctx, listingCacheKey)
	return nil
}

// findOwned parses the id, loads the listing and checks ownership.
func (s *productService) findOwned(ctx context.Context, subjectID uuid.UUID, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if product.OwnerID != subjectID {
		return nil, apperrors.ErrForbidden
	}
	return product, nil
}

// applyInput copies input fields onto the product, fills schema defaults,
// validates the result and normalizes the image.
func (s *productService) applyInput(product *model.Product, in ProductInput) error {
	product.Name = in.Name
	product.Price = in.Price
	product.Image = in.Image
	product.Type = in.Type
	product.Category = in.Category
	product.Phone = in.Phone
	product.Address = in.Address
	product.Deadline = in.Deadline
	product.Expiry = in.Expiry

	if product.Type == "" {
		product.Type = model.ListingTypeSale
	}
	if product.Category == "" {
		product.Category = model.CategoryBooks
	}

	if err := s.validator.ValidateListing(product); err != nil {
		return err
	}

	normalized, err := s.normalizer.Normalize(product.Image)
	if err != nil {
		return err
	}
	product.Image = normalized
	return nil
}
