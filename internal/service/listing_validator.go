package service

import (
	"regexp"
	"strings"
	"time"

	apperrors "kiitrentals/internal/errors"
	"kiitrentals/internal/model"
)

const dateLayout = "2006-01-02"

// phoneRegex matches a 10-digit Indian mobile number.
var phoneRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// ListingValidator validates product listing fields before persistence.
type ListingValidator struct{}

// NewListingValidator creates a new listing validator.
func NewListingValidator() *ListingValidator {
	return &ListingValidator{}
}

// ValidateListing checks every field rule, including the cross-field rule
// that snacks must carry an expiry date. Returns a ValidationError naming
// the offending field, or nil.
func (v *ListingValidator) ValidateListing(p *model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.NewValidationError("name is required")
	}
	if !p.Price.IsPositive() {
		return apperrors.NewValidationError("price must be a positive number")
	}
	if !v.validImage(p.Image) {
		return apperrors.NewValidationError("image must be an http(s) URL or an inline base64 image")
	}
	switch p.Type {
	case model.ListingTypeSale, model.ListingTypeRent:
	default:
		return apperrors.NewValidationError("type must be one of: sale, rent")
	}
	switch p.Category {
	case model.CategoryBooks, model.CategoryVehicles, model.CategorySnacks, model.CategoryClothing:
	default:
		return apperrors.NewValidationError("category must be one of: books, vehicles, snacks, clothing")
	}
	if !phoneRegex.MatchString(p.Phone) {
		return apperrors.NewValidationError("phone must be a valid 10-digit mobile number")
	}
	if p.Deadline != "" && !v.todayOrFuture(p.Deadline) {
		return apperrors.NewValidationError("deadline must be a valid date that is today or in the future")
	}
	if p.Category == model.CategorySnacks && p.Expiry == "" {
		return apperrors.NewValidationError("expiry date is required for snacks")
	}
	if p.Expiry != "" && !v.todayOrFuture(p.Expiry) {
		return apperrors.NewValidationError("expiry must be a valid date that is today or in the future")
	}
	return nil
}

// validImage accepts http(s) URLs and data:image base64 payloads.
func (v *ListingValidator) validImage(image string) bool {
	if image == "" {
		return false
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return true
	}
	return strings.HasPrefix(image, "data:image/")
}

// todayOrFuture reports whether s parses as YYYY-MM-DD and is not in the past.
func (v *ListingValidator) todayOrFuture(s string) bool {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !d.Before(today)
}
