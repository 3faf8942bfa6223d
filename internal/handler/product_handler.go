package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "kiitrentals/internal/errors"
	"kiitrentals/internal/model"
	"kiitrentals/internal/service"
)

// ProductHandler handles listing endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest represents the mutable listing fields of a create or
// update request.
type ProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image" validate:"required"`
	Type     string          `json:"type" validate:"omitempty,oneof=sale rent"`
	Category string          `json:"category" validate:"omitempty,oneof=books vehicles snacks clothing"`
	Phone    string          `json:"phone" validate:"required"`
	Address  string          `json:"address"`
	Deadline string          `json:"deadline"`
	Expiry   string          `json:"expiry"`
}

func (r *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:     r.Name,
		Price:    r.Price,
		Image:    r.Image,
		Type:     model.ListingType(r.Type),
		Category: model.Category(r.Category),
		Phone:    r.Phone,
		Address:  r.Address,
		Deadline: r.Deadline,
		Expiry:   r.Expiry,
	}
}

// List godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {object} errors.Envelope{data=[]model.Product}
// @Failure 500 {object} errors.Envelope
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return c.JSON(he.StatusCode, apperrors.Fail(he.Message))
	}
	return c.JSON(http.StatusOK, apperrors.OK(products))
}

// Create godoc
// @Summary Create a product listing
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Listing fields"
// @Success 201 {object} errors.Envelope{data=model.Product}
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	subject, err := subjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.Fail("unauthenticated"))
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.Fail("please provide all required fields"))
	}

	product, err := h.productService.Create(c.Request().Context(), subject, req.toInput())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return c.JSON(he.StatusCode, apperrors.Fail(he.Message))
	}
	return c.JSON(http.StatusCreated, apperrors.OK(product))
}

// Update godoc
// @Summary Update a product listing
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Listing fields"
// @Success 200 {object} errors.Envelope{data=model.Product}
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	subject, err := subjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.Fail("unauthenticated"))
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.Fail("please provide all required fields"))
	}

	product, err := h.productService.Update(c.Request().Context(), subject, c.Param("id"), req.toInput())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return c.JSON(he.StatusCode, apperrors.Fail(he.Message))
	}
	return c.JSON(http.StatusOK, apperrors.OK(product))
}

// Delete godoc
// @Summary Delete a product listing
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	subject, err := subjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.Fail("unauthenticated"))
	}

	if err := h.productService.Delete(c.Request().Context(), subject, c.Param("id")); err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return c.JSON(he.StatusCode, apperrors.Fail(he.Message))
	}
	return c.JSON(http.StatusOK, apperrors.OK(map[string]interface{}{}))
}

// subjectID extracts the authenticated user id from the JWT the middleware
// stored on the context.
func subjectID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.ErrUnauthorized
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, echo.ErrUnauthorized
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, echo.ErrUnauthorized
	}
	return id, nil
}
