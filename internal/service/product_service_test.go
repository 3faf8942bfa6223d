package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "kiitrentals/internal/errors"
	"kiitrentals/internal/model"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func newTestProductService(repo *MockProductRepository) ProductService {
	return NewProductService(repo, NewListingValidator(), NewJPEGNormalizer(), nil)
}

func validInput() ProductInput {
	return ProductInput{
		Name:     "Book",
		Price:    decimal.NewFromInt(100),
		Image:    "http://x/y.jpg",
		Type:     model.ListingTypeSale,
		Category: model.CategoryBooks,
		Phone:    "9876543210",
	}
}

func TestProductService_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("successful create", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		svc := newTestProductService(mockRepo)
		product, err := svc.Create(context.Background(), ownerID, validInput())

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, ownerID, product.OwnerID)
		assert.Equal(t, "Book", product.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("defaults applied for empty type and category", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		in := validInput()
		in.Type = ""
		in.Category = ""

		svc := newTestProductService(mockRepo)
		product, err := svc.Create(context.Background(), ownerID, in)

		assert.NoError(t, err)
		assert.Equal(t, model.ListingTypeSale, product.Type)
		assert.Equal(t, model.CategoryBooks, product.Category)
	})

	t.Run("snacks without expiry rejected before persistence", func(t *testing.T) {
		mockRepo := new(MockProductRepository)

		in := validInput()
		in.Category = model.CategorySnacks

		svc := newTestProductService(mockRepo)
		product, err := svc.Create(context.Background(), ownerID, in)

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()

	t.Run("successful update", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{
			ID:      productID,
			OwnerID: ownerID,
			Name:    "Old Book",
			Price:   decimal.NewFromInt(100),
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		in := validInput()
		in.Price = decimal.NewFromInt(150)

		svc := newTestProductService(mockRepo)
		product, err := svc.Update(context.Background(), ownerID, productID.String(), in)

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(150).Equal(product.Price))
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed id rejected without repository access", func(t *testing.T) {
		mockRepo := new(MockProductRepository)

		svc := newTestProductService(mockRepo)
		product, err := svc.Update(context.Background(), ownerID, "not-a-uuid", validInput())

		assert.ErrorIs(t, err, apperrors.ErrInvalidID)
		assert.Nil(t, product)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing product", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("FindByID", mock.Anything, productID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestProductService(mockRepo)
		_, err := svc.Update(context.Background(), ownerID, productID.String(), validInput())

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{
			ID:      productID,
			OwnerID: uuid.New(),
		}, nil)

		svc := newTestProductService(mockRepo)
		_, err := svc.Update(context.Background(), ownerID, productID.String(), validInput())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProductService_Delete(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	stored := &model.Product{ID: productID, OwnerID: ownerID}

	t.Run("second delete reports not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("FindByID", mock.Anything, productID).Return(stored, nil).Once()
		mockRepo.On("Delete", mock.Anything, productID).Return(nil).Once()
		mockRepo.On("FindByID", mock.Anything, productID).Return(nil, gorm.ErrRecordNotFound).Once()

		svc := newTestProductService(mockRepo)

		assert.NoError(t, svc.Delete(context.Background(), ownerID, productID.String()))
		assert.ErrorIs(t, svc.Delete(context.Background(), ownerID, productID.String()), apperrors.ErrProductNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed id rejected without repository access", func(t *testing.T) {
		mockRepo := new(MockProductRepository)

		svc := newTestProductService(mockRepo)
		err := svc.Delete(context.Background(), ownerID, "12345")

		assert.ErrorIs(t, err, apperrors.ErrInvalidID)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{
			ID:      productID,
			OwnerID: uuid.New(),
		}, nil)

		svc := newTestProductService(mockRepo)
		err := svc.Delete(context.Background(), ownerID, productID.String())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_List(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("List", mock.Anything).Return([]model.Product{
		{ID: uuid.New(), Name: "Book"},
		{ID: uuid.New(), Name: "Cycle"},
	}, nil)

	svc := newTestProductService(mockRepo)
	products, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)
}
