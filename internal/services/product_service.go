package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/models"
)

// ErrNegativePrice rejects catalog entries priced below zero.
var ErrNegativePrice = errors.New("price must not be negative")

// ProductService manages the global product catalog.
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a new product service.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns the full catalog.
func (s *ProductService) List() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns a single product by row id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}
	return &product, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(product *models.Product) error {
	if product.Price < 0 {
		return ErrNegativePrice
	}
	if product.UUID == "" {
		product.UUID = uuid.NewString()
	}

	if err := s.db.Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}
