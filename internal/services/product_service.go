package services

import (
	"context"
	"fmt"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/rs/zerolog"
)

// Routing keys of the events published after each successful write.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher sends product events to an external broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in which
// case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new, available product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Availability: true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, *product)
	return product, nil
}

// UpdateProduct replaces the mutable fields of an existing product. A nil
// Availability keeps the current value.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input models.ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	if input.Availability != nil {
		product.Availability = *input.Availability
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	s.publish(EventProductUpdated, *product)
	return product, nil
}

// ToggleAvailability flips the availability flag of a product and nothing else.
func (s *ProductService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to toggle availability of product %d: %w", id, err)
	}
	s.publish(EventProductAvailabilityToggled, *product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, *product)
	return nil
}

// publish never fails the caller: the write has already been committed.
func (s *ProductService) publish(routingKey string, product models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, product); err != nil {
		s.logger.Warn().Err(err).
			Str("routing_key", routingKey).
			Uint("product_id", product.ID).
			Msg("failed to publish product event")
	}
}
