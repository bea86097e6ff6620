package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"marketplace/pkg/catalog/domain/model"
	"marketplace/pkg/common/domain"
)

var (
	ErrNegativeQuantity = errors.New("product quantity cannot be negative")
	ErrNegativePrice    = errors.New("product price cannot be negative")
)

// ProductPatch describes a partial update. Nil fields are left unchanged,
// set fields fully replace the prior value.
type ProductPatch struct {
	Name       *string
	Quantity   *int
	PriceCents *int64
}

type CatalogService interface {
	CreateProduct(name string, quantity int, priceCents int64) (*model.Product, error)
	UpdateProduct(productID uuid.UUID, patch ProductPatch) (*model.Product, error)
	DeleteProduct(productID uuid.UUID) error
}

func NewCatalogService(repo model.ProductRepository, dispatcher domain.EventDispatcher) CatalogService {
	return &catalogService{repo: repo, dispatcher: dispatcher}
}

type catalogService struct {
	repo       model.ProductRepository
	dispatcher domain.EventDispatcher
}

func (s *catalogService) CreateProduct(name string, quantity int, priceCents int64) (*model.Product, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:         productID,
		Name:       name,
		Quantity:   quantity,
		PriceCents: priceCents,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductCreated{
		ProductID:  productID,
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(productID uuid.UUID, patch ProductPatch) (*model.Product, error) {
	product, err := s.repo.Find(productID)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return nil, ErrNegativePrice
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	if patch.PriceCents != nil {
		product.PriceCents = *patch.PriceCents
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductUpdated{
		ProductID:  productID,
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(productID uuid.UUID) error {
	if _, err := s.repo.Find(productID); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			// deleting an unknown product is a no-op, not an error
			return nil
		}
		return err
	}

	if err := s.repo.Delete(productID); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.ProductDeleted{ProductID: productID})
	return nil
}
