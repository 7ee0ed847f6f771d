package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/model"
	"stripe-integration-demo/internal/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, name, description string, price decimal.Decimal) (*model.Product, error)
	GetProducts(ctx context.Context) ([]*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, name, description string, price decimal.Decimal) (*model.Product, error) {
	if name == "" || price.IsZero() {
		return nil, apperr.InvalidErr("Name and price are required")
	}
	if price.IsNegative() {
		return nil, apperr.InvalidErr("Price must be positive")
	}

	product := &model.Product{
		ID:          slugify(name),
		Name:        name,
		Description: description,
		Price:       price,
		Currency:    "usd",
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperr.StoreErr(fmt.Errorf("store product in db: %w", err))
	}

	return product, nil
}

func (s *productServiceImpl) GetProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.StoreErr(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}
