package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/client"
	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/model"
	"stripe-integration-demo/internal/repository"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

type OrderService interface {
	CreateOrder(ctx context.Context, userID, productID string) (*dto.CreateOrderResponse, error)
}

type orderServiceImpl struct {
	db           *gorm.DB
	stripeClient client.StripeClient
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:           db,
		stripeClient: stripeClient,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// CreateOrder creates a payment intent for the product's current price and
// persists a pending order carrying the intent's reference. Nothing is
// written when the gateway call fails; concurrent requests for the same
// user/product intentionally produce independent orders.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID, productID string) (*dto.CreateOrderResponse, error) {
	if productID == "" {
		return nil, apperr.InvalidErr("Product ID is required")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("Product not found")
		}
		return nil, apperr.StoreErr(fmt.Errorf("find product: %w", err))
	}

	// Price snapshot: the amount charged is fixed here, in minor units.
	amount := product.Price.Mul(minorUnitsPerMajor).IntPart()

	intent, err := s.stripeClient.CreatePaymentIntent(ctx, &client.CreatePaymentIntentRequest{
		Amount:   amount,
		Currency: product.Currency,
		Metadata: map[string]string{
			"productId": product.ID,
			"userId":    userID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		ProductID:       product.ID,
		Amount:          amount,
		Currency:        product.Currency,
		PaymentIntentID: intent.ID,
		Status:          model.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, s.db, order); err != nil {
		return nil, apperr.StoreErr(fmt.Errorf("store order in db: %w", err))
	}

	return &dto.CreateOrderResponse{
		OrderID:      order.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
