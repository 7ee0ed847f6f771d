package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/model"
)

func testProducts() map[string]*model.Product {
	return map[string]*model.Product{
		"p1": {
			ID:       "p1",
			Name:     "Basic course",
			Price:    decimal.NewFromFloat(25.00),
			Currency: "usd",
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()

	t.Run("creates pending order with price snapshot", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		gateway := &fakeStripeClient{
			intent: &model.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"},
		}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		resp, err := svc.CreateOrder(context.Background(), "u1", "p1")
		require.NoError(t, err)
		require.NotEmpty(t, resp.OrderID)
		require.Equal(t, "pi_123_secret_abc", resp.ClientSecret)

		// Gateway was asked for the amount in minor units with traceable metadata.
		require.EqualValues(t, 2500, gateway.lastReq.Amount)
		require.Equal(t, "usd", gateway.lastReq.Currency)
		require.Equal(t, "p1", gateway.lastReq.Metadata["productId"])
		require.Equal(t, "u1", gateway.lastReq.Metadata["userId"])

		stored, err := orders.FindByPaymentIntentID(context.Background(), "pi_123")
		require.NoError(t, err)
		require.Equal(t, model.OrderStatusPending, stored.Status)
		require.EqualValues(t, 2500, stored.Amount)
		require.Equal(t, "usd", stored.Currency)
		require.Equal(t, "u1", stored.UserID)
		require.Equal(t, "p1", stored.ProductID)
	})

	t.Run("missing product id", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		gateway := &fakeStripeClient{intent: &model.PaymentIntent{ID: "pi_x"}}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		_, err := svc.CreateOrder(context.Background(), "u1", "")
		require.True(t, apperr.IsKind(err, apperr.Invalid))
		require.Zero(t, gateway.calls)
		require.Empty(t, orders.byIntent)
	})

	t.Run("unknown product persists nothing", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		gateway := &fakeStripeClient{intent: &model.PaymentIntent{ID: "pi_x"}}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		_, err := svc.CreateOrder(context.Background(), "u1", "nope")
		require.True(t, apperr.IsKind(err, apperr.NotFound))
		require.Zero(t, gateway.calls)
		require.Empty(t, orders.byIntent)
	})

	t.Run("gateway failure persists nothing", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		gateway := &fakeStripeClient{err: apperr.GatewayErr("payment provider rejected the request", nil)}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		_, err := svc.CreateOrder(context.Background(), "u1", "p1")
		require.True(t, apperr.IsKind(err, apperr.Gateway))
		require.Empty(t, orders.byIntent, "no partial pending order without a valid reference")
	})

	t.Run("store failure after gateway call surfaces store error", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		orders.createErr = errDBDown
		gateway := &fakeStripeClient{intent: &model.PaymentIntent{ID: "pi_123"}}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		_, err := svc.CreateOrder(context.Background(), "u1", "p1")
		require.True(t, apperr.IsKind(err, apperr.Store))
	})

	t.Run("repeat purchases are independent orders", func(t *testing.T) {
		t.Parallel()

		orders := newFakeOrderRepo()
		gateway := &fakeStripeClient{intent: &model.PaymentIntent{ID: "pi_a", ClientSecret: "s"}}
		svc := NewOrderService(nil, gateway, &fakeProductRepo{products: testProducts()}, orders)

		first, err := svc.CreateOrder(context.Background(), "u1", "p1")
		require.NoError(t, err)

		gateway.intent = &model.PaymentIntent{ID: "pi_b", ClientSecret: "s"}
		second, err := svc.CreateOrder(context.Background(), "u1", "p1")
		require.NoError(t, err)

		require.NotEqual(t, first.OrderID, second.OrderID)
		require.Len(t, orders.byIntent, 2)
	})
}
