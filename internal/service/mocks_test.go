package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"stripe-integration-demo/internal/client"
	"stripe-integration-demo/internal/model"
)

var errDBDown = errors.New("db connection lost")

type fakeProductRepo struct {
	products map[string]*model.Product
}

func (f *fakeProductRepo) Seed(ctx context.Context) error { return nil }

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]*model.Product, error) { return nil, nil }

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	byIntent map[string]*model.Order

	createErr error
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byIntent: make(map[string]*model.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byIntent[order.PaymentIntentID]; exists {
		return errors.New("duplicate payment_intent_id")
	}
	cp := *order
	f.byIntent[order.PaymentIntentID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byIntent {
		if o.ID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byIntent[paymentIntentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateStatusByPaymentIntentID(ctx context.Context, paymentIntentID, status string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	o, ok := f.byIntent[paymentIntentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

type fakeWebhookEventRepo struct {
	mu        sync.Mutex
	processed map[string]string

	existsErr error
	markErr   error
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{processed: make(map[string]string)}
}

func (f *fakeWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.processed[eventID]
	return ok, nil
}

func (f *fakeWebhookEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.processed[eventID] = eventType
	return nil
}

type fakeStripeClient struct {
	intent  *model.PaymentIntent
	err     error
	lastReq *client.CreatePaymentIntentRequest
	calls   int
}

func (f *fakeStripeClient) CreatePaymentIntent(ctx context.Context, req *client.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}
