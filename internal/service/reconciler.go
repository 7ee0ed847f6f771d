package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"stripe-integration-demo/internal/model"
	"stripe-integration-demo/internal/repository"
)

// Outcome classifies what a webhook event did, so callers can log and
// monitors can alert without changing the wire response: once an event is
// authentic the endpoint acknowledges it unconditionally.
type Outcome string

const (
	// OutcomeApplied: a matching order's status was updated.
	OutcomeApplied Outcome = "applied"
	// OutcomeDuplicate: this event ID was already processed.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored: informational or unknown event type, no mutation.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNoMatchingOrder: the referenced intent joins to no order.
	// Retrying the delivery cannot fix this, so it is still acknowledged.
	OutcomeNoMatchingOrder Outcome = "no_matching_order"
	// OutcomeStoreFailed: the event matched but persistence failed.
	OutcomeStoreFailed Outcome = "store_failed"
)

type Result struct {
	Outcome Outcome
	OrderID string
	Err     error
}

type Reconciler struct {
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *slog.Logger
}

func NewReconciler(
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *slog.Logger,
) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

// Handle maps a verified payment-lifecycle event to an order-status
// transition. It never returns an error: business-level misses and store
// failures are reported through the Result and logged, because the provider
// retrying an undeliverable condition only produces a retry storm.
func (r *Reconciler) Handle(ctx context.Context, ev *model.Event) Result {
	seen, err := r.webhookEventRepo.Exists(ctx, ev.ID)
	if err != nil {
		// Dedup is best effort; the status update below is idempotent on
		// its own, so fall through rather than dropping the event.
		r.logger.ErrorContext(ctx, "webhook event dedup check failed", "event_id", ev.ID, "err", err)
	}
	if seen {
		r.logger.InfoContext(ctx, "webhook event deduplicated", "event_id", ev.ID, "type", ev.Type)
		return Result{Outcome: OutcomeDuplicate}
	}

	var res Result
	// Every known event kind is listed here; a new kind must get an
	// explicit case even if that case is "ignore".
	switch ev.Type {
	case model.EventPaymentIntentSucceeded:
		res = r.apply(ctx, ev, model.OrderStatusPaid)
	case model.EventPaymentIntentFailed:
		res = r.apply(ctx, ev, model.OrderStatusFailed)
	case model.EventPaymentIntentCreated, model.EventPaymentIntentCanceled:
		r.logger.InfoContext(ctx, "informational payment event", "event_id", ev.ID, "type", ev.Type, "payment_intent_id", ev.Data.Object.ID)
		res = Result{Outcome: OutcomeIgnored}
	default:
		r.logger.InfoContext(ctx, "unhandled event type", "event_id", ev.ID, "type", ev.Type)
		res = Result{Outcome: OutcomeIgnored}
	}

	if err := r.webhookEventRepo.MarkProcessed(ctx, ev.ID, string(ev.Type)); err != nil {
		r.logger.ErrorContext(ctx, "failed to record processed webhook event", "event_id", ev.ID, "err", err)
	}

	return res
}

// apply performs the single atomic find-and-update keyed by the intent ID.
// Reapplying a terminal status is a no-op update; a different terminal
// status overwrites it (last write wins).
func (r *Reconciler) apply(ctx context.Context, ev *model.Event, status string) Result {
	paymentIntentID := ev.Data.Object.ID
	if paymentIntentID == "" {
		r.logger.WarnContext(ctx, "event carries no payment intent id", "event_id", ev.ID, "type", ev.Type)
		return Result{Outcome: OutcomeNoMatchingOrder}
	}

	order, err := r.orderRepo.UpdateStatusByPaymentIntentID(ctx, paymentIntentID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.WarnContext(ctx, "no order found for payment intent", "event_id", ev.ID, "payment_intent_id", paymentIntentID)
			return Result{Outcome: OutcomeNoMatchingOrder}
		}
		r.logger.ErrorContext(ctx, "database error while updating order", "event_id", ev.ID, "payment_intent_id", paymentIntentID, "err", err)
		return Result{Outcome: OutcomeStoreFailed, Err: err}
	}

	r.logger.InfoContext(ctx, "order status updated", "order_id", order.ID, "payment_intent_id", paymentIntentID, "status", status)
	return Result{Outcome: OutcomeApplied, OrderID: order.ID}
}
