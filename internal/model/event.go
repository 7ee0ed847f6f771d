package model

import "encoding/json"

type EventType string

// Payment-intent lifecycle events pushed by the gateway. The reconciler
// switches over these explicitly; anything else is acknowledged and ignored.
const (
	EventPaymentIntentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentIntentFailed    EventType = "payment_intent.payment_failed"
	EventPaymentIntentCreated   EventType = "payment_intent.created"
	EventPaymentIntentCanceled  EventType = "payment_intent.canceled"
)

type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object PaymentIntent `json:"object"`
}

type PaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

type StripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
