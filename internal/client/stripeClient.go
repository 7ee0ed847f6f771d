package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/config"
	"stripe-integration-demo/internal/model"
)

type CreatePaymentIntentRequest struct {
	// Amount in minor units (cents).
	Amount   int64
	Currency string
	// Opaque metadata attached to the intent for traceability.
	Metadata map[string]string
}

type StripeClient interface {
	CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*model.PaymentIntent, error)
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: stripeCfg.BaseApiURL,
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, in *CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	if in.Amount <= 0 {
		return nil, apperr.GatewayErr("invalid amount", fmt.Errorf("amount must be positive, got %d", in.Amount))
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(in.Amount, 10))
	form.Set("currency", in.Currency)
	for k, v := range in.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseApiURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.GatewayErr("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)

		var stripeErr model.StripeError
		if jsonErr := json.Unmarshal(b, &stripeErr); jsonErr == nil && stripeErr.Error.Message != "" {
			return nil, apperr.GatewayErr("payment provider rejected the request",
				fmt.Errorf("stripe error %d (%s): %s", resp.StatusCode, stripeErr.Error.Type, stripeErr.Error.Message))
		}
		return nil, apperr.GatewayErr("payment provider rejected the request",
			fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b)))
	}

	var intent model.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, apperr.GatewayErr("invalid provider response", fmt.Errorf("decode stripe response: %w", err))
	}

	return &intent, nil
}
