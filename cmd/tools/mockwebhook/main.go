// mockwebhook signs and sends a payment-intent webhook the way the gateway
// would, for exercising the webhook endpoint locally.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"stripe-integration-demo/internal/model"
	"stripe-integration-demo/internal/webhook"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/webhook", "Webhook URL")
	secret := flag.String("secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "Webhook secret")
	eventID := flag.String("event-id", "evt_"+randomHex(12), "Event ID")
	eventType := flag.String("type", string(model.EventPaymentIntentSucceeded), "Event type")
	intentID := flag.String("payment-intent", "pi_"+randomHex(12), "Payment intent ID")
	amount := flag.Int64("amount", 2500, "Amount in minor units")
	currency := flag.String("currency", "usd", "Currency")
	dryRun := flag.Bool("dry-run", false, "Only print the signed request, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: secret not provided and STRIPE_WEBHOOK_SECRET not set")
		os.Exit(1)
	}

	ev := model.Event{
		ID:   *eventID,
		Type: model.EventType(*eventType),
		Data: model.EventData{Object: model.PaymentIntent{
			ID:       *intentID,
			Amount:   *amount,
			Currency: *currency,
		}},
	}

	body, err := json.Marshal(ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	t := time.Now().Unix()
	sigHeader := fmt.Sprintf("t=%d,v1=%s", t, webhook.ComputeSignature([]byte(*secret), t, body))

	fmt.Printf("%s: %s\n", webhook.SignatureHeader, sigHeader)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func randomHex(n int) string {
	b := make([]byte, n/2+1)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:n]
}
