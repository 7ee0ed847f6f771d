package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/model"
)

// SignatureHeader is the header carrying the gateway's payload signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how old a signed timestamp may be before the
// payload is rejected as a possible replay.
const DefaultTolerance = 5 * time.Minute

// ConstructEvent authenticates payload against sigHeader and, only on
// success, parses it into an Event. The signature covers the raw bytes as
// received; callers must not re-serialize the body before verification.
//
// Header format: "t=<unix>,v1=<hex>[,v1=<hex>...]" where each v1 is
// HMAC-SHA256(secret, "<t>.<payload>"). Multiple v1 entries support secret
// rotation; any match passes.
func ConstructEvent(payload []byte, sigHeader, secret string) (*model.Event, error) {
	return constructEvent(payload, sigHeader, secret, DefaultTolerance, time.Now())
}

func constructEvent(payload []byte, sigHeader, secret string, tolerance time.Duration, now time.Time) (*model.Event, error) {
	if sigHeader == "" {
		return nil, apperr.SignatureErr("missing signature header", nil)
	}

	timestamp, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, apperr.SignatureErr("malformed signature header", err)
	}

	if now.Sub(time.Unix(timestamp, 0)) > tolerance {
		return nil, apperr.SignatureErr("signature timestamp outside tolerance", fmt.Errorf("timestamp %d too old", timestamp))
	}

	expected := ComputeSignature([]byte(secret), timestamp, payload)
	matched := false
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, apperr.SignatureErr("signature mismatch", nil)
	}

	ev, err := model.ParseEvent(payload)
	if err != nil {
		return nil, apperr.SignatureErr("unparseable event payload", err)
	}
	return ev, nil
}

func parseSignatureHeader(header string) (timestamp int64, sigs []string, err error) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return 0, nil, fmt.Errorf("malformed element %q", part)
		}
		switch k {
		case "t":
			timestamp, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid timestamp %q", v)
			}
		case "v1":
			sigs = append(sigs, v)
		}
		// Unknown schemes (v0 etc.) are skipped.
	}
	if timestamp == 0 {
		return 0, nil, fmt.Errorf("no timestamp element")
	}
	if len(sigs) == 0 {
		return 0, nil, fmt.Errorf("no v1 signature element")
	}
	return timestamp, sigs, nil
}

// ComputeSignature returns the hex HMAC-SHA256 of "<t>.<payload>". Exposed
// for test fixtures and the mockwebhook tool.
func ComputeSignature(secret []byte, t int64, payload []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(strconv.FormatInt(t, 10)))
	m.Write([]byte("."))
	m.Write(payload)
	return hex.EncodeToString(m.Sum(nil))
}
