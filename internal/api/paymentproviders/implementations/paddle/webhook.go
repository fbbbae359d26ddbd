package paddle

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/pkg/errors"
)

// eventEnvelope is the outer shape of every webhook delivery.
type eventEnvelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt string          `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// parseSignatureHeader splits the "ts=...;h1=..." signature header.
func parseSignatureHeader(header string) (ts, h1 string, err error) {
	for _, part := range strings.Split(header, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "h1":
			h1 = kv[1]
		}
	}

	if ts == "" || h1 == "" {
		return "", "", errors.Wrapf(paymentprovider.ErrBadSignature,
			"malformed signature header %q", header)
	}

	return ts, h1, nil
}

// ParseWebhook authenticates a webhook delivery and decodes it into a
// typed event. The HMAC is computed over the timestamp and the raw,
// unparsed body: parsing and re-serializing before verification could
// alter the bytes and break the check, so the body must come through
// untouched.
func ParseWebhook(body []byte, signatureHeader, secret string) (*paymentprovider.Event, error) {
	if len(body) == 0 || signatureHeader == "" {
		return nil, paymentprovider.ErrMissingSignature
	}

	ts, h1, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:", ts)
	mac.Write(body)

	want, err := hex.DecodeString(h1)
	if err != nil {
		return nil, errors.Wrap(paymentprovider.ErrBadSignature, "non-hex h1 value")
	}
	if !hmac.Equal(mac.Sum(nil), want) {
		return nil, paymentprovider.ErrBadSignature
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal verified event body")
	}
	if envelope.EventType == "" {
		return nil, errors.New("verified event body has no eventType")
	}

	return &paymentprovider.Event{
		ID:         envelope.EventID,
		Type:       envelope.EventType,
		OccurredAt: envelope.OccurredAt,
		Data:       envelope.Data,
	}, nil
}

// SignWebhook builds a valid signature header for body. It exists for
// tests and the webhook emulation script.
func SignWebhook(body []byte, ts, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:", ts)
	mac.Write(body)
	return fmt.Sprintf("ts=%s;h1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
