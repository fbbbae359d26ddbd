package paddle

import (
	"testing"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

var testEventBody = []byte(`{
	"eventId": "evt_1",
	"eventType": "subscription.created",
	"data": {
		"id": "sub_1",
		"status": "active",
		"customerId": "ctm_1",
		"customData": {"userId": "7"},
		"items": [{"price": {"id": "pri_basic_month", "productId": "pro_1"}}]
	}
}`)

func TestParseWebhook(t *testing.T) {
	sig := SignWebhook(testEventBody, "1671552777", testSecret)

	event, err := ParseWebhook(testEventBody, sig, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "subscription.created", event.Type)
	assert.NotEmpty(t, event.Data)
}

func TestParseWebhookMissingSignature(t *testing.T) {
	_, err := ParseWebhook(testEventBody, "", testSecret)
	assert.Equal(t, paymentprovider.ErrMissingSignature, errors.Cause(err))
}

func TestParseWebhookMissingBody(t *testing.T) {
	sig := SignWebhook(testEventBody, "1671552777", testSecret)

	_, err := ParseWebhook(nil, sig, testSecret)
	assert.Equal(t, paymentprovider.ErrMissingSignature, errors.Cause(err))
}

func TestParseWebhookTamperedBody(t *testing.T) {
	sig := SignWebhook(testEventBody, "1671552777", testSecret)

	tampered := append([]byte{}, testEventBody...)
	tampered[len(tampered)-2] = ' '

	_, err := ParseWebhook(tampered, sig, testSecret)
	assert.Equal(t, paymentprovider.ErrBadSignature, errors.Cause(err))
}

func TestParseWebhookWrongSecret(t *testing.T) {
	sig := SignWebhook(testEventBody, "1671552777", "whsec_other")

	_, err := ParseWebhook(testEventBody, sig, testSecret)
	assert.Equal(t, paymentprovider.ErrBadSignature, errors.Cause(err))
}

func TestParseWebhookMalformedHeader(t *testing.T) {
	_, err := ParseWebhook(testEventBody, "h1=abcdef", testSecret)
	assert.Equal(t, paymentprovider.ErrBadSignature, errors.Cause(err))

	_, err = ParseWebhook(testEventBody, "garbage", testSecret)
	assert.Equal(t, paymentprovider.ErrBadSignature, errors.Cause(err))
}

func TestParseWebhookSignedGarbageBody(t *testing.T) {
	body := []byte("not json")
	sig := SignWebhook(body, "1671552777", testSecret)

	_, err := ParseWebhook(body, sig, testSecret)
	require.Error(t, err)
	assert.NotEqual(t, paymentprovider.ErrBadSignature, errors.Cause(err))
	assert.NotEqual(t, paymentprovider.ErrMissingSignature, errors.Cause(err))
}
