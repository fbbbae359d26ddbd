package billingevent

import (
	"net/http"

	"github.com/formlytics/formlytics-api/internal/api/analytics"
	"github.com/formlytics/formlytics-api/internal/api/apierrors"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/implementations/paddle"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/pricing"
	"github.com/formlytics/formlytics-api/pkg/api/request"
	"github.com/formlytics/formlytics-api/pkg/api/returntypes"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

type WebhookContext struct {
	request.ProviderName

	Signature string `request:"Paddle-Signature,header,optional"`
}

func (wc WebhookContext) FillLogContext(lctx logutil.Context) {
	wc.ProviderName.FillLogContext(lctx)
}

type Service interface {
	//url:/v1/billing/{provider}/events method:POST
	HandleEvent(rc *request.AnonymousContext, wc *WebhookContext, body request.Body) (*returntypes.EventAck, error)
}

type BasicService struct {
	Cfg       config.Config
	Analytics analytics.Tracker
}

func (s BasicService) buildProcessor(rc *request.AnonymousContext, providerName string) (paymentprovider.EventProcessor, error) {
	switch providerName {
	case paddle.ProviderName:
		secret := s.Cfg.GetString("PADDLE_WEBHOOK_SECRET")
		return paddle.NewEventProcessor(rc.DB, rc.Log, secret), nil
	}

	return nil, errors.Wrapf(apierrors.ErrNotFound, "unknown payment provider %q", providerName)
}

func (s BasicService) HandleEvent(rc *request.AnonymousContext, wc *WebhookContext,
	body request.Body) (*returntypes.EventAck, error) {

	rc.Lctx["delivery_id"] = uuid.NewV4().String()

	processor, err := s.buildProcessor(rc, wc.Provider)
	if err != nil {
		return nil, err
	}

	receipt, err := processor.Process(body, wc.Signature)
	if err != nil {
		return nil, err
	}

	rc.Lctx["event_type"] = receipt.EventName
	rc.Lctx["event_outcome"] = string(receipt.Outcome)
	rc.Log.Infof("Processed %s event: %s", receipt.EventName, receipt.Outcome)

	s.trackReceipt(receipt)

	return &returntypes.EventAck{
		Status:    http.StatusOK,
		EventName: receipt.EventName,
	}, nil
}

func (s BasicService) trackReceipt(receipt *paymentprovider.EventReceipt) {
	if receipt.Outcome != paymentprovider.OutcomeApplied || receipt.UserID == nil {
		return
	}

	if receipt.EventName == "subscription.created" {
		tierName := ""
		if tier, ok := pricing.TierByPriceID(receipt.PriceID); ok {
			tierName = tier.Name
		}
		s.Analytics.SubscriptionStarted(*receipt.UserID, tierName)
	}
}
