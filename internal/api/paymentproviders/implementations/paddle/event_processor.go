package paddle

import (
	"encoding/json"
	"strconv"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// EventProcessor verifies webhook deliveries and applies them to the
// local billing tables.
type EventProcessor struct {
	db            *gorm.DB
	log           logutil.Log
	webhookSecret string
}

var _ paymentprovider.EventProcessor = &EventProcessor{}

func NewEventProcessor(db *gorm.DB, log logutil.Log, webhookSecret string) *EventProcessor {
	return &EventProcessor{
		db:            db,
		log:           log,
		webhookSecret: webhookSecret,
	}
}

// Process authenticates and applies one webhook delivery. It returns an
// error only for failures the caller must report to the provider
// (missing or bad signature, undecodable body). Reconciliation failures
// are logged and reported as a discarded receipt: deliveries are
// at-least-once, so a redelivered create or an update racing ahead of
// its create must still be acked, otherwise the provider retries a
// delivery that can never succeed.
func (ep EventProcessor) Process(body []byte, signatureHeader string) (*paymentprovider.EventReceipt, error) {
	event, err := ParseWebhook(body, signatureHeader, ep.webhookSecret)
	if err != nil {
		return nil, err
	}

	receipt := &paymentprovider.EventReceipt{
		EventName: event.Type,
	}

	var processErr error
	switch event.Type {
	case eventSubscriptionCreated:
		processErr = ep.processSubscriptionCreated(event)
	case eventSubscriptionUpdated:
		processErr = ep.processSubscriptionUpdated(event)
	case eventCustomerCreated, eventCustomerUpdated:
		// Checkout creates the local customer row before the provider
		// emits customer.created, so both customer events reduce to an
		// update of the existing row.
		processErr = ep.processCustomerUpdated(event)
	default:
		ep.log.Infof("Ignoring %s event %s", event.Type, event.ID)
		receipt.Outcome = paymentprovider.OutcomeSkipped
		ep.saveEvent(event)
		return receipt, nil
	}

	if processErr != nil {
		ep.log.Warnf("Discarded %s event %s: %s", event.Type, event.ID, processErr)
		receipt.Outcome = paymentprovider.OutcomeDiscarded
	} else {
		receipt.Outcome = paymentprovider.OutcomeApplied
		ep.fillReceipt(receipt, event)
	}

	ep.saveEvent(event)
	return receipt, nil
}

func (ep EventProcessor) fillReceipt(receipt *paymentprovider.EventReceipt, event *paymentprovider.Event) {
	var data subscriptionData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return
	}

	if userID, err := ep.findUserID(data.CustomData); err == nil {
		receipt.UserID = &userID
	}
	receipt.PriceID = data.firstPriceID()
}

func (ep EventProcessor) findUserID(cd customData) (uint, error) {
	if cd.UserID == "" {
		return 0, errors.New("event custom data has no userId")
	}

	userID, err := strconv.ParseUint(cd.UserID, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid userId %q in event custom data", cd.UserID)
	}

	return uint(userID), nil
}

func (ep EventProcessor) findCustomer(providerCustomerID string) (*models.Customer, error) {
	if providerCustomerID == "" {
		return nil, errors.New("event has no customerId")
	}

	var customer models.Customer
	err := ep.db.Where("provider_customer_id = ?", providerCustomerID).First(&customer).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch customer %s", providerCustomerID)
	}

	return &customer, nil
}

func (ep EventProcessor) processSubscriptionCreated(event *paymentprovider.Event) error {
	var data subscriptionData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return errors.Wrap(err, "failed to unmarshal subscription data")
	}
	if data.ID == "" {
		return errors.New("subscription data has no id")
	}

	userID, err := ep.findUserID(data.CustomData)
	if err != nil {
		return err
	}

	customer, err := ep.findCustomer(data.CustomerID)
	if err != nil {
		return err
	}

	sub := models.Subscription{
		ProviderSubscriptionID: data.ID,
		Status:                 data.Status,
		PriceID:                data.firstPriceID(),
		ProductID:              data.firstProductID(),
		ScheduledChangeAt:      data.scheduledChangeAt(),
		CustomerID:             customer.ID,
		UserID:                 userID,
	}
	// The unique index on provider_subscription_id rejects redelivered
	// creates here.
	if err = sub.Create(ep.db); err != nil {
		return err
	}

	ep.log.Infof("Created subscription %s for user %d", data.ID, userID)
	return nil
}

func (ep EventProcessor) processSubscriptionUpdated(event *paymentprovider.Event) error {
	var data subscriptionData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return errors.Wrap(err, "failed to unmarshal subscription data")
	}
	if data.ID == "" {
		return errors.New("subscription data has no id")
	}

	var sub models.Subscription
	err := ep.db.Where("provider_subscription_id = ?", data.ID).First(&sub).Error
	if err != nil {
		// Updates never create rows: an update arriving ahead of its
		// create is dropped and the state converges on the next event.
		return errors.Wrapf(err, "no subscription %s to update", data.ID)
	}

	userID, err := ep.findUserID(data.CustomData)
	if err != nil {
		return err
	}
	customer, err := ep.findCustomer(data.CustomerID)
	if err != nil {
		return err
	}

	err = ep.db.Model(&sub).Updates(map[string]interface{}{
		"status":              data.Status,
		"price_id":            data.firstPriceID(),
		"product_id":          data.firstProductID(),
		"scheduled_change_at": data.scheduledChangeAt(),
		"customer_id":         customer.ID,
		"user_id":             userID,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to update subscription %s", data.ID)
	}

	ep.log.Infof("Updated subscription %s to status %q", data.ID, data.Status)
	return nil
}

func (ep EventProcessor) processCustomerUpdated(event *paymentprovider.Event) error {
	var data customerData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return errors.Wrap(err, "failed to unmarshal customer data")
	}

	customer, err := ep.findCustomer(data.ID)
	if err != nil {
		return err
	}

	userID, err := ep.findUserID(data.CustomData)
	if err != nil {
		return err
	}

	err = ep.db.Model(customer).Updates(map[string]interface{}{
		"email":   data.Email,
		"status":  data.Status,
		"user_id": userID,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to update customer %s", data.ID)
	}

	ep.log.Infof("Updated customer %s", data.ID)
	return nil
}

// saveEvent stores the raw delivery for auditing. The reconcile path
// never reads these rows back, so a failed insert only loses audit
// data and must not fail the delivery.
func (ep EventProcessor) saveEvent(event *paymentprovider.Event) {
	billingEvent := models.BillingEvent{
		Provider:   ProviderName,
		ProviderID: event.ID,
		Type:       event.Type,
		Data:       []byte(event.Data),
	}

	var cd struct {
		CustomData customData `json:"customData"`
	}
	if err := json.Unmarshal(event.Data, &cd); err == nil {
		if userID, err := ep.findUserID(cd.CustomData); err == nil {
			billingEvent.UserID = &userID
		}
	}

	if err := billingEvent.Create(ep.db); err != nil {
		ep.log.Warnf("Failed to save billing event %s: %s", event.ID, err)
	}
}
