package paddle

import (
	"fmt"
	"testing"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Organization{}, &models.Customer{},
		&models.Subscription{}, &models.BillingEvent{}).Error
	require.NoError(t, err)

	return db
}

func setupProcessor(t *testing.T) (*EventProcessor, *gorm.DB) {
	db := setupTestDB(t)
	return NewEventProcessor(db, logutil.NewStderrLog("test"), testSecret), db
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	cust := models.Customer{
		ProviderCustomerID: "ctm_1",
		Email:              "dev@formlytics.com",
		UserID:             7,
		Status:             "active",
	}
	require.NoError(t, cust.Create(db))
	return &cust
}

func signedEvent(eventID, eventType, data string) ([]byte, string) {
	body := []byte(fmt.Sprintf(`{"eventId": %q, "eventType": %q, "data": %s}`, eventID, eventType, data))
	return body, SignWebhook(body, "1671552777", testSecret)
}

const subCreatedData = `{
	"id": "sub_1",
	"status": "active",
	"customerId": "ctm_1",
	"customData": {"userId": "7"},
	"items": [{"price": {"id": "pri_basic_month", "productId": "pro_1"}}]
}`

func TestProcessSubscriptionCreated(t *testing.T) {
	p, db := setupProcessor(t)
	cust := seedCustomer(t, db)

	body, sig := signedEvent("evt_1", "subscription.created", subCreatedData)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeApplied, receipt.Outcome)
	assert.Equal(t, "subscription.created", receipt.EventName)
	require.NotNil(t, receipt.UserID)
	assert.EqualValues(t, 7, *receipt.UserID)
	assert.Equal(t, "pri_basic_month", receipt.PriceID)

	var sub models.Subscription
	require.NoError(t, db.Where("provider_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "pri_basic_month", sub.PriceID)
	assert.Equal(t, "pro_1", sub.ProductID)
	assert.Equal(t, cust.ID, sub.CustomerID)
	assert.EqualValues(t, 7, sub.UserID)
}

func TestProcessSubscriptionCreatedRedelivery(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	body, sig := signedEvent("evt_1", "subscription.created", subCreatedData)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	require.Equal(t, paymentprovider.OutcomeApplied, receipt.Outcome)

	// redelivered create hits the unique index and is swallowed
	receipt, err = p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeDiscarded, receipt.Outcome)

	var count int
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, 1, count)
}

func TestProcessSubscriptionUpdated(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	body, sig := signedEvent("evt_1", "subscription.created", subCreatedData)
	_, err := p.Process(body, sig)
	require.NoError(t, err)

	updatedData := `{
		"id": "sub_1",
		"status": "canceled",
		"customerId": "ctm_1",
		"customData": {"userId": "7"},
		"items": [{"price": {"id": "pri_basic_month", "productId": "pro_1"}}],
		"scheduledChange": {"action": "cancel", "effectiveAt": "2023-01-01T00:00:00Z"}
	}`
	body, sig = signedEvent("evt_2", "subscription.updated", updatedData)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeApplied, receipt.Outcome)

	var sub models.Subscription
	require.NoError(t, db.Where("provider_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, "canceled", sub.Status)
	assert.Equal(t, "2023-01-01T00:00:00Z", sub.ScheduledChangeAt)
}

func TestProcessSubscriptionUpdatedBeforeCreate(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	// update racing ahead of its create is dropped, never upserted
	body, sig := signedEvent("evt_1", "subscription.updated", subCreatedData)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeDiscarded, receipt.Outcome)

	var count int
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}

func TestProcessSubscriptionCreatedWithoutCustomer(t *testing.T) {
	p, db := setupProcessor(t)

	body, sig := signedEvent("evt_1", "subscription.created", subCreatedData)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeDiscarded, receipt.Outcome)

	var count int
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}

func TestProcessCustomerUpdated(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	data := `{
		"id": "ctm_1",
		"email": "new@formlytics.com",
		"status": "active",
		"customData": {"userId": "9"}
	}`
	body, sig := signedEvent("evt_1", "customer.updated", data)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeApplied, receipt.Outcome)

	var cust models.Customer
	require.NoError(t, db.Where("provider_customer_id = ?", "ctm_1").First(&cust).Error)
	assert.Equal(t, "new@formlytics.com", cust.Email)
	assert.EqualValues(t, 9, cust.UserID)
}

func TestProcessUnknownEventKind(t *testing.T) {
	p, db := setupProcessor(t)

	body, sig := signedEvent("evt_1", "transaction.completed", `{"id": "txn_1"}`)
	receipt, err := p.Process(body, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentprovider.OutcomeSkipped, receipt.Outcome)
	assert.Equal(t, "transaction.completed", receipt.EventName)

	var count int
	require.NoError(t, db.Model(&models.BillingEvent{}).Count(&count).Error)
	assert.Equal(t, 1, count)
}

func TestProcessSavesAuditRow(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	body, sig := signedEvent("evt_1", "subscription.created", subCreatedData)
	_, err := p.Process(body, sig)
	require.NoError(t, err)

	var event models.BillingEvent
	require.NoError(t, db.Where("provider_id = ?", "evt_1").First(&event).Error)
	assert.Equal(t, ProviderName, event.Provider)
	assert.Equal(t, "subscription.created", event.Type)
	require.NotNil(t, event.UserID)
	assert.EqualValues(t, 7, *event.UserID)
	assert.NotEmpty(t, event.Data)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	p, db := setupProcessor(t)
	seedCustomer(t, db)

	body, _ := signedEvent("evt_1", "subscription.created", subCreatedData)
	_, err := p.Process(body, "ts=1;h1=00")
	require.Error(t, err)

	var count int
	require.NoError(t, db.Model(&models.BillingEvent{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}
