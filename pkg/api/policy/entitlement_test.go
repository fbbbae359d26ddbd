package policy

import (
	"testing"

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

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	user := models.User{Email: "dev@formlytics.com"}
	require.NoError(t, user.Create(db))
	return &user
}

func seedCustomerFor(t *testing.T, db *gorm.DB, user *models.User) *models.Customer {
	cust := models.Customer{
		ProviderCustomerID: "ctm_1",
		Email:              user.Email,
		UserID:             user.ID,
		Status:             "active",
	}
	require.NoError(t, cust.Create(db))
	return &cust
}

func seedSubscription(t *testing.T, db *gorm.DB, cust *models.Customer, providerID, status, priceID string) {
	sub := models.Subscription{
		ProviderSubscriptionID: providerID,
		Status:                 status,
		PriceID:                priceID,
		CustomerID:             cust.ID,
		UserID:                 cust.UserID,
	}
	require.NoError(t, sub.Create(db))
}

func newEntitlement(db *gorm.DB) *Entitlement {
	return NewEntitlement(logutil.NewStderrLog("test"), db)
}

func TestActiveTier(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "active", "pri_basic_month")

	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Basic", tier.Name)
}

func TestActiveTierTrialing(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "trialing", "pri_pro_year")

	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Pro", tier.Name)
}

func TestActiveTierNoCustomer(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)

	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestActiveTierNoEntitlingSubscription(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "canceled", "pri_basic_month")
	seedSubscription(t, db, cust, "sub_2", "past_due", "pri_basic_month")

	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestActiveTierSkipsNonEntitlingRows(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "canceled", "pri_basic_month")
	seedSubscription(t, db, cust, "sub_2", "active", "pri_advanced_month")

	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Advanced", tier.Name)
}

func TestActiveTierStalePrice(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "active", "pri_removed_plan")

	// a price gone from the catalog degrades to no entitlement
	tier, err := newEntitlement(db).ActiveTier(user)
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestActiveSubscription(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	cust := seedCustomerFor(t, db, user)
	seedSubscription(t, db, cust, "sub_1", "active", "pri_basic_year")

	sub, tier, err := newEntitlement(db).ActiveSubscription(user)
	require.NoError(t, err)
	require.NotNil(t, sub)
	require.NotNil(t, tier)
	assert.Equal(t, "sub_1", sub.ProviderSubscriptionID)
	assert.Equal(t, "basic", tier.ID)
}
