package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/implementations/paddle"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/auth"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/formlytics/formlytics-api/pkg/api/request"
)

type fakeProvider struct {
	customers      map[string]*paymentprovider.Customer
	createCalls    int
	updatePayloads []paymentprovider.CustomerUpdatePayload
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{customers: map[string]*paymentprovider.Customer{}}
}

func (p *fakeProvider) Name() string            { return paddle.ProviderName }
func (p *fakeProvider) SetBaseURL(string) error { return nil }

func (p *fakeProvider) CreateCustomer(_ context.Context, email string) (*paymentprovider.Customer, error) {
	p.createCalls++
	cust := &paymentprovider.Customer{
		ID:     fmt.Sprintf("ctm_%d", p.createCalls),
		Email:  email,
		Status: paymentprovider.CustomerStatusActive,
	}
	p.customers[cust.ID] = cust
	return cust, nil
}

func (p *fakeProvider) GetCustomer(_ context.Context, cust string) (*paymentprovider.Customer, error) {
	c, ok := p.customers[cust]
	if !ok {
		return nil, paymentprovider.ErrNotFound
	}
	return c, nil
}

func (p *fakeProvider) UpdateCustomer(_ context.Context, cust string,
	payload paymentprovider.CustomerUpdatePayload) (*paymentprovider.Customer, error) {

	p.updatePayloads = append(p.updatePayloads, payload)
	c, ok := p.customers[cust]
	if !ok {
		return nil, paymentprovider.ErrNotFound
	}
	if payload.Status != "" {
		c.Status = payload.Status
	}
	if payload.Email != "" {
		c.Email = payload.Email
	}
	return c, nil
}

type fakeFactory struct {
	p paymentprovider.Provider
}

func (f fakeFactory) Build(string) (paymentprovider.Provider, error) {
	return f.p, nil
}

type nopAnalytics struct{}

func (nopAnalytics) CustomerCreated(uint)             {}
func (nopAnalytics) SubscriptionStarted(uint, string) {}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Organization{}, &models.Customer{},
		&models.Subscription{}).Error
	require.NoError(t, err)

	return db
}

func makeAuthorizedContext(t *testing.T, db *gorm.DB) *request.AuthorizedContext {
	user := models.User{Email: "dev@formlytics.com"}
	require.NoError(t, user.Create(db))

	return &request.AuthorizedContext{
		BaseContext: request.BaseContext{
			Ctx: context.Background(),
			Log: logutil.NewStderrLog("test"),
			DB:  db,
		},
		AuthenticatedUser: auth.AuthenticatedUser{User: &user},
	}
}

func TestEnsureCustomerFirstTime(t *testing.T) {
	db := setupTestDB(t)
	rc := makeAuthorizedContext(t, db)
	provider := newFakeProvider()
	svc := BasicService{ProviderFactory: fakeFactory{provider}, Analytics: nopAnalytics{}}

	ret, err := svc.EnsureCustomer(rc)
	require.NoError(t, err)
	assert.Equal(t, "ctm_1", ret.CustomerID)
	assert.Equal(t, "dev@formlytics.com", ret.Email)
	assert.Equal(t, 1, provider.createCalls)

	var org models.Organization
	require.NoError(t, db.First(&org, rc.User.OrgID).Error)
	assert.Equal(t, "ctm_1", org.BillingCustomerID)

	var cust models.Customer
	require.NoError(t, db.Where("provider_customer_id = ?", "ctm_1").First(&cust).Error)
	assert.Equal(t, rc.User.ID, cust.UserID)
}

func TestEnsureCustomerReusesExisting(t *testing.T) {
	db := setupTestDB(t)
	rc := makeAuthorizedContext(t, db)
	provider := newFakeProvider()
	svc := BasicService{ProviderFactory: fakeFactory{provider}, Analytics: nopAnalytics{}}

	_, err := svc.EnsureCustomer(rc)
	require.NoError(t, err)

	ret, err := svc.EnsureCustomer(rc)
	require.NoError(t, err)
	assert.Equal(t, "ctm_1", ret.CustomerID)
	assert.Equal(t, 1, provider.createCalls)

	var count int
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, 1, count)
}

func TestEnsureCustomerReactivatesArchived(t *testing.T) {
	db := setupTestDB(t)
	rc := makeAuthorizedContext(t, db)
	provider := newFakeProvider()
	svc := BasicService{ProviderFactory: fakeFactory{provider}, Analytics: nopAnalytics{}}

	_, err := svc.EnsureCustomer(rc)
	require.NoError(t, err)
	provider.customers["ctm_1"].Status = paymentprovider.CustomerStatusArchived

	ret, err := svc.EnsureCustomer(rc)
	require.NoError(t, err)
	assert.Equal(t, "ctm_1", ret.CustomerID)
	require.Len(t, provider.updatePayloads, 1)
	assert.Equal(t, paymentprovider.CustomerStatusActive, provider.updatePayloads[0].Status)
}
