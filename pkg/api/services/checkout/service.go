package checkout

import (
	"github.com/formlytics/formlytics-api/internal/api/analytics"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/implementations/paddle"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/formlytics/formlytics-api/pkg/api/request"
	"github.com/formlytics/formlytics-api/pkg/api/returntypes"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type Service interface {
	//url:/v1/checkout/customer method:POST
	EnsureCustomer(rc *request.AuthorizedContext) (*returntypes.CheckoutCustomer, error)
}

type BasicService struct {
	ProviderFactory paymentproviders.Factory
	Analytics       analytics.Tracker
}

// EnsureCustomer makes sure the user has a live provider customer and
// a matching local Customer row before checkout opens. Creating the
// local row here, ahead of any webhook, is what lets the webhook path
// treat customer events as pure updates.
func (s BasicService) EnsureCustomer(rc *request.AuthorizedContext) (*returntypes.CheckoutCustomer, error) {
	provider, err := s.ProviderFactory.Build(paddle.ProviderName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build payment provider")
	}

	org, err := s.ensureOrg(rc)
	if err != nil {
		return nil, err
	}

	var cust *paymentprovider.Customer
	if org.BillingCustomerID != "" {
		cust, err = s.reuseCustomer(rc, provider, org.BillingCustomerID)
	} else {
		cust, err = s.createCustomer(rc, provider, org)
	}
	if err != nil {
		return nil, err
	}

	if err = s.saveLocalCustomer(rc, cust); err != nil {
		return nil, err
	}

	return &returntypes.CheckoutCustomer{
		CustomerID: cust.ID,
		Email:      cust.Email,
	}, nil
}

func (s BasicService) ensureOrg(rc *request.AuthorizedContext) (*models.Organization, error) {
	if rc.User.OrgID != 0 {
		var org models.Organization
		if err := rc.DB.First(&org, rc.User.OrgID).Error; err != nil {
			return nil, errors.Wrapf(err, "failed to fetch org %d", rc.User.OrgID)
		}
		return &org, nil
	}

	org := models.Organization{
		Name: rc.User.Email,
	}
	if err := org.Create(rc.DB); err != nil {
		return nil, err
	}

	if err := rc.DB.Model(rc.User).Update("org_id", org.ID).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to link user %d to org %d", rc.User.ID, org.ID)
	}
	rc.User.OrgID = org.ID

	return &org, nil
}

func (s BasicService) reuseCustomer(rc *request.AuthorizedContext, provider paymentprovider.Provider,
	providerCustomerID string) (*paymentprovider.Customer, error) {

	cust, err := provider.GetCustomer(rc.Ctx, providerCustomerID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch provider customer %s", providerCustomerID)
	}

	if cust.Status != paymentprovider.CustomerStatusArchived {
		return cust, nil
	}

	// A customer archived on the provider side can't start checkout,
	// so reactivate it instead of creating a duplicate.
	rc.Log.Infof("Reactivating archived provider customer %s", providerCustomerID)
	cust, err = provider.UpdateCustomer(rc.Ctx, providerCustomerID, paymentprovider.CustomerUpdatePayload{
		Status: paymentprovider.CustomerStatusActive,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reactivate provider customer %s", providerCustomerID)
	}

	return cust, nil
}

func (s BasicService) createCustomer(rc *request.AuthorizedContext, provider paymentprovider.Provider,
	org *models.Organization) (*paymentprovider.Customer, error) {

	cust, err := provider.CreateCustomer(rc.Ctx, rc.User.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create provider customer")
	}
	rc.Log.Infof("Created provider customer %s for user %d", cust.ID, rc.User.ID)

	if err = rc.DB.Model(org).Update("billing_customer_id", cust.ID).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to save billing customer id of org %d", org.ID)
	}

	s.Analytics.CustomerCreated(rc.User.ID)
	return cust, nil
}

func (s BasicService) saveLocalCustomer(rc *request.AuthorizedContext, cust *paymentprovider.Customer) error {
	var existing models.Customer
	err := rc.DB.Where("provider_customer_id = ?", cust.ID).First(&existing).Error
	if err == nil {
		return errors.Wrapf(rc.DB.Model(&existing).Updates(map[string]interface{}{
			"email":   cust.Email,
			"status":  string(cust.Status),
			"user_id": rc.User.ID,
		}).Error, "failed to update customer %s", cust.ID)
	}
	if err != gorm.ErrRecordNotFound {
		return errors.Wrapf(err, "failed to fetch customer %s", cust.ID)
	}

	dbCust := models.Customer{
		ProviderCustomerID: cust.ID,
		Email:              cust.Email,
		UserID:             rc.User.ID,
		Status:             string(cust.Status),
	}
	return dbCust.Create(rc.DB)
}
