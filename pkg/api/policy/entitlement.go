package policy

import (
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/models"
	"github.com/formlytics/formlytics-api/pkg/api/pricing"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// Entitlement resolves which pricing tier a user is currently paying
// for. It's a pure read over persisted billing state: safe to evaluate
// on every request, and never cached because webhook processing can
// change the answer between requests.
type Entitlement struct {
	log logutil.Log
	db  *gorm.DB
}

func NewEntitlement(log logutil.Log, db *gorm.DB) *Entitlement {
	return &Entitlement{
		log: log,
		db:  db,
	}
}

// ActiveTier returns the tier of the user's first active or trialing
// subscription, or nil when the user has none. A subscription whose
// price id is absent from the catalog (a removed plan) also resolves
// to nil: stale billing state must degrade to "no entitlement", not
// to an error.
func (e Entitlement) ActiveTier(user *models.User) (*pricing.Tier, error) {
	_, tier, err := e.ActiveSubscription(user)
	return tier, err
}

// ActiveSubscription returns the user's first entitling subscription
// together with its resolved tier. Both are nil when the user has no
// entitlement.
func (e Entitlement) ActiveSubscription(user *models.User) (*models.Subscription, *pricing.Tier, error) {
	var customer models.Customer
	err := e.db.Where("user_id = ?", user.ID).First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to fetch customer for user %d", user.ID)
	}

	// Rows come back in storage order: with at most one live
	// subscription per customer the first entitling row is the
	// current one.
	var subs []models.Subscription
	if err := e.db.Where("customer_id = ?", customer.ID).Find(&subs).Error; err != nil {
		return nil, nil, errors.Wrapf(err, "failed to fetch subscriptions of customer %d", customer.ID)
	}

	for i := range subs {
		sub := &subs[i]
		if !paymentprovider.SubscriptionStatus(sub.Status).IsEntitling() {
			continue
		}

		tier, ok := pricing.TierByPriceID(sub.PriceID)
		if !ok {
			e.log.Warnf("Subscription %d of user %d has price id %q not present in the catalog",
				sub.ID, user.ID, sub.PriceID)
			return nil, nil, nil
		}

		return sub, tier, nil
	}

	return nil, nil, nil
}
