package subscription

import (
	"github.com/formlytics/formlytics-api/pkg/api/policy"
	"github.com/formlytics/formlytics-api/pkg/api/request"
	"github.com/formlytics/formlytics-api/pkg/api/returntypes"
	"github.com/pkg/errors"
)

type Service interface {
	//url:/v1/subscription method:GET
	Get(rc *request.AuthorizedContext) (*returntypes.WrappedSubInfo, error)
}

type BasicService struct {
	Entitlement *policy.Entitlement
}

// Get reports the user's current subscription, with a null
// subscription when there is none: the dashboard distinguishes "no
// plan yet" from request failure by the body, not the status code.
func (s BasicService) Get(rc *request.AuthorizedContext) (*returntypes.WrappedSubInfo, error) {
	sub, tier, err := s.Entitlement.ActiveSubscription(rc.User)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve active subscription")
	}

	if sub == nil {
		return &returntypes.WrappedSubInfo{}, nil
	}

	return &returntypes.WrappedSubInfo{
		Subscription: &returntypes.SubInfo{
			TierID:   tier.ID,
			TierName: tier.Name,
			Status:   sub.Status,
			PriceID:  sub.PriceID,
		},
	}, nil
}
