package implementations

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
)

type stableProvider struct {
	underlying   paymentprovider.Provider
	totalTimeout time.Duration
	maxRetries   int
}

func NewStableProvider(underlying paymentprovider.Provider, totalTimeout time.Duration, maxRetries int) paymentprovider.Provider {
	return &stableProvider{
		underlying:   underlying,
		totalTimeout: totalTimeout,
		maxRetries:   maxRetries,
	}
}

func (p stableProvider) retry(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.totalTimeout

	bmr := backoff.WithMaxRetries(b, uint64(p.maxRetries))
	if err := backoff.Retry(f, bmr); err != nil {
		return err
	}

	return nil
}

func (p *stableProvider) Name() string {
	return p.underlying.Name()
}

func (p *stableProvider) SetBaseURL(s string) error {
	return p.underlying.SetBaseURL(s)
}

func (p *stableProvider) CreateCustomer(ctx context.Context, email string) (retCust *paymentprovider.Customer, err error) {
	_ = p.retry(func() error {
		retCust, err = p.underlying.CreateCustomer(ctx, email)
		return err
	})
	return
}

func (p *stableProvider) GetCustomer(ctx context.Context, cust string) (retCust *paymentprovider.Customer, err error) {
	_ = p.retry(func() error {
		retCust, err = p.underlying.GetCustomer(ctx, cust)
		return err
	})
	return
}

func (p *stableProvider) UpdateCustomer(ctx context.Context, cust string, payload paymentprovider.CustomerUpdatePayload) (retCust *paymentprovider.Customer, err error) {
	_ = p.retry(func() error {
		retCust, err = p.underlying.UpdateCustomer(ctx, cust, payload)
		return err
	})
	return
}
