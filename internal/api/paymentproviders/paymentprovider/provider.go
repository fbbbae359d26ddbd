package paymentprovider

import "context"

type Provider interface {
	Name() string

	SetBaseURL(u string) error

	CreateCustomer(ctx context.Context, email string) (*Customer, error)
	GetCustomer(ctx context.Context, cust string) (*Customer, error)
	UpdateCustomer(ctx context.Context, cust string, payload CustomerUpdatePayload) (*Customer, error)
}

type CustomerUpdatePayload struct {
	Email  string
	Status CustomerStatus
}
