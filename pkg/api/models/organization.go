package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// Organization is the tenant boundary. It owns forms (managed outside
// this service) and at most one billing customer reference, linked the
// first time a checkout is initiated.
type Organization struct {
	gorm.Model

	Name string

	// BillingCustomerID is the provider-side customer identifier.
	// Empty until the organization first goes through checkout or a
	// customer webhook arrives.
	BillingCustomerID string
}

func (o Organization) GoString() string {
	return fmt.Sprintf("{ID: %d, Name: %s, BillingCustomerID: %s}", o.ID, o.Name, o.BillingCustomerID)
}

func (o *Organization) Create(db *gorm.DB) error {
	return db.Create(o).Error
}
