package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// Customer is the local mirror of the billing provider's customer
// object. There is at most one row per provider customer identifier;
// the provider id is the join key for every reconciliation write.
type Customer struct {
	gorm.Model

	ProviderCustomerID string `gorm:"unique_index"`

	Email  string
	UserID uint

	// Status mirrors the provider-side customer status
	// ("active" or "archived").
	Status string
}

func (c Customer) GoString() string {
	return fmt.Sprintf("{ID: %d, ProviderCustomerID: %s, UserID: %d, Status: %s}",
		c.ID, c.ProviderCustomerID, c.UserID, c.Status)
}

func (c *Customer) Create(db *gorm.DB) error {
	return db.Create(c).Error
}
