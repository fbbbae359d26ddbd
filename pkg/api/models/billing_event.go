package models

import (
	"github.com/jinzhu/gorm"
)

// BillingEvent is an audit row for every verified webhook delivery.
// It exists for delivery-log debugging only: the reconcile path never
// consults it, so redeliveries still take the tolerance path instead
// of being short-circuited here.
type BillingEvent struct {
	gorm.Model

	Provider   string
	ProviderID string

	UserID *uint

	Type string
	Data []byte
}

func (e *BillingEvent) Create(db *gorm.DB) error {
	return db.Create(e).Error
}
