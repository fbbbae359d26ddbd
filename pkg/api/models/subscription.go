package models

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// Subscription is the local mirror of a provider subscription. Rows are
// created on subscription.created events and mutated only on
// subscription.updated events matched by ProviderSubscriptionID; they
// are never deleted, status transitions model the lifecycle instead.
type Subscription struct {
	gorm.Model

	ProviderSubscriptionID string `gorm:"unique_index"`

	// Status is the raw provider status ("active", "trialing",
	// "past_due", "canceled", "paused").
	Status string

	PriceID   string
	ProductID string

	// ScheduledChangeAt is the effective timestamp of a pending
	// provider-side change (e.g. a scheduled cancellation), empty when
	// none is scheduled.
	ScheduledChangeAt string

	CustomerID uint
	UserID     uint
}

func (s Subscription) GoString() string {
	return fmt.Sprintf("{ID: %d, ProviderSubscriptionID: %s, Status: %s, PriceID: %s}",
		s.ID, s.ProviderSubscriptionID, s.Status, s.PriceID)
}

func (s *Subscription) Create(db *gorm.DB) error {
	return db.Create(s).Error
}
