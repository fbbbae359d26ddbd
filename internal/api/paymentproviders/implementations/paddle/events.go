package paddle

const (
	eventSubscriptionCreated = "subscription.created"
	eventSubscriptionUpdated = "subscription.updated"
	eventCustomerCreated     = "customer.created"
	eventCustomerUpdated     = "customer.updated"
)

type customData struct {
	UserID string `json:"userId"`
}

type priceData struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
}

type itemData struct {
	Price priceData `json:"price"`
}

type scheduledChangeData struct {
	Action      string `json:"action"`
	EffectiveAt string `json:"effectiveAt"`
}

type subscriptionData struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	CustomerID      string               `json:"customerId"`
	Items           []itemData           `json:"items"`
	ScheduledChange *scheduledChangeData `json:"scheduledChange"`
	CustomData      customData           `json:"customData"`
}

// firstPriceID returns the price id of the first line item. Plans are
// single-item so the first item is the subscription's plan; an empty
// items list yields "".
func (d subscriptionData) firstPriceID() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[0].Price.ID
}

func (d subscriptionData) firstProductID() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[0].Price.ProductID
}

func (d subscriptionData) scheduledChangeAt() string {
	if d.ScheduledChange == nil {
		return ""
	}
	return d.ScheduledChange.EffectiveAt
}

type customerData struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	CustomData customData `json:"customData"`
}
