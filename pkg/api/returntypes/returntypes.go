package returntypes

// EventAck is the body of a successful webhook acknowledgement.
type EventAck struct {
	Status    int    `json:"status"`
	EventName string `json:"eventName"`
}

type CheckoutCustomer struct {
	CustomerID string `json:"customerId"`
	Email      string `json:"email"`
}

type SubInfo struct {
	TierID   string `json:"tierId"`
	TierName string `json:"tierName"`
	Status   string `json:"status"`
	PriceID  string `json:"priceId"`
}

type WrappedSubInfo struct {
	Subscription *SubInfo `json:"subscription"`
}
