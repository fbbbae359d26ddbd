package paymentprovider

// Outcome is the explicit result of applying one webhook event to local
// state. Reconciliation failures are reported, not raised: the webhook
// endpoint must acknowledge delivery regardless (the provider is the
// durable system of record and redelivers on its own schedule).
type Outcome string

const (
	// OutcomeApplied means local state was mutated.
	OutcomeApplied Outcome = "applied"

	// OutcomeSkipped means the event kind is not in the routing table.
	// The provider's event catalog grows independently of this system,
	// so an unknown kind is a successful no-op.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeDiscarded means the reconciler failed (duplicate insert
	// from a redelivery, update for a row that doesn't exist yet, lost
	// linkage) and the failure was logged and swallowed.
	OutcomeDiscarded Outcome = "discarded"
)

type EventReceipt struct {
	EventName string
	Outcome   Outcome

	// UserID and PriceID are filled when the event carried them, for
	// callers that report on applied events.
	UserID  *uint
	PriceID string
}

type EventProcessor interface {
	Process(body []byte, signatureHeader string) (*EventReceipt, error)
}
