package market

// State is the lifecycle phase of a Market.
// Keep these values stable; they are reported by the API.
type State string

const (
	// StateCreated: built from its initial participants, nothing added since.
	StateCreated State = "CREATED"
	// StateOpen: at least one participant was added after construction.
	StateOpen State = "OPEN"
)
