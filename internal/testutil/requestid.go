package testutil

// FixedRequestID hands out the same request ID on every call.
//
// Plugged into client.Options.RequestID it makes outgoing headers
// deterministic. Safe for concurrent use.
type FixedRequestID struct {
	id string
}

// NewFixedRequestID returns a generator for id.
// An empty id becomes "test-request-default".
func NewFixedRequestID(id string) *FixedRequestID {
	if id == "" {
		id = "test-request-default"
	}
	return &FixedRequestID{id: id}
}

// Generate returns the fixed ID.
func (g *FixedRequestID) Generate() string {
	return g.id
}
