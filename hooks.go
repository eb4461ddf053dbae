package webstore

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The store calls them synchronously on the caller's goroutine.
type Hooks interface {
	// Capability probe finished for the named store ("local", "session").
	ProbeResult(store string, supported bool)

	// An entry was found expired on read and removed with its marker.
	ExpiredOnRead(storageKey string)

	// A write hit the quota and the Others bucket was flushed once.
	// retryErr is the outcome of the single retry (nil on success).
	QuotaReclaim(store string, removed int, retryErr error)

	// A write was not stored.
	// reason ∈ {"encode", "quota", "backend", "expiry"}
	SetRejected(storageKey, reason string)

	// Keys without a bucket were removed by a storage-wide clear.
	RogueSwept(store string, count int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) ProbeResult(string, bool)        {}
func (NopHooks) ExpiredOnRead(string)            {}
func (NopHooks) QuotaReclaim(string, int, error) {}
func (NopHooks) SetRejected(string, string)      {}
func (NopHooks) RogueSwept(string, int)          {}
