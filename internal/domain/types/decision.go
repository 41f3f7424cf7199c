package types

import "runtime"

// DecisionKind tags a Decision.
type DecisionKind int

const (
	// Unchanged lets the original message proceed untouched.
	Unchanged DecisionKind = iota
	// Replaced continues the message with a new payload.
	Replaced
	// Suppressed stops the message; it never reaches the network or the buffer.
	Suppressed
)

// String returns the lowercase name of the kind.
func (k DecisionKind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Replaced:
		return "replaced"
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Decision is the outcome of intercepting one message.
//
// A Replaced decision owns its payload. The holder must call Release once the
// transport has consumed the text; the payload is wiped and must not be used
// afterwards.
type Decision struct {
	Kind    DecisionKind
	payload []byte
}

// Pass returns an Unchanged decision.
func Pass() Decision { return Decision{Kind: Unchanged} }

// Suppress returns a Suppressed decision.
func Suppress() Decision { return Decision{Kind: Suppressed} }

// Replace returns a Replaced decision owning a private copy of text.
func Replace(text string) Decision {
	return Decision{Kind: Replaced, payload: []byte(text)}
}

// Text returns the replacement payload; empty unless Kind is Replaced.
func (d Decision) Text() string { return string(d.payload) }

// Release wipes the payload buffer. Safe to call on any decision.
//
//go:noinline
func (d *Decision) Release() {
	for i := range d.payload {
		d.payload[i] = 0
	}
	runtime.KeepAlive(&d.payload)
	d.payload = nil
}
