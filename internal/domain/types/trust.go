package types

// SessionState is where a peer session sits in the engine's lifecycle.
type SessionState int

const (
	// StatePlaintext means no encrypted session exists.
	StatePlaintext SessionState = iota
	// StateHandshake means a key exchange is in flight.
	StateHandshake
	// StateEncrypted means messages are being encrypted.
	StateEncrypted
	// StateFinished means the peer ended the encrypted session.
	StateFinished
)

// String returns the lowercase name of the state.
func (s SessionState) String() string {
	switch s {
	case StatePlaintext:
		return "plaintext"
	case StateHandshake:
		return "handshake"
	case StateEncrypted:
		return "encrypted"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// TrustStatus is the engine's read-only view of one peer session.
type TrustStatus struct {
	State       SessionState `json:"state"`
	Fingerprint Fingerprint  `json:"fingerprint,omitempty"`
	Trusted     bool         `json:"trusted"`
	Instance    string       `json:"instance,omitempty"`
}

// Summary is the short text shown in the status indicator.
func (s TrustStatus) Summary() string {
	switch s.State {
	case StateEncrypted:
		if s.Trusted {
			return "encrypted (verified)"
		}
		return "encrypted (unverified)"
	default:
		return s.State.String()
	}
}

// TrustEntry records one fingerprint the user has vouched for.
type TrustEntry struct {
	Peer        PeerIdentity `json:"peer"`
	Fingerprint Fingerprint  `json:"fingerprint"`
	CreatedUTC  int64        `json:"created_utc"`
}
