// Package engine adapts an encryption engine to the three-way message
// decisions the interception pipeline acts on.
//
// Every engine failure fails closed: the message is suppressed rather than
// sent in the clear or shown garbled. There are no retries.
package engine

import (
	"fmt"

	"otrbridge/internal/domain"
)

// Adapter is a thin call-through to a domain.Engine.
type Adapter struct {
	engine domain.Engine
}

// NewAdapter wraps e.
func NewAdapter(e domain.Engine) *Adapter { return &Adapter{engine: e} }

// Encode asks the engine to transform an outgoing plaintext. On failure the
// decision is Suppressed and the error wraps domain.ErrEngineEncode.
func (a *Adapter) Encode(peer domain.PeerIdentity, plaintext string) (domain.Decision, error) {
	out, err := a.engine.Encode(peer, plaintext)
	if err != nil {
		return domain.Suppress(), fmt.Errorf("%w: %v", domain.ErrEngineEncode, err)
	}
	d := decide(plaintext, out)
	if d.Kind == domain.Replaced && d.Text() == "" {
		// nothing left to put on the wire
		return domain.Suppress(), nil
	}
	return d, nil
}

// Decode asks the engine to process incoming text. On failure the decision
// is Suppressed and the error wraps domain.ErrEngineDecode.
func (a *Adapter) Decode(peer domain.PeerIdentity, text string) (domain.Decision, error) {
	out, err := a.engine.Decode(peer, text)
	if err != nil {
		return domain.Suppress(), fmt.Errorf("%w: %v", domain.ErrEngineDecode, err)
	}
	return decide(text, out), nil
}

// QueryStatus returns the engine's view of the session; ok is false when no
// session exists. It never touches the network.
func (a *Adapter) QueryStatus(peer domain.PeerIdentity) (domain.TrustStatus, bool) {
	return a.engine.Status(peer)
}

// AssertTrust marks the peer's current fingerprint as verified.
func (a *Adapter) AssertTrust(peer domain.PeerIdentity) (domain.Fingerprint, error) {
	return a.engine.Trust(peer)
}

// Initiate asks the engine to start an encrypted session.
func (a *Adapter) Initiate(peer domain.PeerIdentity) error { return a.engine.Initiate(peer) }

// Finish asks the engine to end the encrypted session.
func (a *Adapter) Finish(peer domain.PeerIdentity) error { return a.engine.Finish(peer) }

// decide maps raw engine output to a decision. Output equal to the input is
// a no-op and stays Unchanged. An empty decrypted message is still Replaced.
func decide(input string, out domain.EngineOutput) domain.Decision {
	switch {
	case out.Consumed:
		return domain.Suppress()
	case !out.Modified || out.Text == input:
		return domain.Pass()
	default:
		return domain.Replace(out.Text)
	}
}
