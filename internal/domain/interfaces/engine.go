package interfaces

import domaintypes "otrbridge/internal/domain/types"

// Engine is the encryption engine the pipeline drives. Every call is
// synchronous and local; network traffic the engine needs goes through an
// Injector and is never performed inside Encode or Decode.
type Engine interface {
	Start() error
	Stop() error

	Encode(peer domaintypes.PeerIdentity, plaintext string) (domaintypes.EngineOutput, error)
	Decode(peer domaintypes.PeerIdentity, text string) (domaintypes.EngineOutput, error)

	// Status never blocks; ok is false when no session exists.
	Status(peer domaintypes.PeerIdentity) (status domaintypes.TrustStatus, ok bool)
	Trust(peer domaintypes.PeerIdentity) (domaintypes.Fingerprint, error)

	Initiate(peer domaintypes.PeerIdentity) error
	Finish(peer domaintypes.PeerIdentity) error
}

// Injector delivers protocol text to a peer without passing it back through
// the interception hooks.
type Injector interface {
	Inject(peer domaintypes.PeerIdentity, text string) error
}
