package domain

import (
	interfaces "otrbridge/internal/domain/interfaces"
	types "otrbridge/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint    = types.Fingerprint
	AccountID      = types.AccountID
	Identity       = types.Identity
	PeerIdentity   = types.PeerIdentity
	Decision       = types.Decision
	DecisionKind   = types.DecisionKind
	TrustStatus    = types.TrustStatus
	TrustEntry     = types.TrustEntry
	SessionState   = types.SessionState
	EngineOutput   = types.EngineOutput
	RatchetHeader  = types.RatchetHeader
	RatchetState   = types.RatchetState
	X25519Public   = types.X25519Public
	X25519Private  = types.X25519Private
	Ed25519Public  = types.Ed25519Public
	Ed25519Private = types.Ed25519Private
)

// Decision kinds and session states, re-exported.
const (
	Unchanged  = types.Unchanged
	Replaced   = types.Replaced
	Suppressed = types.Suppressed

	StatePlaintext = types.StatePlaintext
	StateHandshake = types.StateHandshake
	StateEncrypted = types.StateEncrypted
	StateFinished  = types.StateFinished
)

// Decision constructors, re-exported.
var (
	Pass     = types.Pass
	Suppress = types.Suppress
	Replace  = types.Replace
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Engine          = interfaces.Engine
	Injector        = interfaces.Injector
	IdentityStore   = interfaces.IdentityStore
	TrustStore      = interfaces.TrustStore
	IdentityService = interfaces.IdentityService
)
