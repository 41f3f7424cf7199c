package domain

import "errors"

var (
	// ErrIdentityUnavailable means the transport context lacks a field needed
	// to build a PeerIdentity. The message is not eligible for encryption.
	ErrIdentityUnavailable = errors.New("identity unavailable")
	// ErrEngineEncode means the engine failed to transform an outgoing message.
	ErrEngineEncode = errors.New("engine encode failure")
	// ErrEngineDecode means the engine failed to process an incoming message.
	ErrEngineDecode = errors.New("engine decode failure")
	// ErrNoActiveConversation means a conversation command ran outside a query.
	ErrNoActiveConversation = errors.New("no active conversation")
	// ErrEngineStartup means the engine could not start; nothing is registered.
	ErrEngineStartup = errors.New("engine startup failure")
	// ErrNoSession means the peer has no key material the operation needs.
	ErrNoSession = errors.New("no session with peer")
)
