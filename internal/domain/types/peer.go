package types

import "fmt"

// PeerIdentity identifies one conversation's cryptographic session: our
// nick, the remote peer, and the network we reach them on.
//
// It is rebuilt for every event from transport context and carries no state
// of its own; the engine keys its sessions by it.
type PeerIdentity struct {
	AccountNick    string `json:"account_nick"`
	PeerName       string `json:"peer_name"`
	NetworkAddress string `json:"network_address"`
}

// Account returns the local half of the identity.
func (p PeerIdentity) Account() AccountID {
	return AccountID{Nick: p.AccountNick, Network: p.NetworkAddress}
}

// Key returns a stable map key for the identity.
func (p PeerIdentity) Key() string {
	return p.AccountNick + "|" + p.PeerName + "|" + p.NetworkAddress
}

// String renders the identity for notices.
func (p PeerIdentity) String() string {
	return fmt.Sprintf("%s -> %s (%s)", p.AccountNick, p.PeerName, p.NetworkAddress)
}

// Fields returns structured log fields.
func (p PeerIdentity) Fields() map[string]any {
	return map[string]any{
		"account": p.AccountNick,
		"peer":    p.PeerName,
		"network": p.NetworkAddress,
	}
}
