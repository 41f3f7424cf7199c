// Package peer resolves the PeerIdentity of a conversation from the context
// the transport supplies with each event.
package peer

import (
	"fmt"
	"strings"

	"otrbridge/internal/domain"
	"otrbridge/internal/host"
)

// Resolve builds the identity for a conversation between accountNick and
// peerName on the network at address. Every part must be non-blank.
func Resolve(accountNick, peerName, address string) (domain.PeerIdentity, error) {
	var missing []string
	if strings.TrimSpace(accountNick) == "" {
		missing = append(missing, "account nick")
	}
	if strings.TrimSpace(peerName) == "" {
		missing = append(missing, "peer name")
	}
	if strings.TrimSpace(address) == "" {
		missing = append(missing, "network address")
	}
	if len(missing) > 0 {
		return domain.PeerIdentity{}, fmt.Errorf("%w: missing %s", domain.ErrIdentityUnavailable, strings.Join(missing, ", "))
	}
	return domain.PeerIdentity{
		AccountNick:    accountNick,
		PeerName:       peerName,
		NetworkAddress: address,
	}, nil
}

// FromConnection resolves the identity for peerName on conn.
func FromConnection(conn *host.Connection, peerName string) (domain.PeerIdentity, error) {
	if conn == nil {
		return domain.PeerIdentity{}, fmt.Errorf("%w: no connection", domain.ErrIdentityUnavailable)
	}
	return Resolve(conn.Nick, peerName, conn.Address)
}

// FromQuery resolves the identity of a query window; a nil query means the
// focused window is not a conversation.
func FromQuery(q *host.Query) (domain.PeerIdentity, error) {
	if q == nil {
		return domain.PeerIdentity{}, domain.ErrNoActiveConversation
	}
	id, err := FromConnection(q.Conn, q.Name)
	if err != nil {
		return domain.PeerIdentity{}, fmt.Errorf("%w: %v", domain.ErrNoActiveConversation, err)
	}
	return id, nil
}
