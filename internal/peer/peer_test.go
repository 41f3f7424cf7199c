package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otrbridge/internal/domain"
	"otrbridge/internal/host"
)

func TestResolve(t *testing.T) {
	id, err := Resolve("me", "alice", "irc.example.net")
	require.NoError(t, err)
	assert.Equal(t, domain.PeerIdentity{AccountNick: "me", PeerName: "alice", NetworkAddress: "irc.example.net"}, id)
}

func TestResolve_MissingParts(t *testing.T) {
	cases := []struct{ nick, peer, addr string }{
		{"", "alice", "irc.example.net"},
		{"me", " ", "irc.example.net"},
		{"me", "alice", ""},
	}
	for _, c := range cases {
		_, err := Resolve(c.nick, c.peer, c.addr)
		assert.ErrorIs(t, err, domain.ErrIdentityUnavailable)
	}
}

func TestFromConnection_Nil(t *testing.T) {
	_, err := FromConnection(nil, "alice")
	assert.ErrorIs(t, err, domain.ErrIdentityUnavailable)
}

func TestFromQuery(t *testing.T) {
	_, err := FromQuery(nil)
	assert.ErrorIs(t, err, domain.ErrNoActiveConversation)

	_, err = FromQuery(&host.Query{Name: "alice"})
	assert.ErrorIs(t, err, domain.ErrNoActiveConversation)

	id, err := FromQuery(&host.Query{Conn: &host.Connection{Nick: "me", Address: "net"}, Name: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", id.PeerName)
}
