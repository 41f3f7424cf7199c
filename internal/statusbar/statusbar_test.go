package statusbar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"otrbridge/internal/domain"
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
	"otrbridge/internal/statusbar"
)

type statusEngine struct {
	domain.Engine
	sessions map[string]domain.TrustStatus
}

func (e *statusEngine) Status(p domain.PeerIdentity) (domain.TrustStatus, bool) {
	st, ok := e.sessions[p.PeerName]
	return st, ok
}

type window struct{ q *host.Query }

func (w *window) ActiveQuery() *host.Query { return w.q }

func TestRender(t *testing.T) {
	conn := &host.Connection{Nick: "me", Address: "irc.example.net"}
	eng := &statusEngine{sessions: map[string]domain.TrustStatus{
		"bob":   {State: domain.StateEncrypted, Trusted: true},
		"carol": {State: domain.StateEncrypted},
		"dave":  {State: domain.StateHandshake},
		"erin":  {State: domain.StateFinished},
	}}
	w := &window{}
	item := statusbar.New(engine.NewAdapter(eng), w)

	tests := []struct {
		name  string
		query *host.Query
		want  string
	}{
		{"no window", nil, ""},
		{"no session", &host.Query{Conn: conn, Name: "alice"}, ""},
		{"verified", &host.Query{Conn: conn, Name: "bob"}, "Otr: encrypted (verified)"},
		{"unverified", &host.Query{Conn: conn, Name: "carol"}, "Otr: encrypted (unverified)"},
		{"handshake", &host.Query{Conn: conn, Name: "dave"}, "Otr: handshake"},
		{"finished", &host.Query{Conn: conn, Name: "erin"}, "Otr: finished"},
		{"no connection", &host.Query{Name: "bob"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.q = tt.query
			assert.Equal(t, tt.want, item.Render())
		})
	}
}

func TestRender_ThroughHostRedraw(t *testing.T) {
	eng := &statusEngine{sessions: map[string]domain.TrustStatus{
		"bob": {State: domain.StateEncrypted},
	}}
	c := host.NewClient(&host.Connection{Nick: "me", Address: "net"}, nil, nil, nil)
	item := statusbar.New(engine.NewAdapter(eng), c)
	c.RegisterStatusItem(statusbar.Name, item.Render)

	c.Focus("bob")
	assert.Equal(t, "[Otr: encrypted (unverified)]", c.StatusLine())
	c.Focus("alice")
	assert.Equal(t, "", c.StatusLine())
}
