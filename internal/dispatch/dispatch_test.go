package dispatch_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otrbridge/internal/config"
	"otrbridge/internal/dispatch"
	"otrbridge/internal/domain"
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
)

// callEngine records every call that reaches it.
type callEngine struct {
	calls []string
	peers []domain.PeerIdentity
}

func (e *callEngine) record(op string, p domain.PeerIdentity) {
	e.calls = append(e.calls, op)
	e.peers = append(e.peers, p)
}

func (e *callEngine) Start() error { return nil }
func (e *callEngine) Stop() error  { return nil }

func (e *callEngine) Encode(p domain.PeerIdentity, _ string) (domain.EngineOutput, error) {
	e.record("encode", p)
	return domain.EngineOutput{}, nil
}

func (e *callEngine) Decode(p domain.PeerIdentity, _ string) (domain.EngineOutput, error) {
	e.record("decode", p)
	return domain.EngineOutput{}, nil
}

func (e *callEngine) Status(p domain.PeerIdentity) (domain.TrustStatus, bool) {
	e.record("status", p)
	return domain.TrustStatus{}, false
}

func (e *callEngine) Trust(p domain.PeerIdentity) (domain.Fingerprint, error) {
	e.record("trust", p)
	return "AAAA", nil
}

func (e *callEngine) Initiate(p domain.PeerIdentity) error {
	e.record("initiate", p)
	return nil
}

func (e *callEngine) Finish(p domain.PeerIdentity) error {
	e.record("finish", p)
	return nil
}

type nopTransport struct{}

func (nopTransport) Send(string, string) error { return nil }

type fixture struct {
	engine *callEngine
	state  *config.State
	client *host.Client
	logs   *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	f := &fixture{engine: &callEngine{}, state: config.NewState(false), logs: hook}
	f.client = host.NewClient(&host.Connection{Nick: "me", Address: "irc.example.net"}, nopTransport{}, nil, log)
	d := dispatch.New(engine.NewAdapter(f.engine), f.client, f.state, log)
	f.client.BindCommand(d.Command())
	return f
}

func (f *fixture) run(t *testing.T, line string) error {
	t.Helper()
	return f.client.Command(context.Background(), line)
}

func messages(h *test.Hook) []string {
	var out []string
	for _, e := range h.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func TestStatus_LogsLiveness(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run(t, "/otr"))

	assert.Equal(t, []string{"We're alive"}, messages(f.logs))
	assert.Equal(t, logrus.InfoLevel, f.logs.LastEntry().Level)
	assert.Empty(t, f.engine.calls)
}

func TestDebug_ToggleTwiceRestoresFlag(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "/otr debug"))
	assert.True(t, f.state.Debug())
	require.NoError(t, f.run(t, "/otr debug"))
	assert.False(t, f.state.Debug())

	assert.Equal(t, []string{"Debug mode on", "Debug mode off"}, messages(f.logs))
	assert.Empty(t, f.engine.calls)
}

func TestTrust_NoFocusedConversation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run(t, "/otr trust"))

	assert.Empty(t, f.engine.calls)
	entry := f.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), domain.ErrNoActiveConversation)
}

func TestTrust_FocusedPeer(t *testing.T) {
	f := newFixture(t)
	f.client.Focus("bob")
	require.NoError(t, f.run(t, "/otr trust"))

	require.Equal(t, []string{"trust"}, f.engine.calls)
	assert.Equal(t, domain.PeerIdentity{AccountNick: "me", PeerName: "bob", NetworkAddress: "irc.example.net"}, f.engine.peers[0])
	assert.Equal(t, "AAAA", f.logs.LastEntry().Data["fingerprint"])
}

func TestConversationCommands_FollowFocus(t *testing.T) {
	f := newFixture(t)

	f.client.Focus("bob")
	require.NoError(t, f.run(t, "/otr init"))
	f.client.Focus("carol")
	require.NoError(t, f.run(t, "/otr finish"))
	f.client.Unfocus()
	require.NoError(t, f.run(t, "/otr init"))

	assert.Equal(t, []string{"initiate", "finish"}, f.engine.calls)
	assert.Equal(t, "bob", f.engine.peers[0].PeerName)
	assert.Equal(t, "carol", f.engine.peers[1].PeerName)
}

func TestUnknownSubcommand_GoesToHost(t *testing.T) {
	f := newFixture(t)
	err := f.run(t, "/otr frobnicate now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown subcommand "frobnicate"`)
	assert.Empty(t, f.engine.calls)
}

func TestHelpFlag_DoesNotStick(t *testing.T) {
	f := newFixture(t)
	f.client.Focus("bob")

	require.NoError(t, f.run(t, "/otr trust -h"))
	assert.Empty(t, f.engine.calls)
	require.NoError(t, f.run(t, "/otr trust"))
	assert.Equal(t, []string{"trust"}, f.engine.calls)

	require.NoError(t, f.run(t, "/otr --help"))
	f.logs.Reset()
	require.NoError(t, f.run(t, "/otr"))
	assert.Equal(t, []string{"We're alive"}, messages(f.logs))
}
