package relay_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otrbridge/internal/relay"
)

func startRelay(t *testing.T) (*relay.Server, string) {
	t.Helper()
	log, _ := test.NewNullLogger()
	s := relay.NewServer(log)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, base, nick string) *relay.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := relay.Dial(ctx, base, nick)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitOnline(t *testing.T, s *relay.Server, nick string) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Online(nick) }, 5*time.Second, 10*time.Millisecond)
}

func next(t *testing.T, c *relay.Client) relay.Frame {
	t.Helper()
	select {
	case f, ok := <-c.Frames():
		require.True(t, ok, "connection closed")
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("no frame")
		return relay.Frame{}
	}
}

func TestForward(t *testing.T) {
	s, base := startRelay(t)
	alice := dial(t, base, "alice")
	bob := dial(t, base, "bob")
	waitOnline(t, s, "alice")
	waitOnline(t, s, "bob")

	require.NoError(t, alice.Send("bob", "?OTR?"))
	f := next(t, bob)
	assert.Equal(t, relay.Frame{From: "alice", To: "bob", Text: "?OTR?"}, f)

	require.NoError(t, bob.Send("alice", "hi"))
	assert.Equal(t, "hi", next(t, alice).Text)
}

func TestUnknownNickBounces(t *testing.T) {
	s, base := startRelay(t)
	alice := dial(t, base, "alice")
	waitOnline(t, s, "alice")

	require.NoError(t, alice.Send("nobody", "hello?"))
	f := next(t, alice)
	assert.Equal(t, relay.ServerNick, f.From)
	assert.Contains(t, f.Error, "nobody")
}

func TestNickInUse(t *testing.T) {
	s, base := startRelay(t)
	dial(t, base, "alice")
	waitOnline(t, s, "alice")

	_, err := relay.Dial(context.Background(), base, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestCloseLeaves(t *testing.T) {
	s, base := startRelay(t)
	c := dial(t, base, "alice")
	waitOnline(t, s, "alice")

	require.NoError(t, c.Close())
	assert.NoError(t, c.Err())
	assert.ErrorIs(t, c.Send("bob", "x"), relay.ErrClosed)
	require.Eventually(t, func() bool { return !s.Online("alice") }, 5*time.Second, 10*time.Millisecond)
}

func TestHealthz(t *testing.T) {
	log, _ := test.NewNullLogger()
	srv := httptest.NewServer(relay.NewServer(log).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}
