package app_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otrbridge/internal/app"
	"otrbridge/internal/config"
	"otrbridge/internal/relay"
)

type screen struct {
	mu    sync.Mutex
	lines []string
}

func (s *screen) show(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *screen) has(line string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l == line {
			return true
		}
	}
	return false
}

func startChat(t *testing.T, ctx context.Context, relayURL, nick string) (*app.Chat, *screen) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Home = t.TempDir()
	cfg.RelayURL = relayURL
	cfg.Passphrase = "Correct-Horse-9"

	w, err := app.NewWire(cfg, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(ctx)
	scr := &screen{}
	chat, err := w.StartChat(ctx, nick, scr.show)
	if err != nil {
		cancel()
	}
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = chat.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = chat.Close()
	})
	return chat, scr
}

func TestChat_EncryptedConversation(t *testing.T) {
	log, _ := test.NewNullLogger()
	rs := relay.NewServer(log)
	srv := httptest.NewServer(rs.Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	alice, aliceScreen := startChat(t, ctx, url, "alice")
	_, bobScreen := startChat(t, ctx, url, "bob")
	require.Eventually(t, func() bool { return rs.Online("alice") && rs.Online("bob") }, 5*time.Second, 10*time.Millisecond)

	for _, line := range []string{"/query bob", "/otr init", "hello bob"} {
		require.NoError(t, alice.Input(ctx, line))
	}

	assert.Eventually(t, func() bool { return bobScreen.has("<alice> hello bob") }, 10*time.Second, 20*time.Millisecond)

	require.NoError(t, alice.Input(ctx, "/otr"))
	assert.Eventually(t, func() bool {
		return aliceScreen.has("[Otr: encrypted (unverified)]")
	}, 10*time.Second, 20*time.Millisecond)

	require.NoError(t, alice.Input(ctx, "/otr trust"))
	require.NoError(t, alice.Input(ctx, "/otr"))
	assert.Eventually(t, func() bool {
		return aliceScreen.has("[Otr: encrypted (verified)]")
	}, 10*time.Second, 20*time.Millisecond)
}

func TestChat_PlainTextWithoutQuery(t *testing.T) {
	log, _ := test.NewNullLogger()
	rs := relay.NewServer(log)
	srv := httptest.NewServer(rs.Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	alice, aliceScreen := startChat(t, ctx, url, "alice")
	_, bobScreen := startChat(t, ctx, url, "bob")
	require.Eventually(t, func() bool { return rs.Online("alice") && rs.Online("bob") }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, alice.Input(ctx, "nobody to talk to"))
	require.NoError(t, alice.Input(ctx, "/msg bob hi"))

	assert.Eventually(t, func() bool { return bobScreen.has("<alice> hi") }, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool {
		return aliceScreen.has("-!- no query window; use /query <nick>") && aliceScreen.has("<alice> hi")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStartChat_NeedsPassphrase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Home = t.TempDir()
	w, err := app.NewWire(cfg, io.Discard)
	require.NoError(t, err)

	_, err = w.StartChat(context.Background(), "alice", nil)
	require.ErrorIs(t, err, app.ErrNoPassphrase)
}
