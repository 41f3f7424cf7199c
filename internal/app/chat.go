package app

import (
	"context"
	"fmt"
	"strings"

	"otrbridge/internal/domain"
	"otrbridge/internal/host"
	"otrbridge/internal/otr"
	"otrbridge/internal/plugin"
	"otrbridge/internal/relay"
)

// Chat is a running chat session for one nick.
type Chat struct {
	Client *host.Client
	Plugin *plugin.Plugin

	relay   *relay.Client
	display func(string)
}

// StartChat joins the relay as nick and loads the otr module. display
// receives every line meant for the user.
func (w *Wire) StartChat(ctx context.Context, nick string, display func(string)) (*Chat, error) {
	ids, err := w.Identities()
	if err != nil {
		return nil, err
	}
	if display == nil {
		display = func(string) {}
	}

	rc, err := relay.Dial(ctx, w.Config.RelayURL, nick)
	if err != nil {
		return nil, err
	}

	conn := &host.Connection{Nick: nick, Address: w.Config.RelayURL}
	client := host.NewClient(conn, rc, display, w.Log)
	engine := otr.New(otr.Config{
		Identities:        ids,
		Trust:             w.Trust,
		Injector:          client,
		Accounts:          []domain.AccountID{{Nick: nick, Network: conn.Address}},
		RequireEncryption: w.Config.RequireEncryption,
		Log:               w.Log,
	})
	p, err := plugin.Load(client, engine, plugin.Options{
		State:          w.State,
		ConsoleMarkers: w.Config.ConsoleMarkers,
		Log:            w.Log,
	})
	if err != nil {
		_ = rc.Close()
		return nil, err
	}

	return &Chat{Client: client, Plugin: p, relay: rc, display: display}, nil
}

// Run feeds relay traffic into the event loop and runs it until ctx is
// cancelled or the relay connection ends.
func (c *Chat) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		for f := range c.relay.Frames() {
			f := f
			if err := c.Client.PostContext(ctx, func() { c.receive(f) }); err != nil {
				return
			}
		}
	}()

	err := c.Client.Run(ctx)
	if relayErr := c.relayErr(); relayErr != nil {
		return relayErr
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Chat) relayErr() error {
	select {
	case <-c.relay.Done():
		return c.relay.Err()
	default:
		return nil
	}
}

func (c *Chat) receive(f relay.Frame) {
	if f.Error != "" {
		c.display("-!- " + f.Error)
		return
	}
	c.Client.Deliver(host.IncomingMessage{Text: f.Text, Sender: f.From, SenderAddress: f.From})
	c.Client.RedrawStatus()
}

// Input queues one line typed by the user.
func (c *Chat) Input(ctx context.Context, line string) error {
	return c.Client.Post(func() {
		if err := c.handle(ctx, line); err != nil {
			c.display("-!- " + err.Error())
		}
		c.Client.RedrawStatus()
		if s := c.Client.StatusLine(); s != "" {
			c.display(s)
		}
	})
}

func (c *Chat) handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		q := c.Client.ActiveQuery()
		if q == nil {
			return fmt.Errorf("no query window; use /query <nick>")
		}
		_, err := c.Client.SendMessage(q.Name, line, host.TargetNick)
		return err
	}

	name, rest, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case "query":
		if rest == "" {
			return fmt.Errorf("usage: /query <nick>")
		}
		c.Client.Focus(rest)
		return nil
	case "close":
		c.Client.Unfocus()
		return nil
	case "msg":
		target, text, ok := strings.Cut(rest, " ")
		if !ok || target == "" {
			return fmt.Errorf("usage: /msg <nick|#channel> <text>")
		}
		kind := host.TargetNick
		if strings.HasPrefix(target, "#") {
			kind = host.TargetChannel
		}
		_, err := c.Client.SendMessage(target, text, kind)
		return err
	default:
		return c.Client.Command(ctx, line)
	}
}

// Close unloads the module and leaves the relay.
func (c *Chat) Close() error {
	unloadErr := c.Plugin.Unload()
	if err := c.relay.Close(); err != nil {
		return err
	}
	return unloadErr
}
