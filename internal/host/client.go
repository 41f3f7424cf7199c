package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"otrbridge/internal/domain"
)

const eventQueueSize = 256

// ErrQueueFull is returned by Post when the event queue is saturated.
var ErrQueueFull = errors.New("host: event queue full")

// Transport carries text to a peer on the network.
type Transport interface {
	Send(to, text string) error
}

// Client is an in-process chat runtime for one connection.
type Client struct {
	conn      *Connection
	transport Transport
	display   func(line string)
	log       logrus.FieldLogger

	outgoing []namedOutgoing
	incoming []namedIncoming
	commands map[string]*cobra.Command
	items    []statusItem
	status   string
	active   *Query

	events chan func()
}

type namedOutgoing struct {
	name string
	h    OutgoingHandler
}

type namedIncoming struct {
	name string
	h    IncomingHandler
}

type statusItem struct {
	name   string
	render func() string
}

// NewClient returns a client for conn. display receives every line that
// would be shown in a window.
func NewClient(conn *Connection, t Transport, display func(line string), log logrus.FieldLogger) *Client {
	if display == nil {
		display = func(string) {}
	}
	return &Client{
		conn:      conn,
		transport: t,
		display:   display,
		log:       log,
		commands:  make(map[string]*cobra.Command),
		events:    make(chan func(), eventQueueSize),
	}
}

// Connection returns the client's connection context.
func (c *Client) Connection() *Connection { return c.conn }

// ---------- event loop ----------

// Post queues fn to run on the event goroutine.
func (c *Client) Post(fn func()) error {
	select {
	case c.events <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// PostContext queues fn, waiting for room until ctx is done.
func (c *Client) PostContext(ctx context.Context, fn func()) error {
	select {
	case c.events <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued events until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.events:
			fn()
		}
	}
}

// Drain runs every queued event, including ones queued while draining.
func (c *Client) Drain() {
	for {
		select {
		case fn := <-c.events:
			fn()
		default:
			return
		}
	}
}

// ---------- Signals ----------

func (c *Client) AddOutgoingFirst(name string, h OutgoingHandler) {
	c.outgoing = append([]namedOutgoing{{name: name, h: h}}, c.outgoing...)
}

func (c *Client) AddIncomingFirst(name string, h IncomingHandler) {
	c.incoming = append([]namedIncoming{{name: name, h: h}}, c.incoming...)
}

func (c *Client) RemoveOutgoing(name string) {
	out := c.outgoing[:0]
	for _, o := range c.outgoing {
		if o.name != name {
			out = append(out, o)
		}
	}
	c.outgoing = out
}

func (c *Client) RemoveIncoming(name string) {
	in := c.incoming[:0]
	for _, i := range c.incoming {
		if i.name != name {
			in = append(in, i)
		}
	}
	c.incoming = in
}

// ---------- messages ----------

// SendMessage runs the outgoing hooks and, unless one stops the signal,
// transmits the resulting text. It reports whether anything was sent.
func (c *Client) SendMessage(target, text string, kind TargetKind) (bool, error) {
	msg := OutgoingMessage{Conn: c.conn, Target: target, Text: text, Kind: kind}
	for _, o := range c.outgoing {
		v := o.h(msg)
		switch v.Action {
		case Stop:
			return false, nil
		case ContinueWith:
			msg.Text = v.Text
		}
	}
	if err := c.transport.Send(target, msg.Text); err != nil {
		return false, err
	}
	c.display(fmt.Sprintf("<%s> %s", c.conn.Nick, text))
	return true, nil
}

// Deliver runs the incoming hooks and shows the message unless one stops it.
// It reports whether the message was shown.
func (c *Client) Deliver(msg IncomingMessage) bool {
	if msg.Conn == nil {
		msg.Conn = c.conn
	}
	for _, i := range c.incoming {
		v := i.h(msg)
		switch v.Action {
		case Stop:
			return false
		case ContinueWith:
			msg.Text = v.Text
		}
	}
	c.display(fmt.Sprintf("<%s> %s", msg.Sender, msg.Text))
	return true
}

// Inject queues text for the peer without running the outgoing hooks.
func (c *Client) Inject(peer domain.PeerIdentity, text string) error {
	return c.Post(func() {
		if err := c.transport.Send(peer.PeerName, text); err != nil {
			c.log.WithFields(logrus.Fields(peer.Fields())).WithError(err).Info("inject failed")
		}
	})
}

// ---------- windows ----------

// Focus opens (or switches to) a query window with peer.
func (c *Client) Focus(peer string) {
	c.active = &Query{Conn: c.conn, Name: peer}
	c.RedrawStatus()
}

// Unfocus switches to a non-query window.
func (c *Client) Unfocus() {
	c.active = nil
	c.RedrawStatus()
}

func (c *Client) ActiveQuery() *Query { return c.active }

// ---------- Commands ----------

func (c *Client) BindCommand(cmd *cobra.Command) {
	c.commands[cmd.Name()] = cmd
}

func (c *Client) UnbindCommand(name string) {
	delete(c.commands, name)
}

func (c *Client) RunSubcommand(_ context.Context, parent string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("/%s: missing subcommand", parent)
	}
	return fmt.Errorf("/%s: unknown subcommand %q", parent, args[0])
}

// Command runs a slash command line typed in the focused window.
func (c *Client) Command(ctx context.Context, line string) error {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("unknown command /%s", name)
	}
	if args == nil {
		args = []string{}
	}
	resetFlags(cmd)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(WithQuery(ctx, c.active))
}

// resetFlags restores every flag in the tree to its default. Bound command
// trees are reused, and cobra keeps parsed values (-h included) between runs.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// ---------- Statusbar ----------

func (c *Client) RegisterStatusItem(name string, render func() string) {
	c.UnregisterStatusItem(name)
	c.items = append(c.items, statusItem{name: name, render: render})
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].name < c.items[j].name })
}

func (c *Client) UnregisterStatusItem(name string) {
	items := c.items[:0]
	for _, it := range c.items {
		if it.name != name {
			items = append(items, it)
		}
	}
	c.items = items
}

// RedrawStatus re-renders every status item.
func (c *Client) RedrawStatus() {
	parts := make([]string, 0, len(c.items))
	for _, it := range c.items {
		if s := it.render(); s != "" {
			parts = append(parts, "["+s+"]")
		}
	}
	c.status = strings.Join(parts, " ")
}

// StatusLine returns the text drawn by the last redraw.
func (c *Client) StatusLine() string { return c.status }

// Compile-time assertions.
var (
	_ Host            = (*Client)(nil)
	_ domain.Injector = (*Client)(nil)
)
