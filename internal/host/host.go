package host

import (
	"context"

	"github.com/spf13/cobra"
)

// Connection is the transport-side context of one server connection.
type Connection struct {
	Nick    string
	Address string
}

// TargetKind tells direct messages apart from channel traffic.
type TargetKind int

const (
	TargetNick TargetKind = iota
	TargetChannel
)

// OutgoingMessage is emitted before a message is sent.
type OutgoingMessage struct {
	Conn   *Connection
	Target string
	Text   string
	Kind   TargetKind
}

// IncomingMessage is emitted before a private message is shown.
type IncomingMessage struct {
	Conn          *Connection
	Text          string
	Sender        string
	SenderAddress string
}

// Action is how a handler answers a signal.
type Action int

const (
	// Continue passes the event on unmodified.
	Continue Action = iota
	// ContinueWith passes the event on with Verdict.Text in place of the text.
	ContinueWith
	// Stop ends the signal; the default action never runs.
	Stop
)

// Verdict is a handler's answer.
type Verdict struct {
	Action Action
	Text   string
}

// Allow continues unmodified.
func Allow() Verdict { return Verdict{Action: Continue} }

// Rewrite continues with text.
func Rewrite(text string) Verdict { return Verdict{Action: ContinueWith, Text: text} }

// Halt stops the signal.
func Halt() Verdict { return Verdict{Action: Stop} }

type (
	OutgoingHandler func(OutgoingMessage) Verdict
	IncomingHandler func(IncomingMessage) Verdict
)

// Query is a private conversation window.
type Query struct {
	Conn *Connection
	Name string
}

// Signals registers message hooks. Hooks added with the First variants run
// before any hook already registered.
type Signals interface {
	AddOutgoingFirst(name string, h OutgoingHandler)
	AddIncomingFirst(name string, h IncomingHandler)
	RemoveOutgoing(name string)
	RemoveIncoming(name string)
}

// Commands binds slash commands.
type Commands interface {
	BindCommand(cmd *cobra.Command)
	UnbindCommand(name string)
	// RunSubcommand handles "/parent args..." when parent has no matching
	// subcommand.
	RunSubcommand(ctx context.Context, parent string, args []string) error
}

// Statusbar registers named status items drawn on every redraw.
type Statusbar interface {
	RegisterStatusItem(name string, render func() string)
	UnregisterStatusItem(name string)
	RedrawStatus()
}

// Windows exposes the focused window.
type Windows interface {
	// ActiveQuery is nil when the focused window is not a private query.
	ActiveQuery() *Query
}

// Host is everything a module may use.
type Host interface {
	Signals
	Commands
	Statusbar
	Windows
}

type queryKey struct{}

// WithQuery attaches the window a command was typed in.
func WithQuery(ctx context.Context, q *Query) context.Context {
	return context.WithValue(ctx, queryKey{}, q)
}

// QueryFrom returns the window a command was typed in, or nil.
func QueryFrom(ctx context.Context) *Query {
	if ctx == nil {
		return nil
	}
	q, _ := ctx.Value(queryKey{}).(*Query)
	return q
}
