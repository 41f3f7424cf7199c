// Package dispatch defines the /otr command tree.
//
// Commands
//
//   - otr          Liveness notice; never touches the engine
//   - otr debug    Toggle debug mode
//   - otr trust    Mark the focused peer's fingerprint as verified
//   - otr init     Start an encrypted session with the focused peer
//   - otr finish   End the encrypted session with the focused peer
//
// Any other subcommand is handed to the host's generic dispatch.
package dispatch

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"otrbridge/internal/config"
	"otrbridge/internal/domain"
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
	"otrbridge/internal/peer"
)

// Name is the root command name.
const Name = "otr"

// Dispatcher runs /otr commands against an engine.
type Dispatcher struct {
	adapter  *engine.Adapter
	commands host.Commands
	state    *config.State
	log      logrus.FieldLogger
}

// New returns a dispatcher. commands receives unknown subcommands.
func New(a *engine.Adapter, commands host.Commands, state *config.State, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{adapter: a, commands: commands, state: state, log: log}
}

// Command builds the command tree bound to the host.
func (d *Dispatcher) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           Name,
		Short:         "Off-the-Record messaging",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				d.Status()
				return nil
			}
			return d.commands.RunSubcommand(cmd.Context(), Name, args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		&cobra.Command{
			Use:   "debug",
			Short: "Toggle debug mode",
			Args:  cobra.NoArgs,
			Run:   func(*cobra.Command, []string) { d.ToggleDebug() },
		},
		d.conversationCmd("trust", "Trust the focused peer's fingerprint", d.Trust),
		d.conversationCmd("init", "Start an encrypted session", d.Init),
		d.conversationCmd("finish", "End the encrypted session", d.Finish),
	)
	return root
}

// conversationCmd builds a subcommand that acts on the focused query.
// Children keep the context of their first run, so the window is read from
// the root, which cobra refreshes on every execution.
func (d *Dispatcher) conversationCmd(use, short string, fn func(context.Context)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fn(cmd.Root().Context())
		},
	}
}

// Status logs a liveness notice.
func (d *Dispatcher) Status() {
	d.log.Info("We're alive")
}

// ToggleDebug flips debug mode and logs the new state.
func (d *Dispatcher) ToggleDebug() {
	if d.state.ToggleDebug() {
		d.log.Info("Debug mode on")
		return
	}
	d.log.Info("Debug mode off")
}

// Trust asserts trust in the focused peer.
func (d *Dispatcher) Trust(ctx context.Context) {
	id, ok := d.focused(ctx, "trust")
	if !ok {
		return
	}
	fp, err := d.adapter.AssertTrust(id)
	entry := d.log.WithFields(logrus.Fields(id.Fields()))
	if err != nil {
		entry.WithError(err).Info("trust failed")
		return
	}
	entry.WithField("fingerprint", string(fp)).Infof("Trusting %s", id.PeerName)
}

// Init starts an encrypted session with the focused peer.
func (d *Dispatcher) Init(ctx context.Context) {
	id, ok := d.focused(ctx, "init")
	if !ok {
		return
	}
	entry := d.log.WithFields(logrus.Fields(id.Fields()))
	if err := d.adapter.Initiate(id); err != nil {
		entry.WithError(err).Info("could not start encrypted session")
		return
	}
	entry.Info("Starting encrypted session")
}

// Finish ends the encrypted session with the focused peer.
func (d *Dispatcher) Finish(ctx context.Context) {
	id, ok := d.focused(ctx, "finish")
	if !ok {
		return
	}
	entry := d.log.WithFields(logrus.Fields(id.Fields()))
	if err := d.adapter.Finish(id); err != nil {
		entry.WithError(err).Info("could not finish encrypted session")
		return
	}
	entry.Info("Finished encrypted session")
}

func (d *Dispatcher) focused(ctx context.Context, command string) (domain.PeerIdentity, bool) {
	id, err := peer.FromQuery(host.QueryFrom(ctx))
	if err != nil {
		d.log.WithField("command", command).WithError(err).Info("command needs a query window")
		return domain.PeerIdentity{}, false
	}
	return id, true
}
