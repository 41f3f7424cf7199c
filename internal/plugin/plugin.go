// Package plugin is the module entry point: Load registers the message
// hooks, the /otr command tree and the status item after starting the
// engine, and Unload reverses all of it.
package plugin

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"otrbridge/internal/config"
	"otrbridge/internal/dispatch"
	"otrbridge/internal/domain"
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
	"otrbridge/internal/pipeline"
	"otrbridge/internal/statusbar"
)

// HookName names the signal hooks in the host.
const HookName = "otr"

// Options carries the settings the module reads at load.
type Options struct {
	State          *config.State
	ConsoleMarkers []string
	Log            logrus.FieldLogger
}

// Plugin is a loaded module instance.
type Plugin struct {
	host   host.Host
	engine domain.Engine
	log    logrus.FieldLogger

	Pipeline   *pipeline.Pipeline
	Dispatcher *dispatch.Dispatcher
	Status     *statusbar.Item
}

// Load starts e and registers everything with h. If the engine does not
// start, nothing is registered and the error wraps domain.ErrEngineStartup.
func Load(h host.Host, e domain.Engine, opts Options) (*Plugin, error) {
	if opts.State == nil {
		opts.State = config.NewState(false)
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if err := e.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineStartup, err)
	}

	a := engine.NewAdapter(e)
	p := &Plugin{
		host:       h,
		engine:     e,
		log:        opts.Log,
		Pipeline:   pipeline.New(a, opts.State, opts.ConsoleMarkers, opts.Log),
		Dispatcher: dispatch.New(a, h, opts.State, opts.Log),
		Status:     statusbar.New(a, h),
	}

	h.AddOutgoingFirst(HookName, p.Pipeline.HandleOutgoing)
	h.AddIncomingFirst(HookName, p.Pipeline.HandleIncoming)
	h.BindCommand(p.Dispatcher.Command())
	h.RegisterStatusItem(statusbar.Name, p.Status.Render)
	h.RedrawStatus()

	opts.Log.Debug("otr module loaded")
	return p, nil
}

// Unload unregisters the module and stops the engine.
func (p *Plugin) Unload() error {
	p.host.RemoveOutgoing(HookName)
	p.host.RemoveIncoming(HookName)
	p.host.UnbindCommand(dispatch.Name)
	p.host.UnregisterStatusItem(statusbar.Name)
	p.host.RedrawStatus()

	if err := p.engine.Stop(); err != nil {
		return fmt.Errorf("stop engine: %w", err)
	}
	p.log.Debug("otr module unloaded")
	return nil
}
