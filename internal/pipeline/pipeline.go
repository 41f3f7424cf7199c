// Package pipeline intercepts private messages on their way to the network
// and on their way to the screen, and decides for each one whether it passes
// unchanged, continues with replaced text, or is suppressed.
package pipeline

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"otrbridge/internal/config"
	"otrbridge/internal/domain"
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
	"otrbridge/internal/peer"
)

// Pipeline owns no session state; everything it knows per message comes
// from the event and the engine.
type Pipeline struct {
	adapter *engine.Adapter
	state   *config.State
	markers []string
	log     logrus.FieldLogger
}

// New returns a pipeline. Incoming messages whose sender contains any of
// consoleMarkers are never handed to the engine.
func New(a *engine.Adapter, state *config.State, consoleMarkers []string, log logrus.FieldLogger) *Pipeline {
	markers := make([]string, 0, len(consoleMarkers))
	for _, m := range consoleMarkers {
		markers = append(markers, strings.ToLower(m))
	}
	return &Pipeline{adapter: a, state: state, markers: markers, log: log}
}

// Outgoing decides the fate of one outgoing message. Only direct messages
// are eligible; channel traffic always passes.
func (p *Pipeline) Outgoing(msg host.OutgoingMessage) domain.Decision {
	if msg.Kind != host.TargetNick {
		return domain.Pass()
	}
	id, err := peer.FromConnection(msg.Conn, msg.Target)
	if err != nil {
		p.log.WithField("target", msg.Target).WithError(err).Info("not encrypting message")
		return domain.Pass()
	}
	d, err := p.adapter.Encode(id, msg.Text)
	p.report(id, "outgoing", d, err)
	return d
}

// Incoming decides the fate of one received private message.
func (p *Pipeline) Incoming(msg host.IncomingMessage) domain.Decision {
	if p.isConsole(msg.Sender) {
		return domain.Pass()
	}
	id, err := peer.FromConnection(msg.Conn, msg.Sender)
	if err != nil {
		p.log.WithField("sender", msg.Sender).WithError(err).Info("not decrypting message")
		return domain.Pass()
	}
	d, err := p.adapter.Decode(id, msg.Text)
	p.report(id, "incoming", d, err)
	return d
}

// HandleOutgoing is the outgoing signal hook. The decision's payload is
// released once the verdict has copied it.
func (p *Pipeline) HandleOutgoing(msg host.OutgoingMessage) host.Verdict {
	d := p.Outgoing(msg)
	defer d.Release()
	return verdict(d)
}

// HandleIncoming is the incoming signal hook.
func (p *Pipeline) HandleIncoming(msg host.IncomingMessage) host.Verdict {
	d := p.Incoming(msg)
	defer d.Release()
	return verdict(d)
}

func verdict(d domain.Decision) host.Verdict {
	switch d.Kind {
	case domain.Replaced:
		return host.Rewrite(d.Text())
	case domain.Suppressed:
		return host.Halt()
	default:
		return host.Allow()
	}
}

// isConsole matches gateway console pseudo-users by name. The transport
// gives no structural marker for them.
func (p *Pipeline) isConsole(sender string) bool {
	s := strings.ToLower(sender)
	for _, m := range p.markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func (p *Pipeline) report(id domain.PeerIdentity, direction string, d domain.Decision, err error) {
	entry := p.log.WithFields(logrus.Fields(id.Fields()))
	switch {
	case errors.Is(err, domain.ErrEngineEncode):
		entry.WithError(err).Info("message not sent: encryption failed")
	case errors.Is(err, domain.ErrEngineDecode):
		entry.WithError(err).Info("message dropped: decryption failed")
	case err != nil:
		entry.WithError(err).Info("message suppressed")
	}
	if p.state.Debug() {
		entry.WithField("direction", direction).Debugf("decision %s", d.Kind)
	}
}
