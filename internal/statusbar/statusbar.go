// Package statusbar renders the OTR state of the focused conversation.
package statusbar

import (
	"otrbridge/internal/engine"
	"otrbridge/internal/host"
	"otrbridge/internal/peer"
)

// Name is the status item name registered with the host.
const Name = "otr"

// Item is the status widget. It keeps nothing between redraws.
type Item struct {
	adapter *engine.Adapter
	windows host.Windows
}

// New returns an item that reads the focused window from windows.
func New(a *engine.Adapter, windows host.Windows) *Item {
	return &Item{adapter: a, windows: windows}
}

// Render returns "" when no query is focused or the peer has no session,
// and "Otr: <summary>" otherwise. It only queries local engine state.
func (i *Item) Render() string {
	id, err := peer.FromQuery(i.windows.ActiveQuery())
	if err != nil {
		return ""
	}
	st, ok := i.adapter.QueryStatus(id)
	if !ok {
		return ""
	}
	return "Otr: " + st.Summary()
}
