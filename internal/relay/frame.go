package relay

// Frame is one message on the relay.
type Frame struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ServerNick is the sender of frames the relay itself produces.
const ServerNick = "relay"
