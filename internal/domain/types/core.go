package types

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// AccountID names the local side of a conversation: our nick on a network.
type AccountID struct {
	Nick    string `json:"nick"`
	Network string `json:"network"`
}

// String returns nick@network.
func (a AccountID) String() string { return a.Nick + "@" + a.Network }
