// Package otr is a reference encryption engine speaking a small OTR-style
// text protocol over any chat transport.
//
// Wire messages
//
//   - ?OTR?             query: asks the peer to start a key exchange
//   - ?OTR:K:<b64>.     key offer (long-term keys, signed ephemeral, and on
//     the confirming offer the sender's first ratchet key)
//   - ?OTR:D:<b64>.     ratchet data message
//   - ?OTR:F.           the sender ended the encrypted session
//
// # Sessions
//
// Each PeerIdentity has its own session moving through plaintext,
// handshake, encrypted and finished. A query answered with an offer is
// confirmed by the side that either had no offer of its own or, when both
// sides offered at once, whose ephemeral key sorts lower. The confirming
// side starts the Double Ratchet as initiator; the other side as responder
// once the confirmation arrives.
//
// Protocol replies leave through a domain.Injector and are never sent from
// inside Encode or Decode.
package otr
