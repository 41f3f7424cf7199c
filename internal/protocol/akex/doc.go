// Package akex implements the authenticated ephemeral key exchange that
// bootstraps a Double Ratchet session between two chat peers.
//
// # Overview
//
// Each side publishes an Offer containing its long-term X25519 identity key,
// its Ed25519 signing key, a fresh X25519 ephemeral key, and a signature over
// the ephemeral and identity keys. Once both offers are known either side can
// derive the same 32-byte root key.
//
// # Roles
//
// The exchange is symmetric. Offers are ordered by ephemeral public key so
// both sides agree which one is "low" without extra round trips:
//
//	DH1 = DH(IK_low, EK_high)
//	DH2 = DH(EK_low, IK_high)
//	DH3 = DH(EK_low, EK_high)
//	RK  = HKDF(DH1 || DH2 || DH3, salt = SHA-256(EK_low || EK_high))
//
// # Errors
//
// ErrBadSignature is returned when an offer's signature fails verification.
// ErrSameEphemeral is returned when both offers carry the same ephemeral key.
package akex
