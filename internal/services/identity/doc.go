// Package identity manages creation, encryption and loading of per-account
// identity keys.
//
// It enforces passphrase policy, generates X25519 and Ed25519 key pairs on
// first use of an account, and persists them via the domain.IdentityStore.
package identity
