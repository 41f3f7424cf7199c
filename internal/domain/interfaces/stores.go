package interfaces

import domaintypes "otrbridge/internal/domain/types"

// IdentityStore persists long-term identity keys, one per account.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(
		passphrase string,
		account domaintypes.AccountID,
	) (domaintypes.Identity, bool, error)
}

// TrustStore records which peer fingerprints the user has verified.
type TrustStore interface {
	Trust(peer domaintypes.PeerIdentity, fingerprint domaintypes.Fingerprint) error
	IsTrusted(peer domaintypes.PeerIdentity, fingerprint domaintypes.Fingerprint) bool
	ListTrusted() ([]domaintypes.TrustEntry, error)
}
