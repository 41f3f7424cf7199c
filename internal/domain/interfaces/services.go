package interfaces

import domaintypes "otrbridge/internal/domain/types"

// IdentityService creates and loads per-account identity keys.
type IdentityService interface {
	EnsureIdentity(account domaintypes.AccountID) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	FingerprintAccount(account domaintypes.AccountID) (domaintypes.Fingerprint, bool, error)
}
