package identity

import (
	"fmt"
	"sync"
	"unicode"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service hands out the long-term identity for each local account,
// generating and sealing one the first time an account is seen.
//
// The identity contains:
//   - X25519 key pair for the key exchange.
//   - Ed25519 key pair for signing offers; its fingerprint is what peers verify.
type Service struct {
	store      domain.IdentityStore
	passphrase string

	mu    sync.Mutex
	cache map[domain.AccountID]domain.Identity
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore, passphrase string) (*Service, error) {
	if !isSecurePassphrase(passphrase) {
		return nil, ErrWeakPassphrase
	}
	return &Service{
		store:      s,
		passphrase: passphrase,
		cache:      make(map[domain.AccountID]domain.Identity),
	}, nil
}

// EnsureIdentity returns the identity for account, creating and saving one
// when none exists, plus its fingerprint.
func (s *Service) EnsureIdentity(
	account domain.AccountID,
) (domain.Identity, domain.Fingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.cache[account]; ok {
		return id, crypto.Fingerprint(id.EdPub), nil
	}

	id, ok, err := s.store.LoadIdentity(s.passphrase, account)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("load identity for %s: %w", account, err)
	}
	if !ok {
		if id, err = generate(account); err != nil {
			return domain.Identity{}, "", err
		}
		if err := s.store.SaveIdentity(s.passphrase, id); err != nil {
			return domain.Identity{}, "", fmt.Errorf("save identity for %s: %w", account, err)
		}
	}
	s.cache[account] = id
	return id, crypto.Fingerprint(id.EdPub), nil
}

// FingerprintAccount returns the fingerprint of an existing identity without
// creating one.
func (s *Service) FingerprintAccount(account domain.AccountID) (domain.Fingerprint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.cache[account]; ok {
		return crypto.Fingerprint(id.EdPub), true, nil
	}
	id, ok, err := s.store.LoadIdentity(s.passphrase, account)
	if err != nil || !ok {
		return "", false, err
	}
	s.cache[account] = id
	return crypto.Fingerprint(id.EdPub), true, nil
}

func generate(account domain.AccountID) (domain.Identity, error) {
	// Diffie-Hellman keypair for the key exchange.
	xPriv, xPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.Identity{}, err
	}
	// Signing keypair.
	edPriv, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		Account: account,
		XPub:    xPub,
		XPriv:   xPriv,
		EdPub:   edPub,
		EdPriv:  edPriv,
	}, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
