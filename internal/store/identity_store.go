package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"otrbridge/internal/domain"
	"otrbridge/internal/util/memzero"
)

const keysDir = "keys"

// IdentityFileStore persists one sealed identity file per account.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex

	// lowered by tests
	kdf kdfParams
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: filepath.Join(dir, keysDir), kdf: defaultKDF}
}

// SaveIdentity writes the encrypted identity to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	ct, err := sealEnvelope(passphrase, id.Account.String(), raw, s.kdf)
	if err != nil {
		return err
	}
	return saveBytes(s.path(id.Account), ct, 0o600)
}

// LoadIdentity reads and decrypts the identity for account. ok is false when
// none has been saved yet.
func (s *IdentityFileStore) LoadIdentity(
	passphrase string,
	account domain.AccountID,
) (domain.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, found, err := loadFile(s.path(account))
	if err != nil || !found {
		return domain.Identity{}, false, err
	}
	pt, err := openEnvelope(passphrase, account.String(), b)
	if err != nil {
		return domain.Identity{}, false, err
	}
	defer memzero.Zero(pt)

	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, false, err
	}
	return id, true, nil
}

// path names the key file by a hash of the account so nicks never reach the
// filesystem unescaped.
func (s *IdentityFileStore) path(account domain.AccountID) string {
	sum := sha256.Sum256([]byte(account.String()))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:8])+".key")
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
