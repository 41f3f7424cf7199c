package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"otrbridge/internal/domain"
)

// Fingerprint returns the display fingerprint of a signing key: the first
// 20 bytes of its SHA-256, upper-case hex in five groups of eight.
func Fingerprint(pub domain.Ed25519Public) domain.Fingerprint {
	sum := sha256.Sum256(pub[:])
	h := strings.ToUpper(hex.EncodeToString(sum[:20]))
	groups := make([]string, 0, 5)
	for i := 0; i < len(h); i += 8 {
		groups = append(groups, h[i:i+8])
	}
	return domain.Fingerprint(strings.Join(groups, " "))
}
