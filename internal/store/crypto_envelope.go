package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const envelopeVersion = 1

var errBadPassphrase = errors.New("wrong passphrase or corrupted identity file")

// kdfParams are the scrypt cost parameters recorded next to each envelope.
type kdfParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

var defaultKDF = kdfParams{N: 1 << 15, R: 8, P: 1}

// envelope is the on-disk form of a passphrase-sealed identity.
type envelope struct {
	Version int       `json:"version"`
	KDF     kdfParams `json:"kdf"`
	Salt    []byte    `json:"salt"`
	Sealed  []byte    `json:"sealed"`
}

// aead derives the cipher for this envelope's salt and cost.
func (e *envelope) aead(passphrase string) (cipher.AEAD, error) {
	k, err := scrypt.Key([]byte(passphrase), e.Salt, e.KDF.N, e.KDF.R, e.KDF.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.New(k)
}

// binding ties the ciphertext to its salt and owning account, so an
// envelope copied to another account's slot fails to open.
func (e *envelope) binding(account string) []byte {
	ad := make([]byte, 0, len(e.Salt)+len(account))
	return append(append(ad, e.Salt...), account...)
}

// sealEnvelope encrypts plaintext for account under passphrase.
func sealEnvelope(passphrase, account string, plaintext []byte, kdf kdfParams) ([]byte, error) {
	e := envelope{Version: envelopeVersion, KDF: kdf, Salt: make([]byte, 16)}
	if _, err := rand.Read(e.Salt); err != nil {
		return nil, err
	}
	aead, err := e.aead(passphrase)
	if err != nil {
		return nil, err
	}
	// Each salt yields a fresh key, so the all-zero nonce is never reused.
	nonce := make([]byte, aead.NonceSize())
	e.Sealed = aead.Seal(nil, nonce, plaintext, e.binding(account))
	return json.Marshal(e)
}

// openEnvelope reverses sealEnvelope.
func openEnvelope(passphrase, account string, data []byte) ([]byte, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode identity envelope: %w", err)
	}
	if e.Version != envelopeVersion {
		return nil, fmt.Errorf("unsupported identity envelope version %d", e.Version)
	}
	aead, err := e.aead(passphrase)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, make([]byte, aead.NonceSize()), e.Sealed, e.binding(account))
	if err != nil {
		return nil, errBadPassphrase
	}
	return pt, nil
}
