package akex

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
	"otrbridge/internal/util/memzero"
)

var (
	ErrBadSignature  = errors.New("akex: offer signature invalid")
	ErrSameEphemeral = errors.New("akex: peer echoed our ephemeral key")
)

const rootInfo = "otrbridge-akex"

// Offer is one side's public contribution to the exchange.
type Offer struct {
	IdentityKey domain.X25519Public  `json:"ik"`
	SigningKey  domain.Ed25519Public `json:"sk"`
	Ephemeral   domain.X25519Public  `json:"ek"`
	Signature   []byte               `json:"sig"`

	// RatchetKey is set on the initiator's confirming offer so the
	// responder can seed its receiving chain.
	RatchetKey *domain.X25519Public `json:"rk,omitempty"`
}

// NewOffer generates an ephemeral key and signs it with id.
func NewOffer(id domain.Identity) (Offer, domain.X25519Private, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return Offer{}, priv, err
	}
	o := Offer{
		IdentityKey: id.XPub,
		SigningKey:  id.EdPub,
		Ephemeral:   pub,
	}
	o.Signature = crypto.SignEd25519(id.EdPriv, o.signedBytes())
	return o, priv, nil
}

// Verify checks the offer's signature.
func (o Offer) Verify() error {
	if !crypto.VerifyEd25519(o.SigningKey, o.signedBytes(), o.Signature) {
		return ErrBadSignature
	}
	return nil
}

// Fingerprint returns the display fingerprint of the offer's signing key.
func (o Offer) Fingerprint() domain.Fingerprint { return crypto.Fingerprint(o.SigningKey) }

func (o Offer) signedBytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, o.Ephemeral[:]...)
	out = append(out, o.IdentityKey[:]...)
	return out
}

// Low reports whether ours sorts below peer; the low side is the one that
// confirms the exchange and starts the ratchet.
func Low(ours, peer Offer) bool {
	return bytes.Compare(ours.Ephemeral[:], peer.Ephemeral[:]) < 0
}

// RootKey derives the shared root key from both offers. peer must already be
// verified.
func RootKey(
	id domain.Identity,
	ourEphemeral domain.X25519Private,
	ours, peer Offer,
) ([]byte, error) {
	if ours.Ephemeral == peer.Ephemeral {
		return nil, ErrSameEphemeral
	}

	var (
		dh1, dh2, dh3 [32]byte
		err           error
		low, high     Offer
	)
	if Low(ours, peer) {
		low, high = ours, peer
		if dh1, err = crypto.DH(id.XPriv, peer.Ephemeral); err != nil {
			return nil, err
		}
		if dh2, err = crypto.DH(ourEphemeral, peer.IdentityKey); err != nil {
			return nil, err
		}
	} else {
		low, high = peer, ours
		if dh1, err = crypto.DH(ourEphemeral, peer.IdentityKey); err != nil {
			return nil, err
		}
		if dh2, err = crypto.DH(id.XPriv, peer.Ephemeral); err != nil {
			return nil, err
		}
	}
	if dh3, err = crypto.DH(ourEphemeral, peer.Ephemeral); err != nil {
		return nil, err
	}

	ikm := make([]byte, 0, 96)
	ikm = append(ikm, dh1[:]...)
	ikm = append(ikm, dh2[:]...)
	ikm = append(ikm, dh3[:]...)
	defer memzero.Zero(ikm)
	memzero.Zero(dh1[:])
	memzero.Zero(dh2[:])
	memzero.Zero(dh3[:])

	salt := sha256.Sum256(append(low.Ephemeral.Slice(), high.Ephemeral.Slice()...))
	root := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt[:], []byte(rootInfo)), root); err != nil {
		return nil, err
	}
	return root, nil
}
