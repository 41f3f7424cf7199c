package ratchet

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
	"otrbridge/internal/util/memzero"
)

const (
	aeadKeySize  = 32
	nonceSize    = chacha20poly1305.NonceSize
	maxSkippedMK = 1000
)

var (
	ErrSkippedKeyNotFound = errors.New("skipped message key not found")
	errChainUninitialised = errors.New("ratchet chain key is uninitialised")
)

// InitAsInitiator seeds the sending chain from root using a fresh ratchet key
// and the peer's current ratchet public (their key-exchange ephemeral).
func InitAsInitiator(root []byte, peerRatchetPub domain.X25519Public) (domain.RatchetState, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.RatchetState{}, err
	}
	dh, err := crypto.DH(priv, peerRatchetPub)
	if err != nil {
		return domain.RatchetState{}, err
	}
	newRK, sendCK := kdfRK(root, dh[:])
	memzero.Zero(dh[:])

	return domain.RatchetState{
		RootKey:                 newRK,
		DiffieHellmanPrivate:    priv,
		DiffieHellmanPublic:     pub,
		PeerDiffieHellmanPublic: peerRatchetPub,
		SendChainKey:            sendCK,
		SkippedKeys:             make(map[string][]byte),
	}, nil
}

// InitAsResponder seeds the receiving chain from root using our ephemeral
// private and the initiator's ratchet public. The sending chain is created
// on our first Encrypt.
func InitAsResponder(
	root []byte,
	ourEphemeral domain.X25519Private,
	senderRatchetPub domain.X25519Public,
) (domain.RatchetState, error) {
	dh, err := crypto.DH(ourEphemeral, senderRatchetPub)
	if err != nil {
		return domain.RatchetState{}, err
	}
	newRK, recvCK := kdfRK(root, dh[:])
	memzero.Zero(dh[:])

	return domain.RatchetState{
		RootKey:                 newRK,
		DiffieHellmanPrivate:    ourEphemeral,
		PeerDiffieHellmanPublic: senderRatchetPub,
		ReceiveChainKey:         recvCK,
		SkippedKeys:             make(map[string][]byte),
	}, nil
}

// Encrypt produces a header and ciphertext, auto-stepping the DH ratchet on the first send after responding.
func Encrypt(st *domain.RatchetState, ad, plaintext []byte) (domain.RatchetHeader, []byte, error) {
	if len(st.SendChainKey) == 0 {
		st.PreviousChainLength = st.SendMessageIndex
		st.SendMessageIndex = 0

		newPriv, newPub, err := crypto.GenerateX25519()
		if err != nil {
			return domain.RatchetHeader{}, nil, err
		}
		dh, err := crypto.DH(newPriv, st.PeerDiffieHellmanPublic)
		if err != nil {
			return domain.RatchetHeader{}, nil, err
		}
		rk2, sendCK := kdfRK(st.RootKey, dh[:])
		memzero.Zero(dh[:])

		st.RootKey = rk2
		st.DiffieHellmanPrivate, st.DiffieHellmanPublic = newPriv, newPub
		st.SendChainKey = sendCK
	}

	mk, err := kdfCKSend(st)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	h := domain.RatchetHeader{
		DiffieHellmanPublicKey: st.DiffieHellmanPublic.Slice(),
		PreviousChainLength:    st.PreviousChainLength,
		MessageIndex:           st.SendMessageIndex,
	}

	ct, err := seal(mk, h, ad, plaintext)
	memzero.Zero(mk)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	st.SendMessageIndex++
	return h, ct, nil
}

// Decrypt handles skipped keys, does DH ratchet on new remote pubs, then opens the message.
// The state is only advanced when the message authenticates.
func Decrypt(st *domain.RatchetState, ad []byte, header domain.RatchetHeader, ciphertext []byte) ([]byte, error) {
	work := clone(*st)
	pt, err := decrypt(&work, ad, header, ciphertext)
	if err != nil {
		return nil, err
	}
	*st = work
	return pt, nil
}

func decrypt(st *domain.RatchetState, ad []byte, header domain.RatchetHeader, ciphertext []byte) ([]byte, error) {
	// Out-of-order message from an earlier chain.
	keyID := skippedKeyID(header.DiffieHellmanPublicKey, header.MessageIndex)
	if mk, ok := st.SkippedKeys[keyID]; ok {
		pt, err := open(mk, header, ad, ciphertext)
		if err != nil {
			return nil, err
		}
		delete(st.SkippedKeys, keyID)
		memzero.Zero(mk)
		return pt, nil
	}

	if !equal32(st.PeerDiffieHellmanPublic[:], header.DiffieHellmanPublicKey) {
		skipUntil(st, header.PreviousChainLength)

		var newPeer domain.X25519Public
		copy(newPeer[:], header.DiffieHellmanPublicKey)

		dh, err := crypto.DH(st.DiffieHellmanPrivate, newPeer)
		if err != nil {
			return nil, err
		}
		rk2, recvCK := kdfRK(st.RootKey, dh[:])
		memzero.Zero(dh[:])

		newPriv, newPub, err := crypto.GenerateX25519()
		if err != nil {
			return nil, err
		}
		dh2, err := crypto.DH(newPriv, newPeer)
		if err != nil {
			return nil, err
		}
		rk3, sendCK := kdfRK(rk2, dh2[:])
		memzero.Zero(dh2[:])

		st.PreviousChainLength = st.SendMessageIndex
		st.SendMessageIndex, st.ReceiveMessageIndex = 0, 0
		st.RootKey = rk3
		st.DiffieHellmanPrivate, st.DiffieHellmanPublic = newPriv, newPub
		st.PeerDiffieHellmanPublic = newPeer
		st.SendChainKey, st.ReceiveChainKey = sendCK, recvCK
	}

	skipUntil(st, header.MessageIndex)
	mk, err := kdfCKRecv(st)
	if err != nil {
		return nil, err
	}
	pt, err := open(mk, header, ad, ciphertext)
	memzero.Zero(mk)
	if err != nil {
		return nil, err
	}
	st.ReceiveMessageIndex++
	return pt, nil
}

// --- helpers ---

func clone(st domain.RatchetState) domain.RatchetState {
	out := st
	out.RootKey = append([]byte(nil), st.RootKey...)
	out.SendChainKey = append([]byte(nil), st.SendChainKey...)
	out.ReceiveChainKey = append([]byte(nil), st.ReceiveChainKey...)
	out.SkippedKeys = make(map[string][]byte, len(st.SkippedKeys))
	for k, v := range st.SkippedKeys {
		out.SkippedKeys[k] = append([]byte(nil), v...)
	}
	return out
}

func seal(mk []byte, header domain.RatchetHeader, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.MessageIndex)
	return aead.Seal(nil, nonce, plaintext, associated(ad, header)), nil
}

func open(mk []byte, header domain.RatchetHeader, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.MessageIndex)
	return aead.Open(nil, nonce, ciphertext, associated(ad, header))
}

func associated(ad []byte, h domain.RatchetHeader) []byte {
	out := make([]byte, 0, len(ad)+len(h.DiffieHellmanPublicKey)+8)
	out = append(out, ad...)
	out = append(out, h.DiffieHellmanPublicKey...)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], h.PreviousChainLength)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint32(b[:], h.MessageIndex)
	out = append(out, b[:]...)
	return out
}

// HKDF-based KDFs with labels.
func kdfRK(rk, dh []byte) (newRK, ck []byte) {
	r := hkdf.New(sha256.New, dh, rk, []byte("OTRB|rk"))
	newRK = make([]byte, 32)
	ck = make([]byte, 32)
	_, _ = io.ReadFull(r, newRK)
	_, _ = io.ReadFull(r, ck)
	return
}

func kdfCK(ck []byte) (nextCK, mk []byte) {
	r := hkdf.New(sha256.New, ck, nil, []byte("OTRB|ck"))
	nextCK = make([]byte, 32)
	mk = make([]byte, 32)
	_, _ = io.ReadFull(r, nextCK)
	_, _ = io.ReadFull(r, mk)
	return
}

func kdfCKSend(st *domain.RatchetState) ([]byte, error) {
	if len(st.SendChainKey) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.SendChainKey)
	st.SendChainKey = nextCK
	return mk, nil
}

func kdfCKRecv(st *domain.RatchetState) ([]byte, error) {
	if len(st.ReceiveChainKey) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.ReceiveChainKey)
	st.ReceiveChainKey = nextCK
	return mk, nil
}

func skippedKeyID(peer []byte, n uint32) string {
	b := make([]byte, len(peer)+4)
	copy(b, peer)
	binary.BigEndian.PutUint32(b[len(peer):], n)
	return string(b)
}

// skipUntil derives and stores message keys up to n with a hard cap.
func skipUntil(st *domain.RatchetState, n uint32) {
	if len(st.ReceiveChainKey) == 0 {
		return
	}
	for st.ReceiveMessageIndex < n {
		mk, err := kdfCKRecv(st)
		if err != nil {
			return
		}
		if len(st.SkippedKeys) >= maxSkippedMK {
			for k := range st.SkippedKeys {
				delete(st.SkippedKeys, k)
				break
			}
		}
		st.SkippedKeys[skippedKeyID(st.PeerDiffieHellmanPublic[:], st.ReceiveMessageIndex)] = mk
		st.ReceiveMessageIndex++
	}
}

func equal32(a, b []byte) bool {
	if len(a) != 32 || len(b) != 32 {
		return false
	}
	var v byte
	for i := 0; i < 32; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
