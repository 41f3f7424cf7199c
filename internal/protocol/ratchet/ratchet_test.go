package ratchet_test

import (
	"bytes"
	"testing"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
	"otrbridge/internal/protocol/ratchet"
)

// pair returns initiator and responder states sharing rk.
func pair(t *testing.T) (a, b domain.RatchetState) {
	t.Helper()
	rk := bytes.Repeat([]byte{0x42}, 32)

	bEphPriv, bEphPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	a, err = ratchet.InitAsInitiator(rk, bEphPub)
	if err != nil {
		t.Fatalf("InitAsInitiator: %v", err)
	}
	b, err = ratchet.InitAsResponder(rk, bEphPriv, a.DiffieHellmanPublic)
	if err != nil {
		t.Fatalf("InitAsResponder: %v", err)
	}
	return a, b
}

func roundTrip(t *testing.T, from, to *domain.RatchetState, msg string) {
	t.Helper()
	header, ct, err := ratchet.Encrypt(from, nil, []byte(msg))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := ratchet.Decrypt(to, nil, header, ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != msg {
		t.Fatalf("got %q, want %q", pt, msg)
	}
}

func TestDoubleRatchet_OneRoundTrip(t *testing.T) {
	a, b := pair(t)
	roundTrip(t, &a, &b, "hi")
}

func TestDoubleRatchet_BothDirections(t *testing.T) {
	a, b := pair(t)
	roundTrip(t, &a, &b, "one")
	roundTrip(t, &a, &b, "two")
	roundTrip(t, &b, &a, "three")
	roundTrip(t, &a, &b, "four")
	roundTrip(t, &b, &a, "five")
	roundTrip(t, &b, &a, "six")
}

func TestDoubleRatchet_ResponderSpeaksFirst(t *testing.T) {
	a, b := pair(t)
	roundTrip(t, &b, &a, "responder first")
	roundTrip(t, &a, &b, "reply")
}

func TestDoubleRatchet_OutOfOrder(t *testing.T) {
	a, b := pair(t)
	h1, c1, err := ratchet.Encrypt(&a, nil, []byte("first"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	h2, c2, err := ratchet.Encrypt(&a, nil, []byte("second"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if pt, err := ratchet.Decrypt(&b, nil, h2, c2); err != nil || string(pt) != "second" {
		t.Fatalf("Decrypt second: %q, %v", pt, err)
	}
	if pt, err := ratchet.Decrypt(&b, nil, h1, c1); err != nil || string(pt) != "first" {
		t.Fatalf("Decrypt first: %q, %v", pt, err)
	}
}

func TestDoubleRatchet_TamperedLeavesStateIntact(t *testing.T) {
	a, b := pair(t)
	header, ct, err := ratchet.Encrypt(&a, nil, []byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	bad := append([]byte(nil), ct...)
	bad[0] ^= 0xff
	if _, err := ratchet.Decrypt(&b, nil, header, bad); err == nil {
		t.Fatal("expected tampered ciphertext to fail")
	}
	pt, err := ratchet.Decrypt(&b, nil, header, ct)
	if err != nil {
		t.Fatalf("Decrypt after tamper: %v", err)
	}
	if string(pt) != "hello" {
		t.Fatalf("got %q, want %q", pt, "hello")
	}
}
