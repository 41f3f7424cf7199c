package akex_test

import (
	"bytes"
	"testing"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
	"otrbridge/internal/protocol/akex"
)

// makeIdentity creates a domain.Identity with fresh X25519 and Ed25519 pairs.
func makeIdentity(t *testing.T, nick string) domain.Identity {
	t.Helper()
	xPriv, xPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	edPriv, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return domain.Identity{
		Account: domain.AccountID{Nick: nick, Network: "irc.example.net"},
		XPub:    xPub,
		XPriv:   xPriv,
		EdPub:   edPub,
		EdPriv:  edPriv,
	}
}

func TestRootKey_BothSidesAgree(t *testing.T) {
	alice := makeIdentity(t, "alice")
	bob := makeIdentity(t, "bob")

	aOffer, aEph, err := akex.NewOffer(alice)
	if err != nil {
		t.Fatalf("NewOffer alice: %v", err)
	}
	bOffer, bEph, err := akex.NewOffer(bob)
	if err != nil {
		t.Fatalf("NewOffer bob: %v", err)
	}
	if err := aOffer.Verify(); err != nil {
		t.Fatalf("verify alice offer: %v", err)
	}
	if err := bOffer.Verify(); err != nil {
		t.Fatalf("verify bob offer: %v", err)
	}

	aRoot, err := akex.RootKey(alice, aEph, aOffer, bOffer)
	if err != nil {
		t.Fatalf("alice RootKey: %v", err)
	}
	bRoot, err := akex.RootKey(bob, bEph, bOffer, aOffer)
	if err != nil {
		t.Fatalf("bob RootKey: %v", err)
	}
	if !bytes.Equal(aRoot, bRoot) {
		t.Fatal("root keys differ")
	}
	if akex.Low(aOffer, bOffer) == akex.Low(bOffer, aOffer) {
		t.Fatal("exactly one side must be low")
	}
}

func TestVerify_RejectsSwappedEphemeral(t *testing.T) {
	alice := makeIdentity(t, "alice")
	offer, _, err := akex.NewOffer(alice)
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	_, other, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	offer.Ephemeral = other
	if err := offer.Verify(); err != akex.ErrBadSignature {
		t.Fatalf("got %v, want ErrBadSignature", err)
	}
}

func TestRootKey_RejectsEchoedEphemeral(t *testing.T) {
	alice := makeIdentity(t, "alice")
	offer, eph, err := akex.NewOffer(alice)
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	if _, err := akex.RootKey(alice, eph, offer, offer); err != akex.ErrSameEphemeral {
		t.Fatalf("got %v, want ErrSameEphemeral", err)
	}
}
