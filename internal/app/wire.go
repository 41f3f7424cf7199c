package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"otrbridge/internal/config"
	"otrbridge/internal/logging"
	"otrbridge/internal/services/identity"
	"otrbridge/internal/store"
)

// ErrNoPassphrase is returned when an operation needs the key passphrase and
// none was configured.
var ErrNoPassphrase = errors.New("passphrase required (set " + config.PassphraseEnv + " or use --passphrase)")

// Wire bundles the stores, services and runtime state for the CLI.
type Wire struct {
	Config *config.Config
	State  *config.State
	Log    *logrus.Logger

	IdentityStore *store.IdentityFileStore
	Trust         *store.TrustFileStore
}

// NewWire constructs the dependency graph from cfg. Logs go to logOut.
func NewWire(cfg *config.Config, logOut io.Writer) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	trust, err := store.NewTrustFileStore(cfg.Home)
	if err != nil {
		return nil, err
	}

	state := config.NewState(cfg.Debug)
	log := logging.New(cfg, logOut)
	logging.Follow(log, state)

	return &Wire{
		Config:        cfg,
		State:         state,
		Log:           log,
		IdentityStore: store.NewIdentityFileStore(cfg.Home),
		Trust:         trust,
	}, nil
}

// Identities returns the identity service unlocked with the configured
// passphrase.
func (w *Wire) Identities() (*identity.Service, error) {
	if w.Config.Passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return identity.New(w.IdentityStore, w.Config.Passphrase)
}
