package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"otrbridge/internal/domain"
)

const trustFilename = "trust.json"

// TrustFileStore keeps the set of fingerprints the user has verified.
type TrustFileStore struct {
	dir  string
	path string

	mu      sync.RWMutex
	entries map[string]domain.TrustEntry
}

// NewTrustFileStore loads the trust file under dir, creating dir if needed.
func NewTrustFileStore(dir string) (*TrustFileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	s := &TrustFileStore{
		dir:     dir,
		path:    filepath.Join(dir, trustFilename),
		entries: make(map[string]domain.TrustEntry),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the trust file location.
func (s *TrustFileStore) Path() string { return s.path }

// Trust records fingerprint as verified for peer and persists the set.
func (s *TrustFileStore) Trust(peer domain.PeerIdentity, fingerprint domain.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := trustKey(peer, fingerprint)
	if _, ok := s.entries[k]; ok {
		return nil
	}
	s.entries[k] = domain.TrustEntry{
		Peer:        peer,
		Fingerprint: fingerprint,
		CreatedUTC:  time.Now().Unix(),
	}
	return saveJSON(s.path, s.sortedLocked(), 0o600)
}

// IsTrusted reports whether fingerprint was verified for peer.
func (s *TrustFileStore) IsTrusted(peer domain.PeerIdentity, fingerprint domain.Fingerprint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[trustKey(peer, fingerprint)]
	return ok
}

// ListTrusted returns all entries ordered by peer.
func (s *TrustFileStore) ListTrusted() ([]domain.TrustEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// Reload replaces the in-memory set with the file contents.
func (s *TrustFileStore) Reload() error {
	var list []domain.TrustEntry
	if err := loadJSON(s.path, &list); err != nil {
		return err
	}
	entries := make(map[string]domain.TrustEntry, len(list))
	for _, e := range list {
		entries[trustKey(e.Peer, e.Fingerprint)] = e
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever the trust file changes on disk and
// reports each reload result to onReload. Blocks until ctx is cancelled.
func (s *TrustFileStore) Watch(ctx context.Context, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: atomic writes replace the file by rename.
	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != trustFilename {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			err := s.Reload()
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(err)
			}
		}
	}
}

func (s *TrustFileStore) sortedLocked() []domain.TrustEntry {
	out := make([]domain.TrustEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Peer.Key() != out[j].Peer.Key() {
			return out[i].Peer.Key() < out[j].Peer.Key()
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

func trustKey(peer domain.PeerIdentity, fingerprint domain.Fingerprint) string {
	return peer.Key() + "|" + fingerprint.String()
}

// Compile-time assertion that TrustFileStore implements domain.TrustStore.
var _ domain.TrustStore = (*TrustFileStore)(nil)
