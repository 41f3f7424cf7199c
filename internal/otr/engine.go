package otr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"otrbridge/internal/domain"
	"otrbridge/internal/protocol/akex"
	"otrbridge/internal/protocol/ratchet"
	"otrbridge/internal/util/memzero"
)

var (
	// ErrUnexpectedKey is returned for a confirming offer that answers no
	// offer of ours.
	ErrUnexpectedKey = errors.New("otr: unexpected key confirmation")
	errNotConfigured = errors.New("otr: engine needs identities, trust store and injector")
)

// Config wires an Engine to its collaborators.
type Config struct {
	Identities domain.IdentityService
	Trust      domain.TrustStore
	Injector   domain.Injector

	// Accounts are loaded at Start so a bad passphrase fails the module
	// load instead of the first message.
	Accounts []domain.AccountID

	// RequireEncryption replaces outgoing plaintext with a query.
	RequireEncryption bool

	Log logrus.FieldLogger
}

// trustWatcher is implemented by trust stores that can follow external
// edits.
type trustWatcher interface {
	Watch(ctx context.Context, onReload func(error)) error
}

// Engine implements domain.Engine.
type Engine struct {
	cfg Config
	log logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*session

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns an engine; nothing happens until Start.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, log: log, sessions: make(map[string]*session)}
}

// Start loads the configured accounts and begins following the trust store.
func (e *Engine) Start() error {
	if e.cfg.Identities == nil || e.cfg.Trust == nil || e.cfg.Injector == nil {
		return errNotConfigured
	}
	for _, acc := range e.cfg.Accounts {
		_, fp, err := e.cfg.Identities.EnsureIdentity(acc)
		if err != nil {
			return err
		}
		e.log.WithFields(logrus.Fields{"account": acc.String(), "fingerprint": string(fp)}).Debug("identity ready")
	}

	if w, ok := e.cfg.Trust.(trustWatcher); ok {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			err := w.Watch(ctx, func(err error) {
				if err != nil {
					e.log.WithError(err).Info("trust store reload failed")
					return
				}
				e.log.Debug("trust store reloaded")
			})
			if err != nil {
				e.log.WithError(err).Info("trust store not watched")
			}
		}()
	}
	return nil
}

// Stop ends the watcher and wipes every session.
func (e *Engine) Stop() error {
	if e.cancel != nil {
		e.cancel()
		e.wg.Wait()
		e.cancel = nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, s := range e.sessions {
		s.wipe()
		delete(e.sessions, k)
	}
	return nil
}

// Encode transforms an outgoing plaintext according to the peer's session.
func (e *Engine) Encode(peer domain.PeerIdentity, plaintext string) (domain.EngineOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[peer.Key()]
	state := domain.StatePlaintext
	if s != nil {
		state = s.state
	}

	switch state {
	case domain.StateEncrypted:
		if len(s.pending) > 0 {
			// Earlier messages are still waiting; keep the order.
			s.pending = append(s.pending, plaintext)
			e.flush(peer, s)
			return consumed, nil
		}
		text, err := s.seal(plaintext)
		if err != nil {
			return domain.EngineOutput{}, err
		}
		return domain.EngineOutput{Text: text, Modified: true}, nil

	case domain.StateHandshake:
		s.pending = append(s.pending, plaintext)
		e.logger(peer, s).Info("message held until the key exchange completes")
		return domain.EngineOutput{Consumed: true}, nil

	case domain.StateFinished:
		e.logger(peer, s).Info("peer ended the encrypted session; message not sent. Use /otr finish or /otr init")
		return domain.EngineOutput{Consumed: true}, nil

	default:
		if !e.cfg.RequireEncryption {
			return domain.EngineOutput{}, nil
		}
		s = e.reset(peer)
		s.pending = append(s.pending, plaintext)
		e.logger(peer, s).Info("encryption required; starting key exchange")
		return domain.EngineOutput{Text: queryText, Modified: true}, nil
	}
}

// Decode processes incoming text. Protocol messages are consumed; data
// messages decrypt to their plaintext.
func (e *Engine) Decode(peer domain.PeerIdentity, text string) (domain.EngineOutput, error) {
	k, err := classify(text)
	if err != nil {
		return domain.EngineOutput{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.sessions[peer.Key()]

	switch k {
	case kindQuery:
		return consumed, e.answerQuery(peer)

	case kindKey:
		o, err := decodeOffer(text)
		if err != nil {
			return domain.EngineOutput{}, err
		}
		return consumed, e.receiveOffer(peer, s, o)

	case kindData:
		if s == nil || s.state != domain.StateEncrypted {
			return domain.EngineOutput{}, fmt.Errorf("%w: data message outside an encrypted session", domain.ErrNoSession)
		}
		m, err := decodeData(text)
		if err != nil {
			return domain.EngineOutput{}, err
		}
		pt, err := s.open(m)
		if err != nil {
			return domain.EngineOutput{}, err
		}
		return domain.EngineOutput{Text: pt, Modified: true}, nil

	case kindFinish:
		if s != nil {
			s.wipe()
			s.state = domain.StateFinished
			e.logger(peer, s).Info("peer ended the encrypted session")
		}
		return consumed, nil

	default:
		if s != nil && s.state == domain.StateEncrypted {
			e.logger(peer, s).Info("received an unencrypted message during an encrypted session")
		}
		return domain.EngineOutput{}, nil
	}
}

var consumed = domain.EngineOutput{Consumed: true}

// Status reports the peer's session. Plaintext peers have none.
func (e *Engine) Status(peer domain.PeerIdentity) (domain.TrustStatus, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[peer.Key()]
	if s == nil || s.state == domain.StatePlaintext {
		return domain.TrustStatus{}, false
	}
	st := domain.TrustStatus{State: s.state, Fingerprint: s.fingerprint, Instance: s.instance}
	if s.fingerprint != "" {
		st.Trusted = e.cfg.Trust.IsTrusted(peer, s.fingerprint)
	}
	return st, true
}

// Trust records the fingerprint the peer used for the current session.
func (e *Engine) Trust(peer domain.PeerIdentity) (domain.Fingerprint, error) {
	e.mu.Lock()
	s := e.sessions[peer.Key()]
	var fp domain.Fingerprint
	if s != nil {
		fp = s.fingerprint
	}
	e.mu.Unlock()

	if fp == "" {
		return "", fmt.Errorf("%w: no fingerprint for %s", domain.ErrNoSession, peer.PeerName)
	}
	if err := e.cfg.Trust.Trust(peer, fp); err != nil {
		return "", fmt.Errorf("save trust: %w", err)
	}
	return fp, nil
}

// Initiate sends a query, restarting any existing session.
func (e *Engine) Initiate(peer domain.PeerIdentity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.reset(peer)
	e.logger(peer, s).Debug("query sent")
	return e.cfg.Injector.Inject(peer, queryText)
}

// Finish tells the peer the session is over and returns to plaintext.
func (e *Engine) Finish(peer domain.PeerIdentity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[peer.Key()]
	if s == nil {
		return fmt.Errorf("%w: nothing to finish with %s", domain.ErrNoSession, peer.PeerName)
	}
	wasFinished := s.state == domain.StateFinished
	s.wipe()
	delete(e.sessions, peer.Key())
	if wasFinished {
		return nil
	}
	return e.cfg.Injector.Inject(peer, finishText)
}

// reset replaces the peer's session with a fresh handshake. Caller holds mu.
func (e *Engine) reset(peer domain.PeerIdentity) *session {
	if old := e.sessions[peer.Key()]; old != nil {
		old.wipe()
	}
	s := &session{state: domain.StateHandshake, instance: uuid.NewString()}
	e.sessions[peer.Key()] = s
	return s
}

// answerQuery replies to a query with a fresh offer. Caller holds mu.
func (e *Engine) answerQuery(peer domain.PeerIdentity) error {
	id, _, err := e.cfg.Identities.EnsureIdentity(peer.Account())
	if err != nil {
		return err
	}
	var pending []string
	if old := e.sessions[peer.Key()]; old != nil && old.state == domain.StateHandshake {
		pending = old.pending
	}
	s := e.reset(peer)
	s.pending = pending
	if err := s.offer(id); err != nil {
		return err
	}
	text, err := encodeOffer(*s.ours)
	if err != nil {
		return err
	}
	e.logger(peer, s).Debug("answering query")
	return e.cfg.Injector.Inject(peer, text)
}

// receiveOffer advances the handshake with the peer's offer. Caller holds mu.
func (e *Engine) receiveOffer(peer domain.PeerIdentity, s *session, o akex.Offer) error {
	if err := o.Verify(); err != nil {
		return err
	}
	id, _, err := e.cfg.Identities.EnsureIdentity(peer.Account())
	if err != nil {
		return err
	}

	haveOffer := s != nil && s.state == domain.StateHandshake && s.ours != nil

	switch {
	case o.RatchetKey != nil:
		if !haveOffer {
			return ErrUnexpectedKey
		}
		if err := s.respond(id, o); err != nil {
			return err
		}

	case haveOffer && !akex.Low(*s.ours, o):
		// Both sides offered; the peer sorts lower and confirms.
		s.peer = &o
		e.logger(peer, s).Debug("waiting for peer confirmation")
		return nil

	default:
		if s == nil || s.state != domain.StateHandshake {
			s = e.reset(peer)
		}
		if s.ours == nil {
			if err := s.offer(id); err != nil {
				return err
			}
		}
		confirm, err := s.initiate(id, o)
		if err != nil {
			return err
		}
		text, err := encodeOffer(confirm)
		if err != nil {
			return err
		}
		if err := e.cfg.Injector.Inject(peer, text); err != nil {
			return err
		}
	}

	e.logger(peer, s).WithField("trusted", e.cfg.Trust.IsTrusted(peer, s.fingerprint)).Info("encrypted session established")
	e.flush(peer, s)
	return nil
}

// flush encrypts and sends held messages in order. Whatever cannot be sent
// stays held for the next outgoing message. Caller holds mu.
func (e *Engine) flush(peer domain.PeerIdentity, s *session) {
	for len(s.pending) > 0 {
		text, err := s.seal(s.pending[0])
		if err == nil {
			err = e.cfg.Injector.Inject(peer, text)
		}
		if err != nil {
			e.logger(peer, s).WithError(err).WithField("held", len(s.pending)).Warn("held messages not sent yet")
			return
		}
		s.pending[0] = ""
		s.pending = s.pending[1:]
	}
	s.pending = nil
}

func (e *Engine) logger(peer domain.PeerIdentity, s *session) logrus.FieldLogger {
	entry := e.log.WithFields(logrus.Fields(peer.Fields()))
	if s != nil {
		entry = entry.WithField("instance", s.instance)
	}
	return entry
}

// session is the engine's state for one PeerIdentity.
type session struct {
	state    domain.SessionState
	instance string

	ours         *akex.Offer
	ourEphemeral domain.X25519Private
	peer         *akex.Offer

	fingerprint domain.Fingerprint
	ad          []byte
	ratchet     domain.RatchetState

	pending []string
}

func (s *session) offer(id domain.Identity) error {
	o, eph, err := akex.NewOffer(id)
	if err != nil {
		return err
	}
	s.ours, s.ourEphemeral = &o, eph
	return nil
}

// initiate completes the exchange on the confirming side and returns the
// confirmation to send.
func (s *session) initiate(id domain.Identity, peer akex.Offer) (akex.Offer, error) {
	root, err := akex.RootKey(id, s.ourEphemeral, *s.ours, peer)
	if err != nil {
		return akex.Offer{}, err
	}
	defer memzero.Zero(root)

	st, err := ratchet.InitAsInitiator(root, peer.Ephemeral)
	if err != nil {
		return akex.Offer{}, err
	}
	confirm := *s.ours
	rk := st.DiffieHellmanPublic
	confirm.RatchetKey = &rk

	s.establish(st, peer)
	memzero.Zero(s.ourEphemeral[:])
	return confirm, nil
}

// respond completes the exchange from the peer's confirmation.
func (s *session) respond(id domain.Identity, peer akex.Offer) error {
	root, err := akex.RootKey(id, s.ourEphemeral, *s.ours, peer)
	if err != nil {
		return err
	}
	defer memzero.Zero(root)

	st, err := ratchet.InitAsResponder(root, s.ourEphemeral, *peer.RatchetKey)
	if err != nil {
		return err
	}
	s.establish(st, peer)
	return nil
}

func (s *session) establish(st domain.RatchetState, peer akex.Offer) {
	s.ratchet = st
	s.peer = &peer
	s.fingerprint = peer.Fingerprint()
	s.ad = associatedData(*s.ours, peer)
	s.state = domain.StateEncrypted
}

func (s *session) seal(plaintext string) (string, error) {
	h, ct, err := ratchet.Encrypt(&s.ratchet, s.ad, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return encodeData(dataMessage{Header: h, Ciphertext: ct})
}

func (s *session) open(m dataMessage) (string, error) {
	pt, err := ratchet.Decrypt(&s.ratchet, s.ad, m.Header, m.Ciphertext)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(pt)
	return string(pt), nil
}

// wipe clears key material; the session is unusable afterwards.
func (s *session) wipe() {
	memzero.All(
		s.ourEphemeral[:],
		s.ratchet.RootKey,
		s.ratchet.DiffieHellmanPrivate[:],
		s.ratchet.SendChainKey,
		s.ratchet.ReceiveChainKey,
	)
	for k, mk := range s.ratchet.SkippedKeys {
		memzero.Zero(mk)
		delete(s.ratchet.SkippedKeys, k)
	}
	s.ratchet = domain.RatchetState{}
	s.ours, s.peer, s.ad, s.pending = nil, nil, nil, nil
}

// associatedData binds ciphertexts to both identities, ordered the same on
// either side.
func associatedData(ours, peer akex.Offer) []byte {
	low, high := peer, ours
	if akex.Low(ours, peer) {
		low, high = ours, peer
	}
	ad := make([]byte, 0, 64)
	ad = append(ad, low.IdentityKey[:]...)
	return append(ad, high.IdentityKey[:]...)
}

var _ domain.Engine = (*Engine)(nil)
