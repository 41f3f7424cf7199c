package engine_test

import (
	"otrbridge/internal/domain"
)

// fakeEngine returns canned answers and records calls.
type fakeEngine struct {
	encodeOut domain.EngineOutput
	encodeErr error
	decodeOut domain.EngineOutput
	decodeErr error
	status    *domain.TrustStatus

	trusted []domain.PeerIdentity
}

func (f *fakeEngine) Start() error { return nil }
func (f *fakeEngine) Stop() error  { return nil }

func (f *fakeEngine) Encode(domain.PeerIdentity, string) (domain.EngineOutput, error) {
	return f.encodeOut, f.encodeErr
}

func (f *fakeEngine) Decode(domain.PeerIdentity, string) (domain.EngineOutput, error) {
	return f.decodeOut, f.decodeErr
}

func (f *fakeEngine) Status(domain.PeerIdentity) (domain.TrustStatus, bool) {
	if f.status == nil {
		return domain.TrustStatus{}, false
	}
	return *f.status, true
}

func (f *fakeEngine) Trust(p domain.PeerIdentity) (domain.Fingerprint, error) {
	f.trusted = append(f.trusted, p)
	return "FP", nil
}

func (f *fakeEngine) Initiate(domain.PeerIdentity) error { return nil }
func (f *fakeEngine) Finish(domain.PeerIdentity) error   { return nil }
