package otr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"otrbridge/internal/crypto"
	"otrbridge/internal/domain"
	"otrbridge/internal/protocol/akex"
)

const (
	queryText  = "?OTR?"
	finishText = "?OTR:F."
	keyPrefix  = "?OTR:K:"
	dataPrefix = "?OTR:D:"
	protoMark  = "?OTR"
	terminator = "."
)

// ErrMalformed is returned for protocol text that cannot be parsed.
var ErrMalformed = errors.New("otr: malformed protocol message")

type kind int

const (
	kindPlain kind = iota
	kindQuery
	kindKey
	kindData
	kindFinish
)

// dataMessage carries one ratchet ciphertext.
type dataMessage struct {
	Header     domain.RatchetHeader `json:"h"`
	Ciphertext []byte               `json:"c"`
}

// classify identifies text without decoding any payload.
func classify(text string) (kind, error) {
	switch {
	case !strings.HasPrefix(text, protoMark):
		return kindPlain, nil
	case text == queryText:
		return kindQuery, nil
	case text == finishText:
		return kindFinish, nil
	case strings.HasPrefix(text, keyPrefix):
		return kindKey, nil
	case strings.HasPrefix(text, dataPrefix):
		return kindData, nil
	default:
		return kindPlain, fmt.Errorf("%w: unknown message %q", ErrMalformed, truncate(text))
	}
}

func encodeOffer(o akex.Offer) (string, error) {
	return wrap(keyPrefix, o)
}

func decodeOffer(text string) (akex.Offer, error) {
	var o akex.Offer
	err := unwrap(keyPrefix, text, &o)
	return o, err
}

func encodeData(m dataMessage) (string, error) {
	return wrap(dataPrefix, m)
}

func decodeData(text string) (dataMessage, error) {
	var m dataMessage
	err := unwrap(dataPrefix, text, &m)
	return m, err
}

func wrap(prefix string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return prefix + crypto.B64(b) + terminator, nil
}

func unwrap(prefix, text string, out any) error {
	body, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrMalformed, prefix)
	}
	body, ok = strings.CutSuffix(body, terminator)
	if !ok {
		return fmt.Errorf("%w: unterminated", ErrMalformed)
	}
	raw, err := crypto.UnB64(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func truncate(s string) string {
	if len(s) > 16 {
		return s[:16] + "..."
	}
	return s
}
