package convert

import (
	"errors"
	"strings"
	"unicode/utf8"

	"eternalpay/internal/domain"
)

var (
	ErrKeyRequired         = errors.New("destination key is required")
	ErrLightningKeyInvalid = errors.New("invalid lightning address")
	ErrPixKeyInvalid       = errors.New("invalid pix key")
)

// KeyValidator checks a destination key against the format expected for the
// given direction.
type KeyValidator interface {
	Validate(direction domain.Direction, key string) error
}

// LightningPixValidator is the shipped validator. Fiat to crypto expects a
// lightning address ("ln..." or an email-style identifier). The crypto to
// fiat rule (at least 3 runes) is a deliberately weak placeholder; swap in a
// real Pix key validator through the KeyValidator interface.
type LightningPixValidator struct{}

func (LightningPixValidator) Validate(direction domain.Direction, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	switch direction {
	case domain.CryptoToFiat:
		if utf8.RuneCountInString(key) < 3 {
			return ErrPixKeyInvalid
		}
	default:
		if !strings.HasPrefix(key, "ln") && !strings.Contains(key, "@") {
			return ErrLightningKeyInvalid
		}
	}
	return nil
}
