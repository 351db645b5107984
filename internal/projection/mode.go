package projection

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("unknown projection mode")

// Mode selects which projection sources are consulted.
type Mode int

const (
	PrimaryWithFallback Mode = iota
	PrimaryOnly
	SecondaryOnly
)

func (m Mode) String() string {
	switch m {
	case PrimaryOnly:
		return "espn"
	case SecondaryOnly:
		return "fantasypros"
	default:
		return "espn+fantasypros"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "espn", "primary", "primaryonly", "primary-only":
		return PrimaryOnly, nil
	case "espn+fantasypros", "fallback", "primarywithfallback", "primary-with-fallback", "":
		return PrimaryWithFallback, nil
	case "fantasypros", "secondary", "secondaryonly", "secondary-only":
		return SecondaryOnly, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Decode lets envconfig parse PROJECTION_MODE directly.
func (m *Mode) Decode(value string) error {
	parsed, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
