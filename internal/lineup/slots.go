package lineup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

var ErrInvalidSlots = errors.New("invalid slot requirements")

// DefaultSlots is a standard ten-team ESPN starting lineup.
func DefaultSlots() models.SlotRequirements {
	return models.SlotRequirements{
		{Slot: models.QB, Count: 1},
		{Slot: models.RB, Count: 2},
		{Slot: models.WR, Count: 2},
		{Slot: models.TE, Count: 1},
		{Slot: models.FLEX, Count: 1},
		{Slot: models.DST, Count: 1},
		{Slot: models.K, Count: 1},
	}
}

// ParseSlots reads a "QB:1,RB:2,FLEX:1" list. Order is preserved and decides
// which slot claims a FLEX-eligible player first.
func ParseSlots(spec string) (models.SlotRequirements, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSlots)
	}

	var slots models.SlotRequirements
	seen := make(map[models.Position]bool)
	for _, part := range strings.Split(spec, ",") {
		name, count, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not SLOT:COUNT", ErrInvalidSlots, part)
		}
		slot, ok := models.ParsePosition(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown slot %q", ErrInvalidSlots, name)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad count %q for %s", ErrInvalidSlots, count, slot)
		}
		if seen[slot] {
			return nil, fmt.Errorf("%w: duplicate slot %s", ErrInvalidSlots, slot)
		}
		seen[slot] = true
		slots = append(slots, models.SlotRequirement{Slot: slot, Count: n})
	}

	return slots, nil
}

// FormatSlots is the inverse of ParseSlots.
func FormatSlots(slots models.SlotRequirements) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = fmt.Sprintf("%s:%d", s.Slot, s.Count)
	}
	return strings.Join(parts, ",")
}
