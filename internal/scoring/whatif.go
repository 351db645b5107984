package scoring

import (
	"fmt"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
)

type WhatIf struct {
	Out         models.Player   `json:"out"`
	In          models.Player   `json:"in"`
	Before      models.Lineup   `json:"before"`
	After       models.Lineup   `json:"after"`
	BenchAfter  []models.Player `json:"bench_after"`
	TotalBefore float64         `json:"total_before"`
	TotalAfter  float64         `json:"total_after"`
	Delta       float64         `json:"delta"`
}

// SimulateSwap replaces out with in and re-runs the optimizer.
func SimulateSwap(roster []models.Player, slots models.SlotRequirements, out, in models.Player) (WhatIf, error) {
	idx := -1
	for i, p := range roster {
		if samePlayer(p, in) {
			return WhatIf{}, fmt.Errorf("%s is already on the roster", in.Name)
		}
		if idx < 0 && samePlayer(p, out) {
			idx = i
		}
	}
	if idx < 0 {
		return WhatIf{}, fmt.Errorf("%s is not on the roster", out.Name)
	}

	swapped := make([]models.Player, len(roster))
	copy(swapped, roster)
	swapped[idx] = in

	before, _ := lineup.Optimize(roster, slots)
	after, bench := lineup.Optimize(swapped, slots)

	return WhatIf{
		Out:         roster[idx],
		In:          in,
		Before:      before,
		After:       after,
		BenchAfter:  bench,
		TotalBefore: before.Total(),
		TotalAfter:  after.Total(),
		Delta:       after.Total() - before.Total(),
	}, nil
}
