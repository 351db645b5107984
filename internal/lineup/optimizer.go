// Package lineup assigns roster players to required starting slots.
package lineup

import (
	"sort"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

// Optimize fills each required slot, in requirement order, with the highest
// projected eligible players not already used by an earlier slot. Players at
// RB, WR or TE are eligible both for their own slot and for FLEX. Bench holds
// every roster player that was not assigned, in roster order.
func Optimize(roster []models.Player, slots models.SlotRequirements) (models.Lineup, []models.Player) {
	buckets := make(map[models.Position][]int)
	for i, p := range roster {
		if !p.Position.Valid() {
			continue
		}
		buckets[p.Position] = append(buckets[p.Position], i)
	}
	for _, pos := range []models.Position{models.RB, models.WR, models.TE} {
		buckets[models.FLEX] = append(buckets[models.FLEX], buckets[pos]...)
	}

	// FLEX is built by position, so restore roster order before the stable
	// sort to keep ties in roster order.
	sort.Ints(buckets[models.FLEX])
	for pos, idx := range buckets {
		sort.SliceStable(idx, func(a, b int) bool {
			return roster[idx[a]].Projected > roster[idx[b]].Projected
		})
		buckets[pos] = idx
	}

	used := make(map[int]bool, len(roster))
	lineup := make(models.Lineup, 0, len(slots))
	for _, req := range slots {
		assignment := models.SlotAssignment{Slot: req.Slot, Players: []models.Player{}}
		for _, i := range buckets[req.Slot] {
			if len(assignment.Players) >= req.Count {
				break
			}
			if used[i] {
				continue
			}
			used[i] = true
			assignment.Players = append(assignment.Players, roster[i])
		}
		lineup = append(lineup, assignment)
	}

	bench := make([]models.Player, 0, len(roster)-len(used))
	for i, p := range roster {
		if !used[i] {
			bench = append(bench, p)
		}
	}

	return lineup, bench
}

