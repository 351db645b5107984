// Package scoring ranks roster moves by the projected point swing they
// produce against the current optimal lineup.
package scoring

import (
	"sort"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

const (
	LabelWorthAdding = "worth adding"
	LabelPass        = "pass"
)

// DefaultScarcity weights positions by how hard replacements are to find.
var DefaultScarcity = map[models.Position]float64{
	models.RB:  1.2,
	models.TE:  1.1,
	models.WR:  1.0,
	models.QB:  0.9,
	models.DST: 0.7,
	models.K:   0.6,
}

type Options struct {
	Threshold float64
	// Scarcity multiplies the verdict score; nil leaves it unscaled.
	Scarcity map[models.Position]float64
}

type Verdict struct {
	Candidate     models.Player   `json:"candidate"`
	Baseline      *models.Player  `json:"baseline,omitempty"`
	BaselineSlot  models.Position `json:"baseline_slot,omitempty"`
	WouldStart    bool            `json:"would_start"`
	WeeklyDelta   float64         `json:"weekly_delta"`
	ROSDelta      float64         `json:"ros_delta"`
	WorthAdding   bool            `json:"worth_adding"`
	Label         string          `json:"label"`
	SuggestedDrop *models.Player  `json:"suggested_drop,omitempty"`
	Score         float64         `json:"score"`
}

// VerdictScore is a display-ordering heuristic, not a calibrated model.
func VerdictScore(weeklyDelta, rosDelta, multiplier float64) float64 {
	return (weeklyDelta/5 + rosDelta/50) * multiplier
}

// EvaluateCandidate compares a free agent or waiver candidate against the
// weakest starter it could replace. When nothing at its slot is started the
// weakest bench player at the same position is the baseline.
func EvaluateCandidate(candidate models.Player, lineup models.Lineup, bench []models.Player, opts Options) Verdict {
	v := Verdict{Candidate: candidate, Label: LabelPass}

	baseline, slot, started := weakestStarter(candidate.Position, lineup)
	if started {
		v.WouldStart = candidate.Projected > baseline.Projected
	} else if b, ok := weakest(bench, func(p models.Player) bool { return p.Position == candidate.Position }); ok {
		baseline = b
		slot = ""
	} else {
		// Open slot: any projection is an upgrade over nothing.
		v.WouldStart = slotRequired(candidate.Position, lineup) && candidate.Projected > 0
		baseline = models.Player{}
	}

	if baseline.Name != "" {
		b := baseline
		v.Baseline = &b
		v.BaselineSlot = slot
	}
	v.WeeklyDelta = candidate.Projected - baseline.Projected
	v.ROSDelta = candidate.ROS - baseline.ROS

	v.WorthAdding = v.WeeklyDelta >= opts.Threshold || v.ROSDelta >= opts.Threshold
	if v.WorthAdding {
		v.Label = LabelWorthAdding
	}

	if drop, ok := SuggestDrop(bench); ok {
		v.SuggestedDrop = &drop
	}

	multiplier := 1.0
	if m, ok := opts.Scarcity[candidate.Position]; ok {
		multiplier = m
	}
	v.Score = VerdictScore(v.WeeklyDelta, v.ROSDelta, multiplier)
	return v
}

// RankCandidates evaluates every candidate and orders the verdicts by score,
// highest first.
func RankCandidates(candidates []models.Player, lineup models.Lineup, bench []models.Player, opts Options) []Verdict {
	verdicts := make([]Verdict, len(candidates))
	for i, c := range candidates {
		verdicts[i] = EvaluateCandidate(c, lineup, bench, opts)
	}
	sort.SliceStable(verdicts, func(i, j int) bool {
		return verdicts[i].Score > verdicts[j].Score
	})
	return verdicts
}

// SuggestDrop returns the cheapest bench player: lowest rest-of-season
// projection, then lowest weekly projection.
func SuggestDrop(bench []models.Player) (models.Player, bool) {
	if len(bench) == 0 {
		return models.Player{}, false
	}
	drop := bench[0]
	for _, p := range bench[1:] {
		if p.ROS < drop.ROS || (p.ROS == drop.ROS && p.Projected < drop.Projected) {
			drop = p
		}
	}
	return drop, true
}

// weakestStarter finds the lowest projected starter in pos's own slot and,
// for FLEX-eligible positions, in FLEX; the lower of the two wins.
func weakestStarter(pos models.Position, lineup models.Lineup) (models.Player, models.Position, bool) {
	var (
		best  models.Player
		slot  models.Position
		found bool
	)
	consider := func(s models.Position) {
		if p, ok := weakest(lineup.Slot(s), nil); ok && (!found || p.Projected < best.Projected) {
			best, slot, found = p, s, true
		}
	}
	consider(pos)
	if pos.FlexEligible() {
		consider(models.FLEX)
	}
	return best, slot, found
}

func slotRequired(pos models.Position, lineup models.Lineup) bool {
	for _, a := range lineup {
		if a.Slot == pos || (a.Slot == models.FLEX && pos.FlexEligible()) {
			return true
		}
	}
	return false
}

func weakest(players []models.Player, keep func(models.Player) bool) (models.Player, bool) {
	var (
		out   models.Player
		found bool
	)
	for _, p := range players {
		if keep != nil && !keep(p) {
			continue
		}
		if !found || p.Projected < out.Projected {
			out, found = p, true
		}
	}
	return out, found
}
