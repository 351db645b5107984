package scoring

import (
	"strings"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
)

type Package struct {
	Players []models.Player `json:"players"`
	Weekly  float64         `json:"weekly"`
	ROS     float64         `json:"ros"`
}

func newPackage(players []models.Player) Package {
	pkg := Package{Players: players}
	for _, p := range players {
		pkg.Weekly += p.Projected
		pkg.ROS += p.ROS
	}
	return pkg
}

// TradeResult reports the swing for the side giving Give and receiving Get.
// The partner's swing is the negation.
type TradeResult struct {
	Give            Package `json:"give"`
	Get             Package `json:"get"`
	NetWeekly       float64 `json:"net_weekly"`
	NetROS          float64 `json:"net_ros"`
	PartnerWeekly   float64 `json:"partner_weekly"`
	PartnerROS      float64 `json:"partner_ros"`
	LineupBefore    float64 `json:"lineup_before"`
	LineupAfter     float64 `json:"lineup_after"`
	LineupDelta     float64 `json:"lineup_delta"`
	LineupROSBefore float64 `json:"lineup_ros_before"`
	LineupROSAfter  float64 `json:"lineup_ros_after"`
	Score           float64 `json:"score"`
}

// CompareTrade sums both packages and re-optimizes roster with the trade
// applied. A nil roster skips the lineup comparison. Repeated players in
// either package count once.
func CompareTrade(give, get, roster []models.Player, slots models.SlotRequirements) TradeResult {
	give, get = uniquePlayers(give), uniquePlayers(get)
	res := TradeResult{Give: newPackage(give), Get: newPackage(get)}
	res.NetWeekly = res.Get.Weekly - res.Give.Weekly
	res.NetROS = res.Get.ROS - res.Give.ROS
	res.PartnerWeekly = -res.NetWeekly
	res.PartnerROS = -res.NetROS
	res.Score = VerdictScore(res.NetWeekly, res.NetROS, 1)

	if roster == nil {
		return res
	}

	before, _ := lineup.Optimize(roster, slots)
	after, _ := lineup.Optimize(ApplyTrade(roster, give, get), slots)
	res.LineupBefore = before.Total()
	res.LineupAfter = after.Total()
	res.LineupDelta = res.LineupAfter - res.LineupBefore
	res.LineupROSBefore = before.TotalROS()
	res.LineupROSAfter = after.TotalROS()
	return res
}

func uniquePlayers(players []models.Player) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		dup := false
		for _, q := range out {
			if samePlayer(p, q) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// ApplyTrade removes give from roster (first match per player) and appends get.
func ApplyTrade(roster, give, get []models.Player) []models.Player {
	remove := make([]bool, len(roster))
	for _, g := range give {
		for i, p := range roster {
			if !remove[i] && samePlayer(p, g) {
				remove[i] = true
				break
			}
		}
	}

	out := make([]models.Player, 0, len(roster)+len(get))
	for i, p := range roster {
		if !remove[i] {
			out = append(out, p)
		}
	}
	return append(out, get...)
}

func samePlayer(a, b models.Player) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return strings.EqualFold(a.Name, b.Name)
}
