package models

import "strings"

type Position string

const (
	QB   Position = "QB"
	RB   Position = "RB"
	WR   Position = "WR"
	TE   Position = "TE"
	DST  Position = "D/ST"
	K    Position = "K"
	FLEX Position = "FLEX"
)

// Positions lists the rosterable positions in display order.
var Positions = []Position{QB, RB, WR, TE, DST, K}

// FlexEligible reports whether a player at p may fill the FLEX slot.
func (p Position) FlexEligible() bool {
	return p == RB || p == WR || p == TE
}

func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePosition normalises user input such as "dst", "DEF" or "wr".
func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return QB, true
	case "RB":
		return RB, true
	case "WR":
		return WR, true
	case "TE":
		return TE, true
	case "D/ST", "DST", "DEF", "D":
		return DST, true
	case "K", "PK":
		return K, true
	case "FLEX":
		return FLEX, true
	}
	return "", false
}

// Player is a single rostered or available player with the projections used
// for one computation. Projected is the this-week estimate and ROS the
// rest-of-season estimate.
type Player struct {
	ID           int      `json:"id,omitempty"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	ProTeam      string   `json:"pro_team,omitempty"`
	Projected    float64  `json:"projected"`
	ROS          float64  `json:"ros,omitempty"`
	InjuryStatus string   `json:"injury_status,omitempty"`
	LineupSlot   string   `json:"lineup_slot,omitempty"`
	PercentOwned float64  `json:"percent_owned,omitempty"`
}

// IsInjured reports a non-healthy designation.
func (p Player) IsInjured() bool {
	return p.InjuryStatus != "" && p.InjuryStatus != "ACTIVE" && p.InjuryStatus != "NORMAL"
}

// Estimate is a resolved projection pair for one player.
type Estimate struct {
	Week   float64 `json:"week"`
	ROS    float64 `json:"ros"`
	Source string  `json:"source"`
}

type ProjectionView string

const (
	ViewWeekly ProjectionView = "weekly"
	ViewSeason ProjectionView = "season"
)

// TableRow is one scraped projections row.
type TableRow struct {
	Name string  `json:"name"`
	Team string  `json:"team,omitempty"`
	FPTS float64 `json:"fpts"`
}
