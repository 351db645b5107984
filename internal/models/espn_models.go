package models

type LeagueResponse struct {
	ID              int      `json:"id"`
	ScoringPeriodID int      `json:"scoringPeriodId"`
	SeasonID        int      `json:"seasonId"`
	SegmentID       int      `json:"segmentId"`
	Status          Status   `json:"status"`
	Teams           []Team   `json:"teams"`
	Settings        Settings `json:"settings"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Nickname     string `json:"nickname"`
	Roster       Roster `json:"roster"`
}

// DisplayName prefers the combined team name and falls back to location and
// nickname for older seasons that do not populate it.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Location != "" || t.Nickname != "" {
		return t.Location + " " + t.Nickname
	}
	return t.Abbreviation
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type ScoreboardResponse struct {
	Schedule []MatchupScore `json:"schedule"`
}

type MatchupScore struct {
	ID              int       `json:"id"`
	MatchupPeriodID int       `json:"matchupPeriodId"`
	Away            TeamScore `json:"away"`
	Home            TeamScore `json:"home"`
	Winner          string    `json:"winner"`
}

type TeamScore struct {
	TeamID                   int     `json:"teamId"`
	TotalPoints              float64 `json:"totalPoints"`
	TotalPointsLive          float64 `json:"totalPointsLive"`
	TotalProjectedPointsLive float64 `json:"totalProjectedPointsLive"`
}

type RosterEntry struct {
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerCardResponse struct {
	Players []PlayerPoolEntry `json:"players"`
}

type PlayerPoolEntry struct {
	ID               int        `json:"id"`
	OnTeamID         int        `json:"onTeamId"`
	Status           string     `json:"status"`
	Player           PlayerInfo `json:"player"`
	AppliedStatTotal float64    `json:"appliedStatTotal"`
}

type PlayerInfo struct {
	ID                int       `json:"id"`
	FullName          string    `json:"fullName"`
	DefaultPositionID int       `json:"defaultPositionId"`
	ProTeamID         int       `json:"proTeamId"`
	Ownership         Ownership `json:"ownership"`
	Stats             []Stat    `json:"stats"`
	InjuryStatus      string    `json:"injuryStatus"`
}

type Ownership struct {
	PercentOwned float64 `json:"percentOwned"`
}

// Stat sources: 0 actual, 1 projected. Split types: 0 season, 1 single week.
type Stat struct {
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	SeasonID        int                `json:"seasonId"`
	AppliedTotal    float64            `json:"appliedTotal"`
	AppliedStats    map[string]float64 `json:"appliedStats"`
}
