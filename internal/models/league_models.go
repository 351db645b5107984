package models

import "time"

type LeagueMetadata struct {
	LeagueID             int
	Name                 string
	CurrentWeek          int
	CurrentScoringPeriod int
	SeasonID             int
	FirstWeek            int
	LastWeek             int
	IsActive             bool
	LastUpdated          time.Time
}

type TeamInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Matchup struct {
	Week            int     `json:"week"`
	TeamID          int     `json:"team_id"`
	TeamName        string  `json:"team_name"`
	OpponentID      int     `json:"opponent_id"`
	OpponentName    string  `json:"opponent_name"`
	Score           float64 `json:"score"`
	OpponentScore   float64 `json:"opponent_score"`
	Projected       float64 `json:"projected"`
	OpponentProject float64 `json:"opponent_projected"`
	IsCompleted     bool    `json:"is_completed"`
}

// LogEntry is one row of the append-only performance log.
type LogEntry struct {
	Week             int       `json:"week"`
	Team             string    `json:"team"`
	ProjectedESPN    float64   `json:"projected_espn"`
	ProjectedOptimal float64   `json:"projected_optimal"`
	Actual           float64   `json:"actual"`
	LoggedAt         time.Time `json:"logged_at"`
}

type LogSummary struct {
	Weeks         int     `json:"weeks"`
	MeanActual    float64 `json:"mean_actual"`
	MeanProjected float64 `json:"mean_projected"`
	MeanError     float64 `json:"mean_error"`
}

type TeamRoster struct {
	TeamID   int      `json:"team_id"`
	TeamName string   `json:"team_name"`
	Week     int      `json:"week"`
	Players  []Player `json:"players"`
}
