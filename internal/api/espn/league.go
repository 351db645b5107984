package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

var ErrTeamNotFound = errors.New("team not found")

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	var espnResponse models.LeagueResponse
	params := map[string]string{
		"view": "mSettings",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &espnResponse); err != nil {
		return nil, fmt.Errorf("fetching league metadata: %w", err)
	}

	metadata := &models.LeagueMetadata{
		LeagueID:             espnResponse.ID,
		Name:                 espnResponse.Settings.Name,
		CurrentWeek:          espnResponse.Status.CurrentMatchupPeriod,
		CurrentScoringPeriod: espnResponse.ScoringPeriodID,
		SeasonID:             espnResponse.SeasonID,
		FirstWeek:            espnResponse.Status.FirstScoringPeriod,
		LastWeek:             espnResponse.Status.FinalScoringPeriod,
		IsActive:             espnResponse.Status.IsActive,
		LastUpdated:          time.Now(),
	}

	return metadata, nil
}

func (a *API) GetTeams(ctx context.Context) ([]models.TeamInfo, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mTeam",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}

	teams := make([]models.TeamInfo, len(leagueResponse.Teams))
	for i, team := range leagueResponse.Teams {
		teams[i] = models.TeamInfo{
			ID:           team.ID,
			Name:         team.DisplayName(),
			Abbreviation: team.Abbreviation,
		}
	}
	return teams, nil
}

// FindTeam resolves a loosely typed team name or abbreviation.
func (a *API) FindTeam(ctx context.Context, name string) (models.TeamInfo, error) {
	teams, err := a.GetTeams(ctx)
	if err != nil {
		return models.TeamInfo{}, err
	}
	return matchTeam(teams, name)
}

func matchTeam(teams []models.TeamInfo, name string) (models.TeamInfo, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	for _, team := range teams {
		if strings.EqualFold(team.Abbreviation, query) || strings.EqualFold(team.Name, query) {
			return team, nil
		}
	}

	var bestMatch *models.TeamInfo
	bestScore := -1.0
	threshold := 0.6

	for i, team := range teams {
		current := strings.ToLower(team.Name)
		distance := fuzzy.LevenshteinDistance(query, current)
		maxLen := float64(max(len(query), len(current)))
		similarity := 1 - float64(distance)/maxLen

		if similarity > threshold && similarity > bestScore {
			bestScore = similarity
			bestMatch = &teams[i]
		}
	}

	if bestMatch == nil {
		return models.TeamInfo{}, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
	}
	return *bestMatch, nil
}

// GetRosters returns every team's roster for week.
func (a *API) GetRosters(ctx context.Context, week int) ([]models.TeamRoster, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view":            "mRoster,mTeam",
		"scoringPeriodId": fmt.Sprintf("%d", week),
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	rosters := make([]models.TeamRoster, 0, len(leagueResponse.Teams))
	for _, team := range leagueResponse.Teams {
		roster := models.TeamRoster{
			TeamID:   team.ID,
			TeamName: team.DisplayName(),
			Week:     week,
			Players:  make([]models.Player, 0, len(team.Roster.Entries)),
		}
		for _, entry := range team.Roster.Entries {
			p := toPlayer(entry.PlayerPoolEntry, week)
			p.LineupSlot = getLineupSlotString(entry.LineupSlotID)
			roster.Players = append(roster.Players, p)
		}
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

func (a *API) GetRoster(ctx context.Context, teamID, week int) (models.TeamRoster, error) {
	rosters, err := a.GetRosters(ctx, week)
	if err != nil {
		return models.TeamRoster{}, err
	}
	for _, roster := range rosters {
		if roster.TeamID == teamID {
			return roster, nil
		}
	}
	return models.TeamRoster{}, fmt.Errorf("%w: id %d", ErrTeamNotFound, teamID)
}

// GetFreeAgents lists unrostered players at pos, most owned first.
func (a *API) GetFreeAgents(ctx context.Context, pos models.Position, week, limit int) ([]models.Player, error) {
	slotID, ok := positionSlotIDs[pos]
	if !ok {
		return nil, fmt.Errorf("unsupported position %q", pos)
	}
	if limit <= 0 {
		limit = 25
	}

	filters := map[string]interface{}{
		"players": map[string]interface{}{
			"filterStatus":   map[string]interface{}{"value": []string{"FREEAGENT", "WAIVERS"}},
			"filterSlotIds":  map[string]interface{}{"value": []int{slotID}},
			"limit":          limit,
			"sortPercOwned":  map[string]interface{}{"sortPriority": 1, "sortAsc": false},
			"sortDraftRanks": map[string]interface{}{"sortPriority": 100, "sortAsc": true, "value": "STANDARD"},
		},
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}

	params := map[string]string{
		"view":            "kona_player_info",
		"scoringPeriodId": fmt.Sprintf("%d", week),
	}
	headers := map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}

	var response models.PlayerCardResponse
	if err := a.client.Get(ctx, a.leagueEndpoint(), params, headers, &response); err != nil {
		return nil, fmt.Errorf("fetching free agents: %w", err)
	}

	players := make([]models.Player, 0, len(response.Players))
	for _, entry := range response.Players {
		p := toPlayer(entry, week)
		if pos != models.FLEX && p.Position != pos {
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

func (a *API) GetMatchup(ctx context.Context, teamID, week int) (models.Matchup, error) {
	var scoreboardResponse models.ScoreboardResponse

	filters := map[string]interface{}{
		"schedule": map[string]interface{}{
			"filterMatchupPeriodIds": map[string]interface{}{
				"value": []int{week},
			},
		},
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return models.Matchup{}, fmt.Errorf("error marshalling filters: %w", err)
	}

	headers := map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), map[string]string{"view": "mScoreboard"}, headers, &scoreboardResponse); err != nil {
		return models.Matchup{}, fmt.Errorf("fetching scoreboard: %w", err)
	}

	teams, err := a.GetTeams(ctx)
	if err != nil {
		return models.Matchup{}, err
	}
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	for _, match := range scoreboardResponse.Schedule {
		if match.MatchupPeriodID != 0 && match.MatchupPeriodID != week {
			continue
		}

		var mine, theirs models.TeamScore
		switch teamID {
		case match.Home.TeamID:
			mine, theirs = match.Home, match.Away
		case match.Away.TeamID:
			mine, theirs = match.Away, match.Home
		default:
			continue
		}

		score, projected := getScoreAndProjected(mine)
		oppScore, oppProjected := getScoreAndProjected(theirs)
		return models.Matchup{
			Week:            week,
			TeamID:          teamID,
			TeamName:        names[teamID],
			OpponentID:      theirs.TeamID,
			OpponentName:    names[theirs.TeamID],
			Score:           score,
			OpponentScore:   oppScore,
			Projected:       projected,
			OpponentProject: oppProjected,
			IsCompleted:     match.Winner != "" && match.Winner != "UNDECIDED",
		}, nil
	}

	return models.Matchup{}, fmt.Errorf("no matchup for team %d in week %d", teamID, week)
}

func getScoreAndProjected(teamScore models.TeamScore) (float64, float64) {
	score := teamScore.TotalPointsLive
	if score == 0 {
		score = teamScore.TotalPoints
	}
	projected := teamScore.TotalProjectedPointsLive
	return math.Round(score*100) / 100, math.Round(projected*100) / 100
}

func toPlayer(entry models.PlayerPoolEntry, week int) models.Player {
	player := entry.Player
	return models.Player{
		ID:           player.ID,
		Name:         player.FullName,
		Position:     getPosition(player.DefaultPositionID),
		ProTeam:      getProTeamString(player.ProTeamID),
		Projected:    weeklyProjection(player.Stats, week),
		ROS:          seasonProjection(player.Stats),
		InjuryStatus: player.InjuryStatus,
		PercentOwned: player.Ownership.PercentOwned,
	}
}

func weeklyProjection(stats []models.Stat, week int) float64 {
	for _, stat := range stats {
		if stat.StatSourceID == 1 && stat.StatSplitTypeID == 1 && stat.ScoringPeriodID == week {
			return stat.AppliedTotal
		}
	}
	return 0
}

func seasonProjection(stats []models.Stat) float64 {
	for _, stat := range stats {
		if stat.StatSourceID == 1 && stat.StatSplitTypeID == 0 {
			return stat.AppliedTotal
		}
	}
	return 0
}

var positionSlotIDs = map[models.Position]int{
	models.QB:   0,
	models.RB:   2,
	models.WR:   4,
	models.TE:   6,
	models.DST:  16,
	models.K:    17,
	models.FLEX: 23,
}

func getPosition(positionID int) models.Position {
	positions := map[int]models.Position{
		1: models.QB, 2: models.RB, 3: models.WR, 4: models.TE, 5: models.K, 16: models.DST,
	}
	if pos, ok := positions[positionID]; ok {
		return pos
	}
	return "Unknown"
}

func getProTeamString(proTeamID int) string {
	teams := map[int]string{
		1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
		9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA", 16: "MIN",
		17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
		25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
	}

	if team, ok := teams[proTeamID]; ok {
		return team
	}

	return "FA"
}

func getLineupSlotString(slotID int) string {
	switch slotID {
	case 0:
		return "QB"
	case 2:
		return "RB"
	case 4:
		return "WR"
	case 6:
		return "TE"
	case 16:
		return "D/ST"
	case 17:
		return "K"
	case 20:
		return "Bench"
	case 21:
		return "IR"
	case 23:
		return "FLEX"
	default:
		return "Unknown"
	}
}
