package fantasy

import (
	"context"

	"github.com/omarshaarawi/lineupcoach/internal/api/espn"
	"github.com/omarshaarawi/lineupcoach/internal/models"
)

// API narrows the ESPN reads to one manager's team.
type API struct {
	espnAPI *espn.API
	teamID  int
}

func NewAPI(espnAPI *espn.API, teamID int) *API {
	return &API{espnAPI: espnAPI, teamID: teamID}
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	return a.espnAPI.GetLeagueMetadata(ctx)
}

func (a *API) GetMyRoster(ctx context.Context, week int) (models.TeamRoster, error) {
	return a.espnAPI.GetRoster(ctx, a.teamID, week)
}

func (a *API) GetRosters(ctx context.Context, week int) ([]models.TeamRoster, error) {
	return a.espnAPI.GetRosters(ctx, week)
}

func (a *API) GetFreeAgents(ctx context.Context, pos models.Position, week, limit int) ([]models.Player, error) {
	return a.espnAPI.GetFreeAgents(ctx, pos, week, limit)
}

func (a *API) GetMyMatchup(ctx context.Context, week int) (models.Matchup, error) {
	return a.espnAPI.GetMatchup(ctx, a.teamID, week)
}

func (a *API) FindTeam(ctx context.Context, name string) (models.TeamInfo, error) {
	return a.espnAPI.FindTeam(ctx, name)
}
