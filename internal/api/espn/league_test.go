package espn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/lineupcoach/internal/config"
	"github.com/omarshaarawi/lineupcoach/internal/models"
)

const rosterJSON = `{
  "id": 123, "seasonId": 2025, "scoringPeriodId": 3,
  "teams": [
    {"id": 1, "abbrev": "COACH", "name": "Coach Dad", "roster": {"entries": [
      {"lineupSlotId": 0, "playerPoolEntry": {"id": 3918298, "onTeamId": 1, "player": {
        "id": 3918298, "fullName": "Josh Allen", "defaultPositionId": 1, "proTeamId": 2, "injuryStatus": "ACTIVE",
        "stats": [
          {"statSourceId": 0, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 31.2},
          {"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 24.6},
          {"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 4, "appliedTotal": 22.0},
          {"statSourceId": 1, "statSplitTypeId": 0, "scoringPeriodId": 0, "appliedTotal": 380.4}
        ]}}},
      {"lineupSlotId": 20, "playerPoolEntry": {"id": 4429795, "onTeamId": 1, "player": {
        "id": 4429795, "fullName": "Jahmyr Gibbs", "defaultPositionId": 2, "proTeamId": 8, "injuryStatus": "QUESTIONABLE",
        "stats": []}}},
      {"lineupSlotId": 16, "playerPoolEntry": {"id": -16002, "onTeamId": 1, "player": {
        "id": -16002, "fullName": "Bills D/ST", "defaultPositionId": 16, "proTeamId": 2, "stats": []}}}
    ]}},
    {"id": 2, "abbrev": "UGF", "location": "UGF", "nickname": "Pandas", "roster": {"entries": []}}
  ]
}`

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.ESPNAPI{
		Year:     "2025",
		LeagueID: "123",
		SWID:     "{ABC}",
		ESPNS2:   "s2cookie",
		BaseURL:  srv.URL,
	})
	return NewAPI(client)
}

func TestGetRoster(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2025/segments/0/leagues/123", r.URL.Path)
		assert.Equal(t, []string{"mRoster", "mTeam"}, r.URL.Query()["view"])
		assert.Equal(t, "3", r.URL.Query().Get("scoringPeriodId"))
		assert.Equal(t, "SWID={ABC}; espn_s2=s2cookie", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(rosterJSON))
	})

	roster, err := api.GetRoster(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, "Coach Dad", roster.TeamName)
	require.Len(t, roster.Players, 3)

	allen := roster.Players[0]
	assert.Equal(t, "Josh Allen", allen.Name)
	assert.Equal(t, models.QB, allen.Position)
	assert.Equal(t, "BUF", allen.ProTeam)
	assert.InDelta(t, 24.6, allen.Projected, 1e-9)
	assert.InDelta(t, 380.4, allen.ROS, 1e-9)
	assert.Equal(t, "QB", allen.LineupSlot)

	gibbs := roster.Players[1]
	assert.Equal(t, models.RB, gibbs.Position)
	assert.Zero(t, gibbs.Projected)
	assert.Equal(t, "Bench", gibbs.LineupSlot)
	assert.True(t, gibbs.IsInjured())

	assert.Equal(t, models.DST, roster.Players[2].Position)

	_, err = api.GetRoster(context.Background(), 9, 3)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestGetFreeAgents(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kona_player_info", r.URL.Query().Get("view"))

		var filter struct {
			Players struct {
				FilterStatus struct {
					Value []string `json:"value"`
				} `json:"filterStatus"`
				FilterSlotIDs struct {
					Value []int `json:"value"`
				} `json:"filterSlotIds"`
				Limit int `json:"limit"`
			} `json:"players"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get("x-fantasy-filter")), &filter))
		assert.Equal(t, []string{"FREEAGENT", "WAIVERS"}, filter.Players.FilterStatus.Value)
		assert.Equal(t, []int{4}, filter.Players.FilterSlotIDs.Value)
		assert.Equal(t, 10, filter.Players.Limit)

		_, _ = w.Write([]byte(`{"players": [
			{"id": 1, "status": "FREEAGENT", "player": {"id": 1, "fullName": "Rashid Shaheed", "defaultPositionId": 3, "proTeamId": 18,
			  "ownership": {"percentOwned": 41.5},
			  "stats": [{"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 5, "appliedTotal": 11.4}]}},
			{"id": 2, "status": "WAIVERS", "player": {"id": 2, "fullName": "Misfiled TE", "defaultPositionId": 4, "stats": []}}
		]}`))
	})

	players, err := api.GetFreeAgents(context.Background(), models.WR, 5, 10)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Rashid Shaheed", players[0].Name)
	assert.InDelta(t, 11.4, players[0].Projected, 1e-9)
	assert.InDelta(t, 41.5, players[0].PercentOwned, 1e-9)

	_, err = api.GetFreeAgents(context.Background(), models.Position("OL"), 5, 10)
	assert.Error(t, err)
}

func TestGetMatchup(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("view") {
		case "mScoreboard":
			assert.Contains(t, r.Header.Get("x-fantasy-filter"), `"filterMatchupPeriodIds":{"value":[6]}`)
			_, _ = w.Write([]byte(`{"schedule": [
				{"id": 1, "matchupPeriodId": 6, "winner": "UNDECIDED",
				 "home": {"teamId": 3, "totalPoints": 0},
				 "away": {"teamId": 4, "totalPoints": 0}},
				{"id": 2, "matchupPeriodId": 6, "winner": "AWAY",
				 "home": {"teamId": 2, "totalPoints": 101.456, "totalProjectedPointsLive": 110.2},
				 "away": {"teamId": 1, "totalPointsLive": 120.333, "totalProjectedPointsLive": 118.0}}
			]}`))
		default:
			_, _ = w.Write([]byte(rosterJSON))
		}
	})

	m, err := api.GetMatchup(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Equal(t, "Coach Dad", m.TeamName)
	assert.Equal(t, "UGF Pandas", m.OpponentName)
	assert.InDelta(t, 120.33, m.Score, 1e-9)
	assert.InDelta(t, 101.46, m.OpponentScore, 1e-9)
	assert.InDelta(t, 118.0, m.Projected, 1e-9)
	assert.True(t, m.IsCompleted)

	_, err = api.GetMatchup(context.Background(), 7, 6)
	assert.Error(t, err)
}

func TestClientErrors(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := api.GetLeagueMetadata(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 401")
}

func TestMatchTeam(t *testing.T) {
	teams := []models.TeamInfo{
		{ID: 1, Name: "Coach Dad", Abbreviation: "CD"},
		{ID: 2, Name: "Stairway to Evans", Abbreviation: "STE"},
		{ID: 3, Name: "Beyond Cursed", Abbreviation: "BC"},
	}

	team, err := matchTeam(teams, "ste")
	require.NoError(t, err)
	assert.Equal(t, 2, team.ID)

	team, err = matchTeam(teams, "Beyond Curse")
	require.NoError(t, err)
	assert.Equal(t, 3, team.ID)

	_, err = matchTeam(teams, "Nobody Here At All")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestGetRosters(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rosterJSON))
	})

	rosters, err := api.GetRosters(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rosters, 2)
	assert.Len(t, rosters[0].Players, 3)
	assert.Empty(t, rosters[1].Players)
	assert.Equal(t, 3, rosters[1].Week)
}
