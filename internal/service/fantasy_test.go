package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/perflog"
	"github.com/omarshaarawi/lineupcoach/internal/projection"
	"github.com/omarshaarawi/lineupcoach/internal/repository/memory"
	"github.com/omarshaarawi/lineupcoach/internal/scoring"
)

type fakeLeague struct {
	metadata   models.LeagueMetadata
	mine       models.TeamRoster
	others     []models.TeamRoster
	freeAgents map[models.Position][]models.Player
	faErrs     map[models.Position]error
	matchup    models.Matchup
	calls      map[string]int
}

func (f *fakeLeague) count(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeLeague) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	f.count("metadata")
	m := f.metadata
	m.LastUpdated = time.Now()
	return &m, nil
}

func (f *fakeLeague) GetMyRoster(ctx context.Context, week int) (models.TeamRoster, error) {
	f.count("roster")
	r := f.mine
	r.Week = week
	return r, nil
}

func (f *fakeLeague) GetRosters(ctx context.Context, week int) ([]models.TeamRoster, error) {
	f.count("rosters")
	return append([]models.TeamRoster{f.mine}, f.others...), nil
}

func (f *fakeLeague) GetFreeAgents(ctx context.Context, pos models.Position, week, limit int) ([]models.Player, error) {
	f.count("freeagents")
	if err := f.faErrs[pos]; err != nil {
		return nil, err
	}
	return f.freeAgents[pos], nil
}

func (f *fakeLeague) GetMyMatchup(ctx context.Context, week int) (models.Matchup, error) {
	f.count("matchup")
	m := f.matchup
	m.Week = week
	return m, nil
}

func (f *fakeLeague) FindTeam(ctx context.Context, name string) (models.TeamInfo, error) {
	for _, r := range append([]models.TeamRoster{f.mine}, f.others...) {
		if strings.EqualFold(r.TeamName, name) {
			return models.TeamInfo{ID: r.TeamID, Name: r.TeamName}, nil
		}
	}
	return models.TeamInfo{}, errors.New("team not found")
}

func starter(id int, name string, pos models.Position, proj, ros float64) models.Player {
	return models.Player{ID: id, Name: name, Position: pos, Projected: proj, ROS: ros, LineupSlot: string(pos)}
}

func newFakeLeague() *fakeLeague {
	meyers := starter(7, "Jakobi Meyers", models.WR, 9, 120)
	meyers.LineupSlot = "Bench"
	moss := starter(3, "Zack Moss", models.RB, 8, 90)
	moss.LineupSlot = "FLEX"

	return &fakeLeague{
		metadata: models.LeagueMetadata{LeagueID: 1, CurrentWeek: 5},
		mine: models.TeamRoster{
			TeamID:   1,
			TeamName: "Gridiron Gurus",
			Players: []models.Player{
				starter(10, "Josh Allen", models.QB, 20, 300),
				starter(1, "Bijan Robinson", models.RB, 15, 220),
				starter(2, "James Cook", models.RB, 12, 180),
				moss,
				starter(5, "CeeDee Lamb", models.WR, 14, 210),
				starter(6, "Chris Olave", models.WR, 11, 160),
				meyers,
				starter(8, "Sam LaPorta", models.TE, 7, 100),
				starter(9, "Bills D/ST", models.DST, 6, 80),
				starter(11, "Justin Tucker", models.K, 8, 110),
			},
		},
		others: []models.TeamRoster{{
			TeamID:   2,
			TeamName: "Touchdown Town",
			Players: []models.Player{
				starter(20, "Saquon Barkley", models.RB, 16, 230),
				starter(21, "Tyreek Hill", models.WR, 17, 250),
			},
		}},
		freeAgents: map[models.Position][]models.Player{
			models.RB: {{ID: 30, Name: "Chuba Hubbard", Position: models.RB, Projected: 10, ROS: 130}},
			models.WR: {{ID: 31, Name: "Puka Nacua", Position: models.WR, Projected: 8.5, ROS: 100}},
		},
		faErrs: map[models.Position]error{
			models.K: errors.New("boom"),
		},
		matchup: models.Matchup{TeamName: "Gridiron Gurus", OpponentName: "Touchdown Town", Score: 97.3, OpponentScore: 88.1},
	}
}

func newTestService(t *testing.T, league *fakeLeague) *FantasyService {
	t.Helper()
	return NewFantasyService(
		league,
		memory.NewRepository(time.Hour),
		projection.NewResolver(nil, nil, nil),
		perflog.New(filepath.Join(t.TempDir(), "performance.csv")),
		Options{Mode: projection.PrimaryOnly, WaiverThreshold: 3},
	)
}

func TestOptimalLineup(t *testing.T) {
	league := newFakeLeague()
	svc := newTestService(t, league)

	report, err := svc.OptimalLineup(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Week)
	assert.Equal(t, "Gridiron Gurus", report.TeamName)
	assert.Equal(t, "espn", report.Mode)
	assert.InDelta(t, 102.0, report.Total, 1e-9)
	assert.InDelta(t, 101.0, report.ESPNTotal, 1e-9)
	require.Len(t, report.Lineup.Slot(models.FLEX), 1)
	assert.Equal(t, "Jakobi Meyers", report.Lineup.Slot(models.FLEX)[0].Name)
	require.Len(t, report.Bench, 1)
	assert.Equal(t, "Zack Moss", report.Bench[0].Name)
	assert.Empty(t, report.Unassigned)

	// metadata is cached after the first call
	_, err = svc.OptimalLineup(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, league.calls["metadata"])
}

func TestOptimalLineupReportsOpenSlots(t *testing.T) {
	league := newFakeLeague()
	svc := newTestService(t, league)
	svc.SetSlots(models.SlotRequirements{{Slot: models.QB, Count: 2}, {Slot: models.K, Count: 1}})

	report, err := svc.OptimalLineup(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Week)
	assert.Equal(t, []models.SlotRequirement{{Slot: models.QB, Count: 1}}, report.Unassigned)
	assert.InDelta(t, 28.0, report.Total, 1e-9)
}

func TestOptimalLineupFlagsInjuredStarters(t *testing.T) {
	league := newFakeLeague()
	league.mine.Players[0].InjuryStatus = "QUESTIONABLE"
	svc := newTestService(t, league)

	report, err := svc.OptimalLineup(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, report.Injured, 1)
	assert.Equal(t, "Josh Allen", report.Injured[0].Name)

	text, err := svc.Injuries(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Josh Allen - QUESTIONABLE")
}

func TestRankFreeAgents(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	report, err := svc.RankFreeAgents(context.Background(), "", -1)
	require.NoError(t, err)

	assert.Equal(t, 3.0, report.Threshold)
	assert.Equal(t, []string{"K free agents unavailable."}, report.Notes)
	require.Len(t, report.Verdicts, 2)

	top := report.Verdicts[0]
	assert.Equal(t, "Chuba Hubbard", top.Candidate.Name)
	require.NotNil(t, top.Baseline)
	assert.Equal(t, "Jakobi Meyers", top.Baseline.Name)
	assert.Equal(t, models.FLEX, top.BaselineSlot)
	assert.True(t, top.WouldStart)
	assert.True(t, top.WorthAdding)
	assert.Equal(t, scoring.LabelWorthAdding, top.Label)
	require.NotNil(t, top.SuggestedDrop)
	assert.Equal(t, "Zack Moss", top.SuggestedDrop.Name)

	wr := report.Verdicts[1]
	assert.Equal(t, "Puka Nacua", wr.Candidate.Name)
	assert.False(t, wr.WouldStart)
	assert.Equal(t, scoring.LabelPass, wr.Label)
}

func TestRankFreeAgentsSinglePosition(t *testing.T) {
	league := newFakeLeague()
	svc := newTestService(t, league)

	report, err := svc.RankFreeAgents(context.Background(), models.WR, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 1, league.calls["freeagents"])
	require.Len(t, report.Verdicts, 1)
	assert.Empty(t, report.Notes)
}

func TestCompareTrade(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	res, err := svc.CompareTrade(context.Background(), []string{"olave"}, []string{"tyreek"})
	require.NoError(t, err)

	require.Len(t, res.Give.Players, 1)
	assert.Equal(t, "Chris Olave", res.Give.Players[0].Name)
	require.Len(t, res.Get.Players, 1)
	assert.Equal(t, "Tyreek Hill", res.Get.Players[0].Name)
	assert.InDelta(t, 6.0, res.NetWeekly, 1e-9)
	assert.InDelta(t, 90.0, res.NetROS, 1e-9)
	assert.InDelta(t, -6.0, res.PartnerWeekly, 1e-9)
	assert.InDelta(t, 102.0, res.LineupBefore, 1e-9)
	assert.InDelta(t, 108.0, res.LineupAfter, 1e-9)
}

func TestCompareTradeUnknownPlayer(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	_, err := svc.CompareTrade(context.Background(), []string{"zzzzzzzz"}, []string{"tyreek"})
	assert.ErrorContains(t, err, "no player found")

	// players on the manager's own roster cannot be received
	_, err = svc.CompareTrade(context.Background(), []string{"olave"}, []string{"Josh Allen"})
	assert.Error(t, err)
}

func TestCompareTradeRejectsRepeatedPlayer(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	_, err := svc.CompareTrade(context.Background(), []string{"Chris Olave"}, []string{"Tyreek Hill", "tyreek"})
	assert.ErrorContains(t, err, "Tyreek Hill is listed more than once")

	_, err = svc.CompareTrade(context.Background(), []string{"olave", "Chris Olave"}, []string{"tyreek"})
	assert.ErrorContains(t, err, "Chris Olave is listed more than once")
}

func TestSimulateSwap(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	w, err := svc.SimulateSwap(context.Background(), "meyers", "tyreek")
	require.NoError(t, err)

	assert.Equal(t, "Jakobi Meyers", w.Out.Name)
	assert.Equal(t, "Tyreek Hill", w.In.Name)
	assert.InDelta(t, 102.0, w.TotalBefore, 1e-9)
	assert.InDelta(t, 110.0, w.TotalAfter, 1e-9)
	assert.InDelta(t, 8.0, w.Delta, 1e-9)

	text := formatWhatIf(w)
	assert.Contains(t, text, "Tyreek Hill would start.")
}

func TestSimulateSwapPrefersFreeAgents(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	w, err := svc.SimulateSwap(context.Background(), "Jakobi Meyers", "Puka Nacua")
	require.NoError(t, err)

	assert.Equal(t, "Puka Nacua", w.In.Name)
	assert.InDelta(t, -0.5, w.Delta, 1e-9)
}

func TestSimulateSwapIgnoresOwnRoster(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	_, err := svc.SimulateSwap(context.Background(), "Zack Moss", "CeeDee Lamb")
	assert.Error(t, err)
}

func TestRecordPreviousWeekInWeekOne(t *testing.T) {
	league := newFakeLeague()
	league.metadata.CurrentWeek = 1
	svc := newTestService(t, league)
	ctx := context.Background()

	_, err := svc.RecordPreviousWeek(ctx)
	assert.ErrorIs(t, err, ErrNoPreviousWeek)

	text, err := svc.LogPreviousWeek(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	entries, err := svc.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, league.calls["matchup"])
}

func TestRecordResultAndHistory(t *testing.T) {
	svc := newTestService(t, newFakeLeague())
	ctx := context.Background()

	entry, err := svc.RecordResult(ctx, 0, 110.5)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Week)
	assert.InDelta(t, 102.0, entry.ProjectedOptimal, 1e-9)
	assert.InDelta(t, 101.0, entry.ProjectedESPN, 1e-9)

	prev, err := svc.RecordPreviousWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, prev.Week)
	assert.InDelta(t, 97.3, prev.Actual, 1e-9)

	entries, err := svc.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 5, entries[0].Week)
	assert.Equal(t, 4, entries[1].Week)

	history, err := svc.History()
	require.NoError(t, err)
	assert.Contains(t, history, "Week 5: 110.50 actual / 102.00 projected (+8.50)")
	assert.Contains(t, history, "over 2 weeks")
}

func TestHistoryEmpty(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	history, err := svc.History()
	require.NoError(t, err)
	assert.Contains(t, history, "No weeks logged yet")
}

func TestSettings(t *testing.T) {
	svc := newTestService(t, newFakeLeague())
	svc.SetMode(projection.SecondaryOnly)

	text := svc.Settings()
	assert.Contains(t, text, "`fantasypros`")
	assert.Contains(t, text, lineup.FormatSlots(lineup.DefaultSlots()))
	assert.Contains(t, text, "3.0 pts")
	assert.Contains(t, text, "performance.csv")
}

func TestRefreshDropsCachedMetadata(t *testing.T) {
	league := newFakeLeague()
	svc := newTestService(t, league)

	_, err := svc.GetCurrentWeek(context.Background())
	require.NoError(t, err)
	svc.Refresh()
	_, err = svc.GetCurrentWeek(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, league.calls["metadata"])
}

func TestLineupMarkdown(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	text, err := svc.Lineup(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Gridiron Gurus - Week 5 Optimal Lineup")
	assert.Contains(t, text, "*FLEX*: WR Jakobi Meyers - 9.0 pts")
	assert.Contains(t, text, "Projected: *102.00* pts (current ESPN lineup 101.00, +1.00)")
}

func TestTeamLineup(t *testing.T) {
	svc := newTestService(t, newFakeLeague())

	text, err := svc.TeamLineup(context.Background(), "touchdown town")
	require.NoError(t, err)
	assert.Contains(t, text, "Touchdown Town - Week 5 Optimal Lineup")
	assert.Contains(t, text, "*RB*: RB Saquon Barkley - 16.0 pts")
	assert.Contains(t, text, "*QB*: _empty (1 open)_")

	_, err = svc.TeamLineup(context.Background(), "nobody")
	assert.Error(t, err)
}
