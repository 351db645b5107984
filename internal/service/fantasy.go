package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/perflog"
	"github.com/omarshaarawi/lineupcoach/internal/projection"
	"github.com/omarshaarawi/lineupcoach/internal/repository/memory"
	"github.com/omarshaarawi/lineupcoach/internal/scoring"
)

// LeagueAPI is the subset of league reads the service needs.
type LeagueAPI interface {
	GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error)
	GetMyRoster(ctx context.Context, week int) (models.TeamRoster, error)
	GetRosters(ctx context.Context, week int) ([]models.TeamRoster, error)
	GetFreeAgents(ctx context.Context, pos models.Position, week, limit int) ([]models.Player, error)
	GetMyMatchup(ctx context.Context, week int) (models.Matchup, error)
	FindTeam(ctx context.Context, name string) (models.TeamInfo, error)
}

type Options struct {
	Mode            projection.Mode
	Slots           models.SlotRequirements
	WaiverThreshold float64
	FreeAgentLimit  int
}

type FantasyService struct {
	api      LeagueAPI
	repo     *memory.Repository
	resolver *projection.Resolver
	perf     *perflog.Log

	mu        sync.RWMutex
	mode      projection.Mode
	slots     models.SlotRequirements
	threshold float64
	faLimit   int
}

func NewFantasyService(api LeagueAPI, repo *memory.Repository, resolver *projection.Resolver, perf *perflog.Log, opts Options) *FantasyService {
	if len(opts.Slots) == 0 {
		opts.Slots = lineup.DefaultSlots()
	}
	if opts.FreeAgentLimit <= 0 {
		opts.FreeAgentLimit = 25
	}
	return &FantasyService{
		api:       api,
		repo:      repo,
		resolver:  resolver,
		perf:      perf,
		mode:      opts.Mode,
		slots:     opts.Slots,
		threshold: opts.WaiverThreshold,
		faLimit:   opts.FreeAgentLimit,
	}
}

func (s *FantasyService) Mode() projection.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *FantasyService) SetMode(mode projection.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *FantasyService) Slots() models.SlotRequirements {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(models.SlotRequirements(nil), s.slots...)
}

func (s *FantasyService) SetSlots(slots models.SlotRequirements) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
}

func (s *FantasyService) Threshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

// Refresh drops cached league metadata and projection tables.
func (s *FantasyService) Refresh() {
	s.repo.Purge()
	slog.Info("Cleared cached league data")
}

func (s *FantasyService) GetCurrentWeek(ctx context.Context) (int, error) {
	metadata, err := s.getLeagueMetadata(ctx)
	if err != nil {
		return 0, err
	}

	slog.Debug("Current week", "week", metadata.CurrentWeek)
	return metadata.CurrentWeek, nil
}

func (s *FantasyService) getLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	metadata := s.repo.GetMetadata()
	if metadata == nil || time.Since(metadata.LastUpdated) > 24*time.Hour {
		newMetadata, err := s.api.GetLeagueMetadata(ctx)
		if err != nil {
			return nil, err
		}
		s.repo.SaveMetadata(newMetadata)
		return newMetadata, nil
	}
	return metadata, nil
}

func (s *FantasyService) resolveWeek(ctx context.Context, week int) (int, error) {
	if week > 0 {
		return week, nil
	}
	current, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return 0, fmt.Errorf("error fetching current week: %w", err)
	}
	return current, nil
}

// LineupReport is the optimizer output for the manager's team.
type LineupReport struct {
	TeamID     int                      `json:"team_id"`
	TeamName   string                   `json:"team_name"`
	Week       int                      `json:"week"`
	Mode       string                   `json:"mode"`
	Slots      models.SlotRequirements  `json:"slots"`
	Lineup     models.Lineup            `json:"lineup"`
	Bench      []models.Player          `json:"bench"`
	Total      float64                  `json:"total"`
	TotalROS   float64                  `json:"total_ros"`
	ESPNTotal  float64                  `json:"espn_total"`
	Injured    []models.Player          `json:"injured,omitempty"`
	Unassigned []models.SlotRequirement `json:"unassigned,omitempty"`
}

func (s *FantasyService) OptimalLineup(ctx context.Context, week int) (LineupReport, error) {
	week, err := s.resolveWeek(ctx, week)
	if err != nil {
		return LineupReport{}, err
	}

	roster, err := s.api.GetMyRoster(ctx, week)
	if err != nil {
		return LineupReport{}, fmt.Errorf("error fetching roster: %w", err)
	}
	return s.buildReport(ctx, roster, week), nil
}

func (s *FantasyService) buildReport(ctx context.Context, roster models.TeamRoster, week int) LineupReport {
	mode := s.Mode()
	slots := s.Slots()
	players := s.resolver.ResolveRosterWeek(ctx, roster.Players, mode, week)
	lu, bench := lineup.Optimize(players, slots)

	report := LineupReport{
		TeamID:    roster.TeamID,
		TeamName:  roster.TeamName,
		Week:      week,
		Mode:      mode.String(),
		Slots:     slots,
		Lineup:    lu,
		Bench:     bench,
		Total:     lu.Total(),
		TotalROS:  lu.TotalROS(),
		ESPNTotal: currentLineupTotal(roster.Players),
	}
	for _, p := range lu.Starters() {
		if p.IsInjured() {
			report.Injured = append(report.Injured, p)
		}
	}
	for _, req := range slots {
		if missing := req.Count - len(lu.Slot(req.Slot)); missing > 0 {
			report.Unassigned = append(report.Unassigned, models.SlotRequirement{Slot: req.Slot, Count: missing})
		}
	}
	return report
}

// currentLineupTotal sums ESPN's projection for the lineup as currently set
// in the league.
func currentLineupTotal(players []models.Player) float64 {
	total := 0.0
	for _, p := range players {
		if p.LineupSlot != "" && p.LineupSlot != "Bench" && p.LineupSlot != "IR" && p.LineupSlot != "Unknown" {
			total += p.Projected
		}
	}
	return total
}

func (s *FantasyService) Lineup(ctx context.Context) (string, error) {
	report, err := s.OptimalLineup(ctx, 0)
	if err != nil {
		return "", err
	}
	return formatLineup(report), nil
}

// TeamLineup optimizes another team's roster, found by a fuzzy team name.
func (s *FantasyService) TeamLineup(ctx context.Context, name string) (string, error) {
	week, err := s.resolveWeek(ctx, 0)
	if err != nil {
		return "", err
	}
	team, err := s.api.FindTeam(ctx, name)
	if err != nil {
		return "", err
	}
	rosters, err := s.api.GetRosters(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching rosters: %w", err)
	}
	for _, r := range rosters {
		if r.TeamID == team.ID {
			return formatLineup(s.buildReport(ctx, r, week)), nil
		}
	}
	return "", fmt.Errorf("no roster found for team '%s'", team.Name)
}

func (s *FantasyService) Injuries(ctx context.Context) (string, error) {
	report, err := s.OptimalLineup(ctx, 0)
	if err != nil {
		return "", err
	}
	return formatInjuries(report), nil
}

func (s *FantasyService) Matchup(ctx context.Context) (string, error) {
	week, err := s.resolveWeek(ctx, 0)
	if err != nil {
		return "", err
	}
	m, err := s.api.GetMyMatchup(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching matchup: %w", err)
	}

	note := ""
	report, err := s.OptimalLineup(ctx, week)
	if err != nil {
		slog.Warn("Optimal lineup unavailable for matchup", "error", err)
		note = "Optimal lineup projection unavailable."
	}
	return formatMatchup(m, report, note), nil
}

// CompareTrade looks up give on the manager's roster and get on the other
// rosters in the league.
func (s *FantasyService) CompareTrade(ctx context.Context, give, get []string) (scoring.TradeResult, error) {
	week, err := s.resolveWeek(ctx, 0)
	if err != nil {
		return scoring.TradeResult{}, err
	}
	rosters, err := s.api.GetRosters(ctx, week)
	if err != nil {
		return scoring.TradeResult{}, fmt.Errorf("error fetching rosters: %w", err)
	}
	mine, err := s.api.GetMyRoster(ctx, week)
	if err != nil {
		return scoring.TradeResult{}, fmt.Errorf("error fetching roster: %w", err)
	}

	var others []models.Player
	for _, r := range rosters {
		if r.TeamID != mine.TeamID {
			others = append(others, r.Players...)
		}
	}

	mode := s.Mode()
	myPlayers := s.resolver.ResolveRoster(ctx, mine.Players, mode)
	otherPlayers := s.resolver.ResolveRoster(ctx, others, mode)

	givePlayers, err := findPlayers(myPlayers, give)
	if err != nil {
		return scoring.TradeResult{}, err
	}
	getPlayers, err := findPlayers(otherPlayers, get)
	if err != nil {
		return scoring.TradeResult{}, err
	}

	return scoring.CompareTrade(givePlayers, getPlayers, myPlayers, s.Slots()), nil
}

func (s *FantasyService) Trade(ctx context.Context, give, get []string) (string, error) {
	res, err := s.CompareTrade(ctx, give, get)
	if err != nil {
		return "", err
	}
	return formatTrade(res), nil
}

// FreeAgentReport holds ranked verdicts plus informational notes for
// positions that could not be fetched.
type FreeAgentReport struct {
	Week      int               `json:"week"`
	Threshold float64           `json:"threshold"`
	Verdicts  []scoring.Verdict `json:"verdicts"`
	Notes     []string          `json:"notes,omitempty"`
}

// RankFreeAgents scores free agents at pos, or at every position when pos is
// empty. A negative threshold uses the configured default.
func (s *FantasyService) RankFreeAgents(ctx context.Context, pos models.Position, threshold float64) (FreeAgentReport, error) {
	report, err := s.OptimalLineup(ctx, 0)
	if err != nil {
		return FreeAgentReport{}, err
	}
	if threshold < 0 {
		threshold = s.Threshold()
	}

	positions := models.Positions
	if pos != "" {
		positions = []models.Position{pos}
	}

	out := FreeAgentReport{Week: report.Week, Threshold: threshold}
	var candidates []models.Player
	for _, p := range positions {
		agents, err := s.api.GetFreeAgents(ctx, p, report.Week, s.faLimit)
		if err != nil {
			slog.Warn("Free agents unavailable", "position", p, "error", err)
			out.Notes = append(out.Notes, fmt.Sprintf("%s free agents unavailable.", p))
			continue
		}
		candidates = append(candidates, agents...)
	}

	candidates = s.resolver.ResolveRosterWeek(ctx, candidates, s.Mode(), report.Week)
	out.Verdicts = scoring.RankCandidates(candidates, report.Lineup, report.Bench, scoring.Options{
		Threshold: threshold,
		Scarcity:  scoring.DefaultScarcity,
	})
	return out, nil
}

func (s *FantasyService) FreeAgents(ctx context.Context, pos models.Position, threshold float64) (string, error) {
	report, err := s.RankFreeAgents(ctx, pos, threshold)
	if err != nil {
		return "", err
	}
	return formatFreeAgents(report, pos, 10), nil
}

// SimulateSwap benches out for in, where in is searched among free agents at
// out's position first and then on other rosters.
func (s *FantasyService) SimulateSwap(ctx context.Context, outName, inName string) (scoring.WhatIf, error) {
	report, err := s.OptimalLineup(ctx, 0)
	if err != nil {
		return scoring.WhatIf{}, err
	}
	roster := append(report.Lineup.Starters(), report.Bench...)

	out, err := findPlayer(roster, outName)
	if err != nil {
		return scoring.WhatIf{}, err
	}

	pool, err := s.api.GetFreeAgents(ctx, out.Position, report.Week, s.faLimit)
	if err != nil {
		slog.Warn("Free agents unavailable", "position", out.Position, "error", err)
	}
	in, err := findPlayer(pool, inName)
	if err != nil {
		rosters, rerr := s.api.GetRosters(ctx, report.Week)
		if rerr != nil {
			return scoring.WhatIf{}, fmt.Errorf("error fetching rosters: %w", rerr)
		}
		var everyone []models.Player
		for _, r := range rosters {
			if r.TeamID != report.TeamID {
				everyone = append(everyone, r.Players...)
			}
		}
		if in, err = findPlayer(everyone, inName); err != nil {
			return scoring.WhatIf{}, err
		}
	}
	in = s.resolver.ResolveRosterWeek(ctx, []models.Player{in}, s.Mode(), report.Week)[0]

	return scoring.SimulateSwap(roster, s.Slots(), out, in)
}

func (s *FantasyService) WhatIf(ctx context.Context, outName, inName string) (string, error) {
	w, err := s.SimulateSwap(ctx, outName, inName)
	if err != nil {
		return "", err
	}
	return formatWhatIf(w), nil
}

// RecordResult appends the week's projected totals and the actual score to
// the performance log. A zero week logs the current week.
func (s *FantasyService) RecordResult(ctx context.Context, week int, actual float64) (models.LogEntry, error) {
	report, err := s.OptimalLineup(ctx, week)
	if err != nil {
		return models.LogEntry{}, err
	}
	entry := models.LogEntry{
		Week:             report.Week,
		Team:             report.TeamName,
		ProjectedESPN:    report.ESPNTotal,
		ProjectedOptimal: report.Total,
		Actual:           actual,
	}
	if err := s.perf.Append(entry); err != nil {
		return models.LogEntry{}, err
	}
	slog.Info("Logged weekly result", "week", entry.Week, "actual", actual, "projected", entry.ProjectedOptimal)
	return entry, nil
}

// ErrNoPreviousWeek is returned by RecordPreviousWeek during week 1.
var ErrNoPreviousWeek = errors.New("no completed week to log")

// RecordPreviousWeek logs last week's actual score from the league matchup.
func (s *FantasyService) RecordPreviousWeek(ctx context.Context) (models.LogEntry, error) {
	week, err := s.resolveWeek(ctx, 0)
	if err != nil {
		return models.LogEntry{}, err
	}
	if week <= 1 {
		return models.LogEntry{}, ErrNoPreviousWeek
	}
	week--
	m, err := s.api.GetMyMatchup(ctx, week)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("error fetching matchup: %w", err)
	}
	return s.RecordResult(ctx, week, m.Score)
}

// LogPreviousWeek returns an empty message when there is no previous week.
func (s *FantasyService) LogPreviousWeek(ctx context.Context) (string, error) {
	entry, err := s.RecordPreviousWeek(ctx)
	if errors.Is(err, ErrNoPreviousWeek) {
		slog.Info("Skipping weekly log", "reason", err)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return formatLogged(entry), nil
}

func (s *FantasyService) LogResult(ctx context.Context, week int, actual float64) (string, error) {
	entry, err := s.RecordResult(ctx, week, actual)
	if err != nil {
		return "", err
	}
	return formatLogged(entry), nil
}

func (s *FantasyService) Entries() ([]models.LogEntry, error) {
	return s.perf.Entries()
}

func (s *FantasyService) History() (string, error) {
	entries, err := s.perf.Entries()
	if err != nil {
		return "", fmt.Errorf("error reading performance log: %w", err)
	}
	return formatHistory(entries, perflog.Summarize(entries)), nil
}

func (s *FantasyService) Settings() string {
	var sb strings.Builder
	sb.WriteString("⚙️ *Settings*\n\n")
	sb.WriteString(fmt.Sprintf("Projection source: `%s`\n", s.Mode()))
	sb.WriteString(fmt.Sprintf("Lineup slots: `%s`\n", lineup.FormatSlots(s.Slots())))
	sb.WriteString(fmt.Sprintf("Waiver threshold: %.1f pts\n", s.Threshold()))
	if s.perf != nil {
		sb.WriteString(fmt.Sprintf("Performance log: `%s`\n", s.perf.Path()))
	}
	return sb.String()
}
