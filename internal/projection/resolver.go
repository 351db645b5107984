// Package projection resolves weekly and rest-of-season point estimates for a
// player from the league's own projections and a scraped projections table.
package projection

import (
	"context"
	"log/slog"
	"math"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

const (
	SourceESPN        = "espn"
	SourceFantasyPros = "fantasypros"
	SourceNone        = "none"
)

// PrimarySource yields the league's projections for a player.
type PrimarySource interface {
	Projection(ctx context.Context, p models.Player) (week, ros float64, err error)
}

// SecondarySource yields a scraped projections table for one position.
type SecondarySource interface {
	Table(ctx context.Context, pos models.Position, view models.ProjectionView) ([]models.TableRow, error)
}

// PlayerRecords reads the projections already attached to the player by the
// league roster fetch.
type PlayerRecords struct{}

// WeeklySource is a SecondarySource that can serve a specific week's table.
// Week 0 is the source's current week.
type WeeklySource interface {
	TableForWeek(ctx context.Context, pos models.Position, view models.ProjectionView, week int) ([]models.TableRow, error)
}

func (PlayerRecords) Projection(_ context.Context, p models.Player) (float64, float64, error) {
	return p.Projected, p.ROS, nil
}

type Resolver struct {
	primary   PrimarySource
	secondary SecondarySource
	matcher   Matcher
}

func NewResolver(primary PrimarySource, secondary SecondarySource, matcher Matcher) *Resolver {
	if primary == nil {
		primary = PlayerRecords{}
	}
	if matcher == nil {
		matcher = FirstTokenMatcher{}
	}
	return &Resolver{primary: primary, secondary: secondary, matcher: matcher}
}

// ProjectionFor returns the this-week estimate for p under mode. Lookup
// failures resolve to 0.
func (r *Resolver) ProjectionFor(ctx context.Context, p models.Player, mode Mode) float64 {
	return r.Resolve(ctx, p, mode).Week
}

// Resolve applies mode independently to the weekly and rest-of-season values,
// using the secondary source's current week.
func (r *Resolver) Resolve(ctx context.Context, p models.Player, mode Mode) models.Estimate {
	return r.ResolveWeek(ctx, p, mode, 0)
}

// ResolveWeek is Resolve for a given scoring week.
func (r *Resolver) ResolveWeek(ctx context.Context, p models.Player, mode Mode, week int) models.Estimate {
	est := models.Estimate{Source: SourceNone}

	var primaryWeek, primaryROS float64
	if mode != SecondaryOnly {
		week, ros, err := r.primary.Projection(ctx, p)
		if err != nil {
			slog.Debug("Primary projection unavailable", "player", p.Name, "error", err)
		} else {
			primaryWeek, primaryROS = week, ros
		}
	}

	switch mode {
	case PrimaryOnly:
		est.Week, est.ROS = clean(primaryWeek), clean(primaryROS)
		if usable(primaryWeek) {
			est.Source = SourceESPN
		}
	case SecondaryOnly:
		est.Week = r.lookup(ctx, p, models.ViewWeekly, week)
		est.ROS = r.lookup(ctx, p, models.ViewSeason, week)
		if usable(est.Week) {
			est.Source = SourceFantasyPros
		}
	default:
		if usable(primaryWeek) {
			est.Week = primaryWeek
			est.Source = SourceESPN
		} else if v := r.lookup(ctx, p, models.ViewWeekly, week); usable(v) {
			est.Week = v
			est.Source = SourceFantasyPros
		}
		if usable(primaryROS) {
			est.ROS = primaryROS
		} else {
			est.ROS = r.lookup(ctx, p, models.ViewSeason, week)
		}
	}

	return est
}

// ResolveRoster returns a copy of roster with Projected and ROS replaced by
// the resolved estimates.
func (r *Resolver) ResolveRoster(ctx context.Context, roster []models.Player, mode Mode) []models.Player {
	return r.ResolveRosterWeek(ctx, roster, mode, 0)
}

// ResolveRosterWeek is ResolveRoster for a given scoring week.
func (r *Resolver) ResolveRosterWeek(ctx context.Context, roster []models.Player, mode Mode, week int) []models.Player {
	out := make([]models.Player, len(roster))
	for i, p := range roster {
		est := r.ResolveWeek(ctx, p, mode, week)
		p.Projected = est.Week
		p.ROS = est.ROS
		out[i] = p
	}
	return out
}

func (r *Resolver) lookup(ctx context.Context, p models.Player, view models.ProjectionView, week int) float64 {
	if r.secondary == nil || !p.Position.Valid() {
		return 0
	}
	var (
		rows []models.TableRow
		err  error
	)
	if ws, ok := r.secondary.(WeeklySource); ok && week > 0 && view == models.ViewWeekly {
		rows, err = ws.TableForWeek(ctx, p.Position, view, week)
	} else {
		rows, err = r.secondary.Table(ctx, p.Position, view)
	}
	if err != nil {
		slog.Debug("Secondary projection table unavailable",
			"position", p.Position, "view", view, "error", err)
		return 0
	}
	row, ok := r.matcher.Match(p.Name, rows)
	if !ok {
		return 0
	}
	return clean(row.FPTS)
}

func usable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
