package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/scoring"
)

var injuryAbbr = map[string]string{
	"QUESTIONABLE":   "Q",
	"DOUBTFUL":       "D",
	"OUT":            "O",
	"INJURY_RESERVE": "IR",
	"SUSPENSION":     "SSPD",
}

func formatPlayer(p models.Player) string {
	base := fmt.Sprintf("%s %s - %.1f pts", p.Position, p.Name, p.Projected)
	if p.IsInjured() {
		abbr, ok := injuryAbbr[p.InjuryStatus]
		if !ok {
			abbr = p.InjuryStatus
		}
		return fmt.Sprintf("⚠️ %s (%s)", base, abbr)
	}
	return base
}

func formatLineup(r LineupReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *%s - Week %d Optimal Lineup*\n", r.TeamName, r.Week))
	sb.WriteString(fmt.Sprintf("_Source: %s_\n\n", r.Mode))

	for _, a := range r.Lineup {
		for _, p := range a.Players {
			sb.WriteString(fmt.Sprintf("▫️ *%s*: %s\n", a.Slot, formatPlayer(p)))
		}
	}
	for _, u := range r.Unassigned {
		sb.WriteString(fmt.Sprintf("▫️ *%s*: _empty (%d open)_\n", u.Slot, u.Count))
	}

	sb.WriteString(fmt.Sprintf("\nProjected: *%.2f* pts", r.Total))
	if r.ESPNTotal > 0 {
		sb.WriteString(fmt.Sprintf(" (current ESPN lineup %.2f, %+.2f)", r.ESPNTotal, r.Total-r.ESPNTotal))
	}
	sb.WriteString("\n")

	if len(r.Bench) > 0 {
		sb.WriteString("\n*Bench:*\n")
		for _, p := range r.Bench {
			sb.WriteString(fmt.Sprintf("▫️ %s\n", formatPlayer(p)))
		}
	}
	return sb.String()
}

func formatInjuries(r LineupReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚑 *Week %d Starters to Monitor*\n\n", r.Week))
	if len(r.Injured) == 0 {
		sb.WriteString("No injured starters in the optimal lineup.")
		return sb.String()
	}
	for _, p := range r.Injured {
		sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", p.Position, p.Name, p.InjuryStatus))
	}
	return sb.String()
}

func formatMatchup(m models.Matchup, r LineupReport, note string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Matchup*\n\n", m.Week))
	sb.WriteString(fmt.Sprintf("*%s* vs *%s*\n", m.TeamName, m.OpponentName))
	sb.WriteString(fmt.Sprintf("Projected: %.2f - %.2f\n", m.Projected, m.OpponentProject))
	if m.Score > 0 || m.OpponentScore > 0 {
		sb.WriteString(fmt.Sprintf("Current: %.2f - %.2f", m.Score, m.OpponentScore))
		if m.IsCompleted {
			sb.WriteString(" (Final)")
		}
		sb.WriteString("\n")
	}
	if note != "" {
		sb.WriteString("\n" + note + "\n")
	} else if r.Total > 0 {
		sb.WriteString(fmt.Sprintf("\nOptimal lineup projects %.2f (%+.2f vs opponent)\n", r.Total, r.Total-m.OpponentProject))
	}
	return sb.String()
}

func formatTrade(res scoring.TradeResult) string {
	var sb strings.Builder
	sb.WriteString("🔄 *Trade Analyzer*\n\n")

	writePkg := func(label string, pkg scoring.Package) {
		sb.WriteString(fmt.Sprintf("*%s* (%.1f wk / %.1f ROS)\n", label, pkg.Weekly, pkg.ROS))
		for _, p := range pkg.Players {
			sb.WriteString(fmt.Sprintf("  • %s %s - %.1f / %.1f\n", p.Position, p.Name, p.Projected, p.ROS))
		}
	}
	writePkg("You give", res.Give)
	writePkg("You get", res.Get)

	sb.WriteString(fmt.Sprintf("\nNet for you: %+.1f this week, %+.1f ROS\n", res.NetWeekly, res.NetROS))
	sb.WriteString(fmt.Sprintf("Net for them: %+.1f this week, %+.1f ROS\n", res.PartnerWeekly, res.PartnerROS))
	sb.WriteString(fmt.Sprintf("Starting lineup: %.1f → %.1f (%+.1f)\n", res.LineupBefore, res.LineupAfter, res.LineupDelta))

	switch {
	case res.LineupDelta > 0 && res.NetROS >= 0:
		sb.WriteString("\nVerdict: *accept*")
	case res.LineupDelta < 0 && res.NetROS < 0:
		sb.WriteString("\nVerdict: *decline*")
	default:
		sb.WriteString("\nVerdict: *depends on your needs*")
	}
	return sb.String()
}

func formatFreeAgents(r FreeAgentReport, pos models.Position, limit int) string {
	var sb strings.Builder
	title := "Free Agents"
	if pos != "" {
		title = fmt.Sprintf("%s Free Agents", pos)
	}
	sb.WriteString(fmt.Sprintf("🧲 *Week %d %s* (threshold %.1f)\n\n", r.Week, title, r.Threshold))

	if len(r.Verdicts) == 0 {
		sb.WriteString("No free agents found.\n")
	}
	for i, v := range r.Verdicts {
		if i >= limit {
			break
		}
		mark := "▫️"
		if v.WorthAdding {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s - %.1f wk (%+.1f), %.1f ROS (%+.1f)",
			mark, v.Candidate.Position, v.Candidate.Name,
			v.Candidate.Projected, v.WeeklyDelta, v.Candidate.ROS, v.ROSDelta))
		if v.WouldStart {
			sb.WriteString(" *starts*")
		}
		if v.Baseline != nil {
			sb.WriteString(fmt.Sprintf(" over %s", v.Baseline.Name))
		}
		sb.WriteString(fmt.Sprintf(" → %s\n", v.Label))
	}

	if len(r.Verdicts) > 0 && r.Verdicts[0].SuggestedDrop != nil {
		sb.WriteString(fmt.Sprintf("\nSuggested drop: %s\n", formatPlayer(*r.Verdicts[0].SuggestedDrop)))
	}
	for _, note := range r.Notes {
		sb.WriteString(fmt.Sprintf("\nℹ️ %s", note))
	}
	return sb.String()
}

func formatWhatIf(w scoring.WhatIf) string {
	var sb strings.Builder
	sb.WriteString("🔮 *What If*\n\n")
	sb.WriteString(fmt.Sprintf("Out: %s\nIn: %s\n\n", formatPlayer(w.Out), formatPlayer(w.In)))
	sb.WriteString(fmt.Sprintf("Lineup: %.2f → %.2f (%+.2f)\n", w.TotalBefore, w.TotalAfter, w.Delta))

	started := false
	for _, p := range w.After.Starters() {
		if p.Name == w.In.Name {
			started = true
			break
		}
	}
	if started {
		sb.WriteString(fmt.Sprintf("%s would start.\n", w.In.Name))
	} else {
		sb.WriteString(fmt.Sprintf("%s would ride the bench.\n", w.In.Name))
	}
	return sb.String()
}

func formatHistory(entries []models.LogEntry, summary models.LogSummary) string {
	var sb strings.Builder
	sb.WriteString("📈 *Performance Log*\n\n")
	if len(entries) == 0 {
		sb.WriteString("No weeks logged yet. Use /log <points> after your matchup.")
		return sb.String()
	}
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("Week %d: %.2f actual / %.2f projected (%+.2f)\n",
			e.Week, e.Actual, e.ProjectedOptimal, e.Actual-e.ProjectedOptimal))
	}
	sb.WriteString(fmt.Sprintf("\nAverage: %.2f actual vs %.2f projected over %d weeks (%+.2f)",
		summary.MeanActual, summary.MeanProjected, summary.Weeks, summary.MeanError))
	return sb.String()
}

func formatLogged(e models.LogEntry) string {
	return fmt.Sprintf("📈 Logged week %d: %.2f actual vs %.2f projected (%+.2f)",
		e.Week, e.Actual, e.ProjectedOptimal, e.Actual-e.ProjectedOptimal)
}
