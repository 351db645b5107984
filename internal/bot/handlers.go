package bot

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/projection"
	"github.com/omarshaarawi/lineupcoach/internal/service"
)

const commandTimeout = 45 * time.Second

const helpText = `Available commands:
/lineup - Optimal lineup for this week
/matchup - This week's matchup with the optimal projection
/monitor - Injured players in the optimal lineup
/team <team> - Optimal lineup for another team
/trade <give> for <get> - Compare a trade (comma separate multiple players)
/waivers [position] [threshold] - Rank free agents
/whatif <out> for <in> - Swap a player and re-run the lineup
/log <points> [week] - Record an actual score
/history - Projected vs actual results
/source [espn|fantasypros|espn+fantasypros] - Show or set the projection source
/slots [QB:1,RB:2,...] - Show or set lineup slots
/refresh - Clear cached league data and projections`

type Handler struct {
	fantasyService *service.FantasyService
}

func NewHandler(fantasyService *service.FantasyService) *Handler {
	return &Handler{fantasyService: fantasyService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch command {
	case "start":
		msg.Text = "Welcome to LineupCoach! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "lineup":
		h.handleLineup(ctx, &msg)
	case "matchup":
		h.handleMatchup(ctx, &msg)
	case "monitor":
		h.handleMonitor(ctx, &msg)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "trade":
		h.handleTrade(ctx, &msg, args)
	case "waivers":
		h.handleWaivers(ctx, &msg, args)
	case "whatif":
		h.handleWhatIf(ctx, &msg, args)
	case "log":
		h.handleLog(ctx, &msg, args)
	case "history":
		h.handleHistory(&msg)
	case "source":
		h.handleSource(&msg, args)
	case "slots":
		h.handleSlots(&msg, args)
	case "refresh":
		h.fantasyService.Refresh()
		msg.Text = "Cached league data and projections cleared."
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleLineup(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.Lineup(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error building lineup: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleMatchup(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.Matchup(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error generating matchup report: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleMonitor(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.Injuries(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching players to monitor: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	result, err := h.fantasyService.TeamLineup(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error getting team lineup: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handleTrade(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	give, get, ok := parseTradeArgs(args)
	if !ok {
		msg.Text = "Usage: /trade <player>[, <player>] for <player>[, <player>]"
		return
	}
	report, err := h.fantasyService.Trade(ctx, give, get)
	if err != nil {
		msg.Text = fmt.Sprintf("Error comparing trade: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleWaivers(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	pos, threshold, err := parseWaiverArgs(args)
	if err != nil {
		msg.Text = fmt.Sprintf("%v\nUsage: /waivers [position] [threshold]", err)
		return
	}
	report, err := h.fantasyService.FreeAgents(ctx, pos, threshold)
	if err != nil {
		msg.Text = fmt.Sprintf("Error ranking free agents: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleWhatIf(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	out, in, ok := splitFor(args)
	if !ok {
		msg.Text = "Usage: /whatif <player out> for <player in>"
		return
	}
	report, err := h.fantasyService.WhatIf(ctx, out, in)
	if err != nil {
		msg.Text = fmt.Sprintf("Error simulating swap: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleLog(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	actual, week, err := parseLogArgs(args)
	if err != nil {
		msg.Text = fmt.Sprintf("%v\nUsage: /log <points> [week]", err)
		return
	}
	report, err := h.fantasyService.LogResult(ctx, week, actual)
	if err != nil {
		msg.Text = fmt.Sprintf("Error logging result: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleHistory(msg *tgbotapi.MessageConfig) {
	report, err := h.fantasyService.History()
	if err != nil {
		msg.Text = fmt.Sprintf("Error reading history: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleSource(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = h.fantasyService.Settings()
		return
	}
	mode, err := projection.ParseMode(args)
	if err != nil {
		msg.Text = fmt.Sprintf("%v\nUsage: /source espn|fantasypros|espn+fantasypros", err)
		return
	}
	h.fantasyService.SetMode(mode)
	msg.Text = fmt.Sprintf("Projection source set to `%s`", mode)
}

func (h *Handler) handleSlots(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = h.fantasyService.Settings()
		return
	}
	slots, err := lineup.ParseSlots(args)
	if err != nil {
		msg.Text = fmt.Sprintf("%v\nUsage: /slots QB:1,RB:2,WR:2,TE:1,FLEX:1,D/ST:1,K:1", err)
		return
	}
	h.fantasyService.SetSlots(slots)
	msg.Text = fmt.Sprintf("Lineup slots set to `%s`", lineup.FormatSlots(slots))
}

// splitFor splits "a for b" on the last standalone "for".
func splitFor(args string) (string, string, bool) {
	lower := strings.ToLower(args)
	i := strings.LastIndex(lower, " for ")
	if i < 0 {
		return "", "", false
	}
	left := strings.TrimSpace(args[:i])
	right := strings.TrimSpace(args[i+len(" for "):])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

func parseTradeArgs(args string) ([]string, []string, bool) {
	left, right, ok := splitFor(args)
	if !ok {
		return nil, nil, false
	}
	give, get := splitNames(left), splitNames(right)
	if len(give) == 0 || len(get) == 0 {
		return nil, nil, false
	}
	return give, get, true
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseWaiverArgs accepts an optional position and an optional threshold in
// either order. A missing threshold is reported as -1.
func parseWaiverArgs(args string) (models.Position, float64, error) {
	var pos models.Position
	threshold := -1.0
	for _, field := range strings.Fields(args) {
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "", 0, fmt.Errorf("invalid threshold '%s'", field)
			}
			if v < 0 {
				return "", 0, fmt.Errorf("threshold must not be negative")
			}
			threshold = v
			continue
		}
		p, ok := models.ParsePosition(field)
		if !ok || p == models.FLEX {
			return "", 0, fmt.Errorf("unknown position '%s'", field)
		}
		pos = p
	}
	return pos, threshold, nil
}

func parseLogArgs(args string) (float64, int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("expected points and an optional week")
	}
	actual, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(actual) || math.IsInf(actual, 0) {
		return 0, 0, fmt.Errorf("invalid points '%s'", fields[0])
	}
	week := 0
	if len(fields) == 2 {
		week, err = strconv.Atoi(fields[1])
		if err != nil || week < 1 {
			return 0, 0, fmt.Errorf("invalid week '%s'", fields[1])
		}
	}
	return actual, week, nil
}
