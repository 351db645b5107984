package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omarshaarawi/lineupcoach/internal/lineup"
	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/perflog"
	"github.com/omarshaarawi/lineupcoach/internal/scoring"
)

type handler struct {
	svc Service
}

type optimizeRequest struct {
	Roster []models.Player `json:"roster"`
	Slots  string          `json:"slots"`
}

type optimizeResponse struct {
	Lineup   models.Lineup   `json:"lineup"`
	Bench    []models.Player `json:"bench"`
	Total    float64         `json:"total"`
	TotalROS float64         `json:"total_ros"`
}

type verdictRequest struct {
	Candidate models.Player   `json:"candidate"`
	Roster    []models.Player `json:"roster"`
	Slots     string          `json:"slots"`
	Threshold *float64        `json:"threshold"`
}

type tradeRequest struct {
	Give   []models.Player `json:"give"`
	Get    []models.Player `json:"get"`
	Roster []models.Player `json:"roster"`
	Slots  string          `json:"slots"`
}

type logRequest struct {
	Week   int      `json:"week"`
	Actual *float64 `json:"actual" binding:"required"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "lineupcoach",
		"timestamp": time.Now(),
	})
}

// slots parses spec, falling back to the service's configured slots.
func (h *handler) slots(spec string) (models.SlotRequirements, error) {
	if spec == "" {
		return h.svc.Slots(), nil
	}
	return lineup.ParseSlots(spec)
}

func (h *handler) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slots, err := h.slots(req.Slots)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lu, bench := lineup.Optimize(req.Roster, slots)
	c.JSON(http.StatusOK, optimizeResponse{
		Lineup:   lu,
		Bench:    bench,
		Total:    lu.Total(),
		TotalROS: lu.TotalROS(),
	})
}

func (h *handler) verdict(c *gin.Context) {
	var req verdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Candidate.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate name is required"})
		return
	}
	slots, err := h.slots(req.Slots)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threshold := h.svc.Threshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	lu, bench := lineup.Optimize(req.Roster, slots)
	v := scoring.EvaluateCandidate(req.Candidate, lu, bench, scoring.Options{
		Threshold: threshold,
		Scarcity:  scoring.DefaultScarcity,
	})
	c.JSON(http.StatusOK, v)
}

func (h *handler) compareTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Give) == 0 || len(req.Get) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "give and get must both list at least one player"})
		return
	}
	slots, err := h.slots(req.Slots)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scoring.CompareTrade(req.Give, req.Get, req.Roster, slots))
}

func (h *handler) lineup(c *gin.Context) {
	week := 0
	if w := c.Query("week"); w != "" {
		var err error
		if week, err = strconv.Atoi(w); err != nil || week < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week parameter"})
			return
		}
	}

	report, err := h.svc.OptimalLineup(c.Request.Context(), week)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) freeAgents(c *gin.Context) {
	var pos models.Position
	if p := c.Query("position"); p != "" {
		parsed, ok := models.ParsePosition(p)
		if !ok || parsed == models.FLEX {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position parameter"})
			return
		}
		pos = parsed
	}

	threshold := -1.0
	if t := c.Query("threshold"); t != "" {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold parameter"})
			return
		}
		threshold = v
	}

	report, err := h.svc.RankFreeAgents(c.Request.Context(), pos, threshold)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) history(c *gin.Context) {
	entries, err := h.svc.Entries()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read performance log"})
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"summary": perflog.Summarize(entries),
	})
}

func (h *handler) logResult(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Week < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must not be negative"})
		return
	}

	entry, err := h.svc.RecordResult(c.Request.Context(), req.Week, *req.Actual)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}
