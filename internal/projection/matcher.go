package projection

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

// Matcher finds the scraped row belonging to a league player. Names come from
// two unrelated sites, so matching is a heuristic and may be swapped out.
type Matcher interface {
	Match(name string, rows []models.TableRow) (models.TableRow, bool)
}

// FirstTokenMatcher returns the first row whose name contains the player's
// first name token, case-insensitively. Players sharing a first name at the
// same position can be confused.
type FirstTokenMatcher struct{}

func (FirstTokenMatcher) Match(name string, rows []models.TableRow) (models.TableRow, bool) {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return models.TableRow{}, false
	}
	token := fields[0]
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), token) {
			return row, true
		}
	}
	return models.TableRow{}, false
}

// FuzzyMatcher picks the row with the highest Levenshtein similarity to the
// full name, provided it clears Threshold.
type FuzzyMatcher struct {
	Threshold float64
}

func (m FuzzyMatcher) Match(name string, rows []models.TableRow) (models.TableRow, bool) {
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = 0.7
	}
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return models.TableRow{}, false
	}

	var best models.TableRow
	bestScore := -1.0
	for _, row := range rows {
		candidate := strings.ToLower(row.Name)
		distance := fuzzy.LevenshteinDistance(target, candidate)
		maxLen := float64(max(len(target), len(candidate)))
		similarity := 1 - float64(distance)/maxLen

		if similarity >= threshold && similarity > bestScore {
			bestScore = similarity
			best = row
		}
	}
	return best, bestScore >= 0
}

// NewMatcher returns the strategy named by NAME_MATCH.
func NewMatcher(name string) Matcher {
	if strings.EqualFold(strings.TrimSpace(name), "fuzzy") {
		return FuzzyMatcher{Threshold: 0.7}
	}
	return FirstTokenMatcher{}
}
