package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

// findPlayer resolves user-typed names such as "mahomes" or "ja'marr chase".
// Exact matches win, then the closest fuzzy subsequence match, then the
// closest Levenshtein match above 0.7 similarity.
func findPlayer(players []models.Player, query string) (models.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Player{}, fmt.Errorf("empty player name")
	}

	names := make([]string, len(players))
	for i, p := range players {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return players[ranks[0].OriginalIndex], nil
	}

	best := -1
	bestScore := 0.7
	q := strings.ToLower(query)
	for i, name := range names {
		n := strings.ToLower(name)
		distance := fuzzy.LevenshteinDistance(q, n)
		similarity := 1 - float64(distance)/float64(max(len(q), len(n)))
		if similarity >= bestScore {
			best, bestScore = i, similarity
		}
	}
	if best < 0 {
		return models.Player{}, fmt.Errorf("no player found matching '%s'", query)
	}
	return players[best], nil
}

func findPlayers(players []models.Player, queries []string) ([]models.Player, error) {
	out := make([]models.Player, 0, len(queries))
	for _, q := range queries {
		p, err := findPlayer(players, q)
		if err != nil {
			return nil, err
		}
		for _, prev := range out {
			if sameEntry(prev, p) {
				return nil, fmt.Errorf("%s is listed more than once", p.Name)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func sameEntry(a, b models.Player) bool {
	if a.ID != 0 && b.ID != 0 {
		return a.ID == b.ID
	}
	return strings.EqualFold(a.Name, b.Name)
}
