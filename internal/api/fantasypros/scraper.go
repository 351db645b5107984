// Package fantasypros scrapes per-position projection tables.
package fantasypros

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

const DefaultBaseURL = "https://www.fantasypros.com/nfl/projections"

var ErrTableNotFound = errors.New("projections table not found")

var (
	teamSuffix = regexp.MustCompile(`\s+(?:ARI|ATL|BAL|BUF|CAR|CHI|CIN|CLE|DAL|DEN|DET|GB|HOU|IND|JAC|JAX|KC|LA|LAC|LAR|LV|MIA|MIN|NE|NO|NYG|NYJ|PHI|PIT|SEA|SF|TB|TEN|WAS|WSH|FA)$`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Cache stores scraped tables between requests.
type Cache interface {
	GetTable(pos models.Position, view models.ProjectionView, week int) ([]models.TableRow, bool)
	SaveTable(pos models.Position, view models.ProjectionView, week int, rows []models.TableRow)
}

type Scraper struct {
	httpClient *http.Client
	baseURL    string
	cache      Cache
	breaker    *gobreaker.CircuitBreaker
}

func NewScraper(baseURL string, cache Cache) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "fantasypros",
			Timeout: 2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Table returns the current-week or season table for pos.
func (s *Scraper) Table(ctx context.Context, pos models.Position, view models.ProjectionView) ([]models.TableRow, error) {
	return s.TableForWeek(ctx, pos, view, 0)
}

// TableForWeek fetches a specific week; week 0 means the site's current week.
// Season views ignore week.
func (s *Scraper) TableForWeek(ctx context.Context, pos models.Position, view models.ProjectionView, week int) ([]models.TableRow, error) {
	if view == models.ViewSeason {
		week = 0
	}
	if s.cache != nil {
		if rows, ok := s.cache.GetTable(pos, view, week); ok {
			return rows, nil
		}
	}

	url, err := s.tableURL(pos, view, week)
	if err != nil {
		return nil, err
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s projections: %w", pos, view, err)
	}
	rows := result.([]models.TableRow)

	if s.cache != nil {
		s.cache.SaveTable(pos, view, week, rows)
	}
	slog.Debug("Scraped projections", "position", pos, "view", view, "rows", len(rows))
	return rows, nil
}

func (s *Scraper) tableURL(pos models.Position, view models.ProjectionView, week int) (string, error) {
	page, ok := map[models.Position]string{
		models.QB:  "qb",
		models.RB:  "rb",
		models.WR:  "wr",
		models.TE:  "te",
		models.K:   "k",
		models.DST: "dst",
	}[pos]
	if !ok {
		return "", fmt.Errorf("no projections page for position %q", pos)
	}

	url := fmt.Sprintf("%s/%s.php", s.baseURL, page)
	switch {
	case view == models.ViewSeason:
		url += "?week=draft"
	case week > 0:
		url += fmt.Sprintf("?week=%d", week)
	}
	return url, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) ([]models.TableRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; lineupcoach)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParseTable(resp.Body)
}

// ParseTable extracts player name, team and FPTS from a projections page.
func ParseTable(r io.Reader) ([]models.TableRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing projections page: %w", err)
	}

	table := doc.Find("table#data").First()
	if table.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if fptsColumn(t) >= 0 {
				table = t
				return false
			}
			return true
		})
	}
	col := fptsColumn(table)
	if table.Length() == 0 || col < 0 {
		return nil, ErrTableNotFound
	}

	var rows []models.TableRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() <= col {
			return
		}
		name, team := splitPlayerCell(cells.First())
		if name == "" {
			return
		}
		rows = append(rows, models.TableRow{
			Name: name,
			Team: team,
			FPTS: parsePoints(cells.Eq(col).Text()),
		})
	})

	return rows, nil
}

// fptsColumn finds the FPTS header index in the last header row, which is the
// stat-name row on pages with grouped headers.
func fptsColumn(table *goquery.Selection) int {
	headers := table.Find("thead tr").Last().Find("th, td")
	col := -1
	headers.EachWithBreak(func(i int, th *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(th.Text()), "FPTS") {
			col = i
			return false
		}
		return true
	})
	return col
}

func splitPlayerCell(cell *goquery.Selection) (string, string) {
	team := ""
	if link := cell.Find("a.player-name"); link.Length() > 0 {
		name := cleanName(link.First().Text())
		rest := strings.TrimSpace(strings.Replace(cell.Text(), link.First().Text(), "", 1))
		if fields := strings.Fields(rest); len(fields) > 0 {
			team = strings.ToUpper(fields[0])
		}
		return name, team
	}

	text := cleanName(cell.Text())
	if m := teamSuffix.FindString(text); m != "" {
		team = strings.TrimSpace(m)
		text = strings.TrimSpace(strings.TrimSuffix(text, m))
	}
	return text, team
}

func cleanName(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func parsePoints(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
