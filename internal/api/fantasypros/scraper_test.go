package fantasypros

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/lineupcoach/internal/models"
	"github.com/omarshaarawi/lineupcoach/internal/repository/memory"
)

const qbPage = `<html><body>
<table id="data">
  <thead>
    <tr><th></th><th colspan="5">PASSING</th><th colspan="3">RUSHING</th><th>MISC</th></tr>
    <tr><th>Player</th><th>ATT</th><th>CMP</th><th>YDS</th><th>TDS</th><th>INTS</th><th>ATT</th><th>YDS</th><th>TDS</th><th>FL</th><th>FPTS</th></tr>
  </thead>
  <tbody>
    <tr class="mpb-player-1"><td class="player-label"><a class="player-name" href="#">Josh  Allen</a> BUF <a class="fp-player-link"></a></td><td>33.1</td><td>21.9</td><td>256.4</td><td>1.9</td><td>0.6</td><td>7.1</td><td>38.0</td><td>0.6</td><td>0.2</td><td>24.3</td></tr>
    <tr><td class="player-label"><a class="player-name" href="#">Lamar Jackson</a> BAL</td><td>28.0</td><td>18.2</td><td>221.0</td><td>1.7</td><td>0.5</td><td>9.9</td><td>60.1</td><td>0.4</td><td>0.1</td><td>23.9</td></tr>
    <tr><td>Jalen Hurts PHI</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td>n/a</td></tr>
  </tbody>
</table>
</body></html>`

const seasonPage = `<table class="table">
<thead><tr><th>Player</th><th>REC</th><th>YDS</th><th>FPTS</th></tr></thead>
<tbody>
<tr><td>Ja'Marr Chase CIN</td><td>104.0</td><td>1,401.0</td><td>1,250.5</td></tr>
<tr><td>CeeDee Lamb DAL</td><td>99.0</td><td>1,300.0</td><td>245.2</td></tr>
</tbody></table>`

func TestParseTable_GroupedHeaders(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(qbPage))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.TableRow{Name: "Josh Allen", Team: "BUF", FPTS: 24.3}, rows[0])
	assert.Equal(t, models.TableRow{Name: "Lamar Jackson", Team: "BAL", FPTS: 23.9}, rows[1])
	assert.Equal(t, models.TableRow{Name: "Jalen Hurts", Team: "PHI", FPTS: 0}, rows[2])
}

func TestParseTable_FallsBackToAnyFPTSTable(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(seasonPage))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ja'Marr Chase", rows[0].Name)
	assert.Equal(t, "CIN", rows[0].Team)
	assert.InDelta(t, 1250.5, rows[0].FPTS, 1e-9)
}

func TestParseTable_KeepsNameSuffixes(t *testing.T) {
	page := `<table class="table">
<thead><tr><th>Player</th><th>FPTS</th></tr></thead>
<tbody>
<tr><td>Kenneth Walker III SEA</td><td>14.2</td></tr>
<tr><td>Marvin Harrison Jr.</td><td>12.0</td></tr>
<tr><td>Michael Pittman Jr. FA</td><td>9.1</td></tr>
<tr><td>Brian Thomas III</td><td>8.0</td></tr>
</tbody></table>`

	rows, err := ParseTable(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, models.TableRow{Name: "Kenneth Walker III", Team: "SEA", FPTS: 14.2}, rows[0])
	assert.Equal(t, models.TableRow{Name: "Marvin Harrison Jr.", FPTS: 12.0}, rows[1])
	assert.Equal(t, models.TableRow{Name: "Michael Pittman Jr.", Team: "FA", FPTS: 9.1}, rows[2])
	assert.Equal(t, models.TableRow{Name: "Brian Thomas III", FPTS: 8.0}, rows[3])
}

func TestParseTable_NoTable(t *testing.T) {
	_, err := ParseTable(strings.NewReader(`<html><body><p>blocked</p></body></html>`))
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestScraper_TableURLsAndCache(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = w.Write([]byte(qbPage))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL+"/", memory.NewRepository(time.Hour))
	ctx := context.Background()

	rows, err := s.Table(ctx, models.QB, models.ViewWeekly)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = s.Table(ctx, models.QB, models.ViewWeekly)
	require.NoError(t, err)

	_, err = s.Table(ctx, models.QB, models.ViewSeason)
	require.NoError(t, err)

	_, err = s.TableForWeek(ctx, models.DST, models.ViewWeekly, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"/qb.php", "/qb.php?week=draft", "/dst.php?week=7"}, paths)
}

func TestScraper_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, nil)

	_, err := s.Table(context.Background(), models.RB, models.ViewWeekly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 403")

	_, err = s.Table(context.Background(), models.FLEX, models.ViewWeekly)
	assert.Error(t, err)
}
