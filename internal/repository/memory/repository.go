package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

type tableEntry struct {
	rows      []models.TableRow
	fetchedAt time.Time
}

// Repository caches external reads for a bounded time.
type Repository struct {
	metadata *models.LeagueMetadata
	tables   map[string]tableEntry
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

func NewRepository(ttl time.Duration) *Repository {
	return &Repository{
		tables: make(map[string]tableEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = metadata
}

func (r *Repository) GetMetadata() *models.LeagueMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata
}

func tableKey(pos models.Position, view models.ProjectionView, week int) string {
	return fmt.Sprintf("%s|%s|%d", pos, view, week)
}

func (r *Repository) SaveTable(pos models.Position, view models.ProjectionView, week int, rows []models.TableRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[tableKey(pos, view, week)] = tableEntry{rows: rows, fetchedAt: r.now()}
}

// GetTable returns a cached table that is younger than the repository TTL.
func (r *Repository) GetTable(pos models.Position, view models.ProjectionView, week int) ([]models.TableRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tables[tableKey(pos, view, week)]
	if !ok || r.now().Sub(entry.fetchedAt) > r.ttl {
		return nil, false
	}
	return entry.rows, true
}

// Purge drops every cached table and the league metadata.
func (r *Repository) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = make(map[string]tableEntry)
	r.metadata = nil
}
