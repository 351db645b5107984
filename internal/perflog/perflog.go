// Package perflog appends weekly projected and actual totals to a CSV file.
package perflog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/omarshaarawi/lineupcoach/internal/models"
)

var header = []string{"week", "team", "projected_espn", "projected_optimal", "actual", "logged_at"}

type Log struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes one row, creating the file with a header when needed.
// Existing rows are never rewritten.
func (l *Log) Append(entry models.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = l.now()
	}

	_, statErr := os.Stat(l.path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening performance log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing performance log header: %w", err)
		}
	}
	if err := w.Write(toRecord(entry)); err != nil {
		return fmt.Errorf("writing performance log row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Entries reads every row. A missing file is an empty log; malformed rows
// are skipped.
func (l *Log) Entries() ([]models.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening performance log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var entries []models.LogEntry
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("reading performance log: %w", err)
		}
		if line == 1 && len(record) > 0 && record[0] == header[0] {
			continue
		}
		entry, err := fromRecord(record)
		if err != nil {
			slog.Warn("Skipping malformed performance log row", "line", line, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Summarize averages actual points and the optimal projection across entries.
func Summarize(entries []models.LogEntry) models.LogSummary {
	s := models.LogSummary{Weeks: len(entries)}
	if len(entries) == 0 {
		return s
	}
	for _, e := range entries {
		s.MeanActual += e.Actual
		s.MeanProjected += e.ProjectedOptimal
	}
	n := float64(len(entries))
	s.MeanActual /= n
	s.MeanProjected /= n
	s.MeanError = s.MeanActual - s.MeanProjected
	return s
}

func toRecord(e models.LogEntry) []string {
	return []string{
		strconv.Itoa(e.Week),
		e.Team,
		strconv.FormatFloat(e.ProjectedESPN, 'f', 2, 64),
		strconv.FormatFloat(e.ProjectedOptimal, 'f', 2, 64),
		strconv.FormatFloat(e.Actual, 'f', 2, 64),
		e.LoggedAt.UTC().Format(time.RFC3339),
	}
}

func fromRecord(record []string) (models.LogEntry, error) {
	if len(record) < 5 {
		return models.LogEntry{}, fmt.Errorf("expected at least 5 fields, got %d", len(record))
	}
	week, err := strconv.Atoi(record[0])
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("week: %w", err)
	}
	floats := make([]float64, 3)
	for i := range floats {
		floats[i], err = strconv.ParseFloat(record[2+i], 64)
		if err != nil {
			return models.LogEntry{}, fmt.Errorf("%s: %w", header[2+i], err)
		}
	}

	entry := models.LogEntry{
		Week:             week,
		Team:             record[1],
		ProjectedESPN:    floats[0],
		ProjectedOptimal: floats[1],
		Actual:           floats[2],
	}
	if len(record) > 5 {
		if ts, err := time.Parse(time.RFC3339, record[5]); err == nil {
			entry.LoggedAt = ts
		}
	}
	return entry, nil
}
