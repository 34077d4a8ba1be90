// Package report provides read-only filtering and aggregation over completed
// tasks for display. It never mutates ledger state.
package report

import (
	"fmt"
	"time"

	"github.com/fakeyudi/punchclock/internal/task"
)

// Filter narrows a list of completed records. Zero values mean "no
// constraint".
type Filter struct {
	Category task.Category // empty: all categories
	From     time.Time     // inclusive, matched against StartTime
	To       time.Time     // inclusive, matched against StartTime
	Limit    int           // 0: unlimited; otherwise the N most recent
}

// Apply returns the records matching f, preserving completion order.
func (f Filter) Apply(recs []task.Record) []task.Record {
	var out []task.Record
	for _, r := range recs {
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if !f.From.IsZero() && r.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.StartTime.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// CategorySummary aggregates completed time for one category.
type CategorySummary struct {
	Category     task.Category `json:"category"`
	Count        int           `json:"count"`
	TotalSeconds int64         `json:"total_seconds"`
}

// Summarize groups records by category, one row per known category in
// display order, mirroring the per-category report view.
func Summarize(recs []task.Record) []CategorySummary {
	byCat := make(map[task.Category]*CategorySummary, len(task.Categories))
	out := make([]CategorySummary, len(task.Categories))
	for i, c := range task.Categories {
		out[i] = CategorySummary{Category: c}
		byCat[c] = &out[i]
	}
	for _, r := range recs {
		s, ok := byCat[r.Category]
		if !ok {
			continue
		}
		s.Count++
		s.TotalSeconds += r.DurationSeconds
	}
	return out
}

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
