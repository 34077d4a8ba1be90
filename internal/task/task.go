package task

import (
	"strings"
	"time"
)

// Category classifies a task for reporting.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryLearning, CategoryOther}

// ParseCategory maps a user-supplied string to a Category, case-insensitively.
// Unknown or empty input falls back to CategoryOther.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Color returns the category's display color as a hex string.
func (c Category) Color() string {
	switch c {
	case CategoryWork:
		return "#2196F3"
	case CategoryPersonal:
		return "#4CAF50"
	case CategoryLearning:
		return "#FF9800"
	default:
		return "#9E9E9E"
	}
}

// Record is a single tracked task. EndTime is nil while the task is running;
// DurationSeconds is derived from the start/end pair and only meaningful once
// EndTime is set.
type Record struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Category        Category   `json:"category"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds,omitempty"`
}

// Open reports whether the record has not been closed yet.
func (r *Record) Open() bool {
	return r.EndTime == nil
}

// Close sets the record's end time and derives its duration.
func (r *Record) Close(end time.Time) {
	r.EndTime = &end
	r.DurationSeconds = int64(end.Sub(r.StartTime) / time.Second)
}

// Running is the single currently-active task plus the timestamp of the last
// user interaction, which drives the inactivity clock.
type Running struct {
	Record       Record    `json:"record"`
	LastActivity time.Time `json:"last_activity"`
}
