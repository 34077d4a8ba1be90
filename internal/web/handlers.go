package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fakeyudi/punchclock/internal/ledger"
	"github.com/fakeyudi/punchclock/internal/report"
	"github.com/fakeyudi/punchclock/internal/task"
)

type startRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// handleCurrent returns the running task with its live elapsed duration, or
// null when idle. Reading state does not count as activity.
func (s *Server) handleCurrent(c *gin.Context) {
	running := s.ledger.Current()
	if running == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":            running.Record,
		"elapsed_seconds": int64(time.Since(running.Record.StartTime) / time.Second),
		"last_activity":   running.LastActivity,
	})
}

// handleStart begins a new task, auto-switching away from any running one.
func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started, closed, err := s.ledger.Start(req.Name, task.ParseCategory(req.Category))
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task name is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":          started,
		"switched_from": closed,
	})
}

// handleStop closes the running task. Stopping while idle is not an error:
// the response carries a null task.
func (s *Server) handleStop(c *gin.Context) {
	rec, err := s.ledger.Stop()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": rec})
}

// handleTouch resets the inactivity clock; browser pages call it on user
// interaction.
func (s *Server) handleTouch(c *gin.Context) {
	s.ledger.Touch()
	c.Status(http.StatusNoContent)
}

// handleRecent lists completed tasks, newest last, with optional ?limit= and
// ?category= filters.
func (s *Server) handleRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 0 {
		limit = 0
	}
	f := report.Filter{Limit: limit}
	if cat := c.Query("category"); cat != "" {
		f.Category = task.ParseCategory(cat)
	}
	recs := f.Apply(s.ledger.Completed())
	if recs == nil {
		recs = []task.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// handleSummary aggregates completed time per category.
func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, report.Summarize(s.ledger.Completed()))
}

// handleStatus reports the persistence mode so the page can show a degraded
// indicator instead of the user ever seeing a remote error.
func (s *Server) handleStatus(c *gin.Context) {
	degraded := s.degraded != nil && s.degraded()
	c.JSON(http.StatusOK, gin.H{
		"degraded": degraded,
		"running":  s.ledger.Current() != nil,
	})
}
