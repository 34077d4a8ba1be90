// Package web exposes the ledger over HTTP for browser front-ends. It is a
// thin presentation layer: every route maps directly onto one ledger or
// report operation.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/fakeyudi/punchclock/internal/ledger"
)

// Server is the punchclock web API server.
type Server struct {
	ledger   *ledger.Ledger
	degraded func() bool
	router   *gin.Engine
}

// NewServer wires the API routes. degraded reports whether the persistence
// layer has fallen back to local-only mode; it may be nil.
func NewServer(l *ledger.Ledger, degraded func() bool) *Server {
	s := &Server{
		ledger:   l,
		degraded: degraded,
		router:   gin.Default(),
	}

	api := s.router.Group("/api")
	{
		api.GET("/tasks/current", s.handleCurrent)
		api.POST("/tasks/start", s.handleStart)
		api.POST("/tasks/stop", s.handleStop)
		api.POST("/tasks/touch", s.handleTouch)
		api.GET("/tasks/recent", s.handleRecent)
		api.GET("/reports/summary", s.handleSummary)
		api.GET("/status", s.handleStatus)
	}

	return s
}

// Run starts the web server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}
