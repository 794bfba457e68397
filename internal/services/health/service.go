package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB    Pinger
	Model string
}

// NewService constructs a health service. db may be nil when the audit log is in memory.
func NewService(db *sql.DB, model string) *Service {
	s := &Service{Model: model}
	if db != nil {
		s.DB = db
	}
	return s
}

// Status reports liveness plus the state of optional dependencies.
// The service stays "ok" when the audit database is down; parsing does not need it.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{
		"ok":       true,
		"model":    s.Model,
		"database": "disabled",
	}
	if s.DB == nil {
		return status
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		status["database"] = "unavailable"
		return status
	}
	status["database"] = "ok"
	return status
}
