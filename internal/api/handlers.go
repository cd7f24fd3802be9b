package api

import (
	"context"

	"github.com/vytor/phrasecards/internal/jobs"
	"github.com/vytor/phrasecards/internal/services"
)

// Pinger reports whether the state database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Study   services.StudyService
	Jobs    jobs.JobQueue
	DB      Pinger
	Limiter *RateLimiter
}
