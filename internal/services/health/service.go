package health

import (
	"context"
	"sort"
	"time"
)

// Checker reports whether one dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Status is the health payload. OK is false when any component fails.
type Status struct {
	OK         bool              `json:"ok"`
	Components map[string]string `json:"components,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	checks  map[string]Checker
	timeout time.Duration
}

// NewService constructs a health service over the named checks.
func NewService(checks map[string]Checker) *Service {
	return &Service{checks: checks, timeout: 2 * time.Second}
}

// Status runs every check with a short deadline.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true}
	if s == nil || len(s.checks) == 0 {
		return out
	}
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out.Components = make(map[string]string, len(names))
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.checks[name].Ping(cctx)
		cancel()
		if err != nil {
			out.OK = false
			out.Components[name] = err.Error()
			continue
		}
		out.Components[name] = "ok"
	}
	return out
}
