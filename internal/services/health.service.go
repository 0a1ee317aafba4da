package services

import (
	"context"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService pings the backing stores. A nil dependency is skipped.
type HealthService struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func NewHealthService(deps map[string]Pinger) *HealthService {
	return &HealthService{deps: deps, timeout: time.Second}
}

func (s *HealthService) Check(ctx context.Context) *model.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st := &model.HealthStatus{Status: model.HealthOK, Components: make(map[string]string, len(s.deps))}
	for name, dep := range s.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			st.Status = model.HealthDegraded
			st.Components[name] = "down"
			continue
		}
		st.Components[name] = "up"
	}
	return st
}
