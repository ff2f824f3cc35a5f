package service

import (
	"context"

	"github.com/jonwraymond/cachekit/health"
)

// HealthChecker returns a checker for whichever variable store is active
// when the check runs.
func (s *Service) HealthChecker(cfg health.StoreCheckerConfig) health.Checker {
	return health.NewCheckerFunc("variables", func(ctx context.Context) health.Result {
		c, err := health.NewStoreChecker("variables", s.VariablesStore(), cfg)
		if err != nil {
			return health.Unhealthy("no variable store", err)
		}
		return c.Check(ctx)
	})
}
