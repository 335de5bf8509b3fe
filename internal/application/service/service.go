package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/domain"
	"github.com/TemirB/orders-cache/internal/observability"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Cache interface {
	Get(uid string) (domain.Order, bool)
	Len() int
}

// Service answers point lookups from the cache only. It never reaches the
// store, so read latency does not depend on the database.
type Service struct {
	cache   Cache
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(cache Cache, logger *zap.Logger, metrics observability.Metrics) *Service {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Service{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// GetOrder reports false for an unknown uid. That is a normal outcome, not
// an error.
func (s *Service) GetOrder(_ context.Context, uid string) (domain.Order, LookupStats, bool) {
	var st LookupStats

	start := time.Now()
	order, ok := s.cache.Get(uid)
	st.CacheMs = observability.SinceMs(start)
	st.Hit = ok
	s.metrics.ObserveLookup(ok, st.CacheMs)

	if !ok {
		s.logger.Debug("Order not in cache", zap.String("order_uid", uid))
		return domain.Order{}, st, false
	}

	s.logger.Debug("Order fetched from cache",
		zap.String("order_uid", uid),
		zap.Float64("cache_ms", st.CacheMs),
	)
	return order, st, true
}

func (s *Service) Size() int {
	return s.cache.Len()
}
