package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TemirB/orders-cache/internal/application/subscriber"
	"github.com/TemirB/orders-cache/internal/cache"
	"github.com/TemirB/orders-cache/internal/domain"
)

// ErrBootstrap means the cache could not be rebuilt from the store. The
// service must not start serving in that case.
var ErrBootstrap = errors.New("bootstrap failed")

// Bootstrap loads every persisted order into a fresh cache.
func Bootstrap(ctx context.Context, lister domain.OrderLister, logger *zap.Logger) (*cache.Cache, error) {
	start := time.Now()
	orders, err := lister.ListOrders(ctx)
	if err != nil {
		logger.Error("Error while reading orders for cache restore", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	c := cache.Restore(orders)
	logger.Info("Cache restored",
		zap.Int("orders", c.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return c, nil
}

type Server interface {
	Serve(ctx context.Context, ln net.Listener) error
}

// App runs the subscriber and the query server side by side.
type App struct {
	Subscription subscriber.Subscription
	Handler      subscriber.MessageHandler
	Server       Server
	Logger       *zap.Logger
}

// Run blocks until ctx is cancelled or either half fails. The first failure
// stops the other half and is returned.
func (a *App) Run(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return subscriber.Run(gctx, a.Subscription, a.Handler, a.Logger.Named("subscriber"))
	})
	g.Go(func() error {
		if err := a.Server.Serve(gctx, ln); err != nil {
			return fmt.Errorf("query server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		a.Logger.Error("Service stopped", zap.Error(err))
		return err
	}
	a.Logger.Info("Service stopped")
	return nil
}
