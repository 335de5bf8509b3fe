package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/domain"
	"github.com/TemirB/orders-cache/internal/observability"
)

//go:generate mockgen -source internal/application/subscriber/handler.go -destination=internal/application/subscriber/handler_mock_test.go -package=subscriber

type Store interface {
	InsertOrder(ctx context.Context, order domain.Order) error
}

type Cache interface {
	Insert(order domain.Order)
}

// Stage names the step a message stopped at.
type Stage string

const (
	StageApplied Stage = "applied"
	StageParse   Stage = "parse"
	StagePersist Stage = "persist"
)

// Result is the outcome of one message. Err is nil only for StageApplied.
type Result struct {
	Stage Stage
	UID   string
	Err   error
}

func (r Result) OK() bool { return r.Stage == StageApplied }

type Handler struct {
	store    Store
	cache    Cache
	validate *validator.Validate
	logger   *zap.Logger
	metrics  observability.Metrics
}

func NewHandler(store Store, cache Cache, logger *zap.Logger, metrics observability.Metrics) *Handler {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Handler{
		store:    store,
		cache:    cache,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle parses one payload, persists it and only then makes it visible in
// the cache. A failed message is dropped; nothing is retried.
func (h *Handler) Handle(ctx context.Context, payload []byte) Result {
	start := time.Now()
	res := h.handle(ctx, payload)
	processMs := observability.SinceMs(start)
	h.metrics.ObserveMessage(string(res.Stage), processMs)

	switch res.Stage {
	case StageParse:
		h.logger.Error("dropping malformed order payload",
			zap.Error(res.Err),
			zap.Int("value_bytes", len(payload)),
		)
	case StagePersist:
		h.logger.Error("dropping order rejected by store",
			zap.String("order_uid", res.UID),
			zap.Error(res.Err),
		)
	default:
		h.logger.Info("order applied",
			zap.String("order_uid", res.UID),
			zap.Float64("process_ms", processMs),
		)
	}
	return res
}

func (h *Handler) handle(ctx context.Context, payload []byte) Result {
	order, err := h.parse(payload)
	if err != nil {
		return Result{Stage: StageParse, Err: err}
	}

	if err := h.store.InsertOrder(ctx, order); err != nil {
		return Result{Stage: StagePersist, UID: order.UID(), Err: err}
	}

	h.cache.Insert(order)
	return Result{Stage: StageApplied, UID: order.UID()}
}

func (h *Handler) parse(payload []byte) (domain.Order, error) {
	if !utf8.Valid(payload) {
		return domain.Order{}, fmt.Errorf("%w: payload is not valid UTF-8", domain.ErrInvalidOrder)
	}

	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrInvalidOrder, err)
	}
	if err := h.validate.Struct(order); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrInvalidOrder, err)
	}
	return order, nil
}
