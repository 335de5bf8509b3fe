package domain

import (
	"context"
)

//go:generate mockgen -source internal/domain/repo.go -destination=internal/application/app_mock_test.go -package=application

// OrderStore is the system of record. Orders are insert-only.
type OrderStore interface {
	InsertOrder(ctx context.Context, order Order) error
	ListOrders(ctx context.Context) ([]Order, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context) ([]Order, error)
}
