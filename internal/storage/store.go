package storage

import (
	"context"
	"errors"
)

const (
	KeyCart    = "demoshop_cart_v1"
	KeyUsers   = "demoshop_users_v1"
	KeySession = "demoshop_current_user_v1"
	KeyOrders  = "demoshop_orders_v1"
)

var ErrClosed = errors.New("store closed")

// Store is a process-local view of a key-value backend. Set replaces the
// whole value; merging is the caller's job.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
