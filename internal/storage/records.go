package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"DemoShop/internal/model"
)

// Records is the typed boundary over a Store. Missing or malformed
// records read back as their defaults: an empty cart, user directory or
// order history, and no session.
type Records struct {
	kv  Store
	log *zap.Logger
	mu  sync.Mutex

	// KnownProduct, when set, rejects cart and order lines whose
	// product id is not in the catalog.
	KnownProduct func(id int) bool
}

func NewRecords(kv Store, log *zap.Logger) *Records {
	if log == nil {
		log = zap.NewNop()
	}
	return &Records{kv: kv, log: log}
}

// Atomic runs fn with every other Atomic call in this process held off,
// so one manager's read-modify-write cannot interleave with another's.
// fn must not call Atomic itself.
func (r *Records) Atomic(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

func (r *Records) Ping(ctx context.Context) error { return r.kv.Ping(ctx) }

func (r *Records) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := r.kv.Get(ctx, key)
	return found, err
}

func (r *Records) Cart(ctx context.Context) ([]model.CartLine, error) {
	return load(ctx, r, KeyCart, []model.CartLine{}, func(v []model.CartLine) error {
		return model.ValidateCart(v, r.KnownProduct)
	})
}

func (r *Records) SetCart(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return save(ctx, r.kv, KeyCart, lines)
}

func (r *Records) Users(ctx context.Context) ([]model.User, error) {
	return load(ctx, r, KeyUsers, []model.User{}, model.ValidateUsers)
}

func (r *Records) SetUsers(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return save(ctx, r.kv, KeyUsers, users)
}

// Session returns nil when nobody is logged in.
func (r *Records) Session(ctx context.Context) (*model.Session, error) {
	return load(ctx, r, KeySession, (*model.Session)(nil), func(s *model.Session) error {
		if s == nil {
			return nil
		}
		return model.ValidateSession(*s)
	})
}

func (r *Records) SetSession(ctx context.Context, s model.Session) error {
	return save(ctx, r.kv, KeySession, s)
}

func (r *Records) ClearSession(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}

func (r *Records) Orders(ctx context.Context) ([]model.Order, error) {
	return load(ctx, r, KeyOrders, []model.Order{}, func(v []model.Order) error {
		return model.ValidateOrders(v, r.KnownProduct)
	})
}

func (r *Records) SetOrders(ctx context.Context, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	return save(ctx, r.kv, KeyOrders, orders)
}

// EnsureDefaults writes empty cart and order records when absent.
func (r *Records) EnsureDefaults(ctx context.Context) error {
	for key, def := range map[string]any{
		KeyCart:   []model.CartLine{},
		KeyOrders: []model.Order{},
	} {
		ok, err := r.Exists(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := save(ctx, r.kv, key, def); err != nil {
			return err
		}
	}
	return nil
}

func load[T any](ctx context.Context, r *Records, key string, def T, validate func(T) error) (T, error) {
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if !found || len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		r.log.Warn("record decode failed, using default", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	if err := validate(v); err != nil {
		r.log.Warn("record invalid, using default", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return v, nil
}

func save(ctx context.Context, kv Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
