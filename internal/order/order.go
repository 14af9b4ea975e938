package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"DemoShop/internal/cart"
	"DemoShop/internal/catalog"
	"DemoShop/internal/events"
	"DemoShop/internal/model"
	"DemoShop/internal/storage"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidDetails = errors.New("invalid customer details")
)

const publishTimeout = 2 * time.Second

// Details is what the customer enters at checkout.
type Details struct {
	CustomerName  string `json:"customer_name"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	PaymentMethod string `json:"payment_method"`
}

func (d Details) normalize() Details {
	return Details{
		CustomerName:  strings.TrimSpace(d.CustomerName),
		Email:         strings.TrimSpace(d.Email),
		Address:       strings.TrimSpace(d.Address),
		City:          strings.TrimSpace(d.City),
		PostalCode:    strings.TrimSpace(d.PostalCode),
		PaymentMethod: strings.TrimSpace(d.PaymentMethod),
	}
}

func (d Details) validate() error {
	var missing []string
	if d.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if d.Email == "" {
		missing = append(missing, "email")
	}
	if d.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDetails, strings.Join(missing, ", "))
	}
	return nil
}

type Manager struct {
	records *storage.Records
	catalog *catalog.Catalog
	events  events.Publisher
	log     *zap.Logger

	Now   func() time.Time
	NewID func(now time.Time) string
}

func NewManager(records *storage.Records, cat *catalog.Catalog, pub events.Publisher, log *zap.Logger) *Manager {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		records: records,
		catalog: cat,
		events:  pub,
		log:     log,
		Now:     func() time.Time { return time.Now().UTC() },
		NewID:   newOrderID,
	}
}

// newOrderID is "ORD" + unix millis, suffixed with random hex so two
// checkouts in the same millisecond stay distinct.
func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + strings.ToUpper(suffix)
}

// PlaceOrder snapshots the cart into a new order, appends it to the
// history and empties the cart. Either both writes land or neither does.
func (m *Manager) PlaceOrder(ctx context.Context, d Details) (string, error) {
	d = d.normalize()

	var placed model.Order
	err := m.records.Atomic(func() error {
		lines, err := m.records.Cart(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		if err := d.validate(); err != nil {
			return err
		}

		history, err := m.records.Orders(ctx)
		if err != nil {
			return err
		}

		now := m.Now()
		placed = model.Order{
			ID:            m.uniqueID(now, history),
			Timestamp:     now,
			CustomerName:  d.CustomerName,
			Email:         d.Email,
			Address:       d.Address,
			City:          d.City,
			PostalCode:    d.PostalCode,
			PaymentMethod: d.PaymentMethod,
			Items:         slices.Clone(lines),
			Summary:       cart.Summarize(lines, m.catalog),
		}

		prev := slices.Clone(history)
		if err := m.records.SetOrders(ctx, append(history, placed)); err != nil {
			return fmt.Errorf("append order: %w", err)
		}

		if err := m.records.SetCart(ctx, nil); err != nil {
			if rbErr := m.records.SetOrders(ctx, prev); rbErr != nil {
				m.log.Error("order rollback failed",
					zap.String("order_id", placed.ID), zap.Error(rbErr))
			}
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	m.publishPlaced(ctx, placed)
	return placed.ID, nil
}

func (m *Manager) uniqueID(now time.Time, history []model.Order) string {
	taken := func(id string) bool {
		return slices.ContainsFunc(history, func(o model.Order) bool { return o.ID == id })
	}
	id := m.NewID(now)
	for n := 2; taken(id); n++ {
		id = m.NewID(now) + "-" + strconv.Itoa(n)
	}
	return id
}

func (m *Manager) publishPlaced(ctx context.Context, o model.Order) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := events.OrderPlaced{
		OrderID:   o.ID,
		Email:     o.Email,
		Total:     o.Summary.Rounded().Total,
		ItemCount: model.ItemCount(o.Items),
		PlacedAt:  o.Timestamp,
	}
	if err := events.PublishJSON(pctx, m.events, events.TypeOrderPlaced, o.ID, ev); err != nil {
		m.log.Warn("publish order.placed failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

// ListOrders returns the history most recent first.
func (m *Manager) ListOrders(ctx context.Context) ([]model.Order, error) {
	history, err := m.records.Orders(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(history)
	return history, nil
}

func (m *Manager) GetOrder(ctx context.Context, id string) (model.Order, error) {
	history, err := m.records.Orders(ctx)
	if err != nil {
		return model.Order{}, err
	}
	for _, o := range history {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
}
