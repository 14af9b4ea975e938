// Package cart implements the read-modify-write operations over the
// persisted cart record.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"DemoShop/internal/catalog"
	"DemoShop/internal/model"
	"DemoShop/internal/storage"
)

var ErrRecordNotFound = errors.New("record not found")

var (
	freeShippingOver = decimal.NewFromInt(100)
	flatShipping     = decimal.RequireFromString("6.99")
	taxRate          = decimal.RequireFromString("0.07")
)

type Manager struct {
	records *storage.Records
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewManager(records *storage.Records, cat *catalog.Catalog, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{records: records, catalog: cat, log: log}
}

// AddItem merges quantity into the line for productID, appending a line
// if there is none. Quantities below 1 count as 1 and a line never grows
// past model.MaxQuantity. It returns the new total item count.
func (m *Manager) AddItem(ctx context.Context, productID, quantity int) (int, error) {
	if !m.catalog.Has(productID) {
		return 0, fmt.Errorf("product %d: %w", productID, ErrRecordNotFound)
	}
	quantity = model.ClampQuantity(quantity)

	var count int
	err := m.records.Atomic(func() error {
		lines, err := m.records.Cart(ctx)
		if err != nil {
			return err
		}

		if i := indexOf(lines, productID); i >= 0 {
			lines[i].Quantity = model.ClampQuantity(model.ClampQuantity(lines[i].Quantity) + quantity)
		} else {
			lines = append(lines, model.CartLine{ProductID: productID, Quantity: quantity})
		}

		if err := m.records.SetCart(ctx, lines); err != nil {
			return err
		}
		count = model.ItemCount(lines)
		return nil
	})
	return count, err
}

// SetQuantity clamps quantity into [1, model.MaxQuantity]. A missing
// line is a no-op.
func (m *Manager) SetQuantity(ctx context.Context, productID, quantity int) error {
	quantity = model.ClampQuantity(quantity)

	return m.records.Atomic(func() error {
		lines, err := m.records.Cart(ctx)
		if err != nil {
			return err
		}

		i := indexOf(lines, productID)
		if i < 0 {
			m.log.Debug("set quantity on missing line", zap.Int("product_id", productID))
			return nil
		}
		if lines[i].Quantity == quantity {
			return nil
		}
		lines[i].Quantity = quantity
		return m.records.SetCart(ctx, lines)
	})
}

// RemoveItem drops the line for productID. A missing line is a no-op.
func (m *Manager) RemoveItem(ctx context.Context, productID int) error {
	return m.records.Atomic(func() error {
		lines, err := m.records.Cart(ctx)
		if err != nil {
			return err
		}

		i := indexOf(lines, productID)
		if i < 0 {
			return nil
		}
		return m.records.SetCart(ctx, append(lines[:i], lines[i+1:]...))
	})
}

func (m *Manager) Clear(ctx context.Context) error {
	return m.records.Atomic(func() error {
		return m.records.SetCart(ctx, nil)
	})
}

func (m *Manager) Lines(ctx context.Context) ([]model.CartLine, error) {
	return m.records.Cart(ctx)
}

func (m *Manager) Count(ctx context.Context) (int, error) {
	lines, err := m.records.Cart(ctx)
	if err != nil {
		return 0, err
	}
	return model.ItemCount(lines), nil
}

func (m *Manager) ComputeSummary(ctx context.Context) (model.Summary, error) {
	lines, err := m.records.Cart(ctx)
	if err != nil {
		return model.Summary{}, err
	}
	return Summarize(lines, m.catalog), nil
}

// Summarize prices lines against cat at full precision. Shipping is
// free strictly above 100; tax is 7% of the subtotal.
func Summarize(lines []model.CartLine, cat *catalog.Catalog) model.Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(cat.Price(l.ProductID).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate)

	return model.Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func indexOf(lines []model.CartLine, productID int) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
