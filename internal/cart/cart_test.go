package cart

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"DemoShop/internal/catalog"
	"DemoShop/internal/model"
	"DemoShop/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Records) {
	t.Helper()
	cat := catalog.Default()
	rec := storage.NewRecords(storage.NewMemStore(), nil)
	rec.KnownProduct = cat.Has
	return NewManager(rec, cat, nil), rec
}

func TestAddItem_MergesRepeatedAdds(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	for _, q := range []int{1, 2, 3} {
		if _, err := m.AddItem(ctx, 5, q); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	count, err := m.AddItem(ctx, 2, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if count != 7 {
		t.Fatalf("count=%d want=7", count)
	}

	lines, err := m.Lines(ctx)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []model.CartLine{{ProductID: 5, Quantity: 6}, {ProductID: 2, Quantity: 1}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines=%v want=%v", lines, want)
	}
}

func TestAddItem_NonPositiveQuantityCountsAsOne(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 1, 0); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := m.AddItem(ctx, 1, -4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	n, _ := m.Count(ctx)
	if n != 2 {
		t.Fatalf("count=%d want=2", n)
	}
}

func TestAddItem_UnknownProductLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 1, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	_, err := m.AddItem(ctx, 404, 1)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	lines, _ := m.Lines(ctx)
	if len(lines) != 1 || lines[0].ProductID != 1 {
		t.Fatalf("lines=%v", lines)
	}
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	ctx := context.Background()

	for _, q := range []int{0, -1, -100} {
		m, _ := newTestManager(t)
		if _, err := m.AddItem(ctx, 3, 5); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if err := m.SetQuantity(ctx, 3, q); err != nil {
			t.Fatalf("SetQuantity(%d): %v", q, err)
		}
		lines, _ := m.Lines(ctx)
		if lines[0].Quantity != 1 {
			t.Fatalf("SetQuantity(%d) quantity=%d want=1", q, lines[0].Quantity)
		}
	}
}

func TestSetQuantityAndRemove_MissingLineIsNoop(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 1, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := m.SetQuantity(ctx, 9, 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if err := m.RemoveItem(ctx, 9); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	lines, _ := m.Lines(ctx)
	want := []model.CartLine{{ProductID: 1, Quantity: 2}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines=%v want=%v", lines, want)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	for _, id := range []int{1, 2, 3} {
		if _, err := m.AddItem(ctx, id, 1); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if err := m.RemoveItem(ctx, 2); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	lines, _ := m.Lines(ctx)
	want := []model.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 3, Quantity: 1}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines=%v want=%v", lines, want)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	lines, _ = m.Lines(ctx)
	if len(lines) != 0 {
		t.Fatalf("lines=%v want empty", lines)
	}
}

func TestComputeSummary_WorkedExample(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestManager(t)

	if err := rec.SetCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}); err != nil {
		t.Fatalf("SetCart: %v", err)
	}

	s, err := m.ComputeSummary(ctx)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	check := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%s=%s want=%s", name, got, want)
		}
	}
	check("subtotal", s.Subtotal, "169.97")
	check("shipping", s.Shipping, "0")
	check("tax", s.Tax, "11.8979")
	check("total", s.Total, "181.8679")
	check("rounded total", s.Rounded().Total, "181.87")

	if !s.Total.Equal(s.Subtotal.Add(s.Shipping).Add(s.Tax)) {
		t.Fatalf("total != subtotal + shipping + tax")
	}
}

func TestSummarize_ShippingThreshold(t *testing.T) {
	cat := catalog.New([]model.Product{
		{ID: 1, Price: decimal.RequireFromString("100")},
		{ID: 2, Price: decimal.RequireFromString("0.01")},
	})

	at := Summarize([]model.CartLine{{ProductID: 1, Quantity: 1}}, cat)
	if !at.Shipping.Equal(decimal.RequireFromString("6.99")) {
		t.Fatalf("subtotal exactly 100 must pay shipping, got %s", at.Shipping)
	}

	above := Summarize([]model.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}, cat)
	if !above.Shipping.IsZero() {
		t.Fatalf("subtotal above 100 ships free, got %s", above.Shipping)
	}
}

func TestView_JoinsCatalog(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 10, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	v, err := m.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if v.Count != 3 || len(v.Lines) != 1 {
		t.Fatalf("view=%+v", v)
	}
	if v.Lines[0].Product.Name != "Sunglasses" {
		t.Fatalf("product=%s", v.Lines[0].Product.Name)
	}
	if !v.Lines[0].LineTotal.Equal(decimal.RequireFromString("89.97")) {
		t.Fatalf("line total=%s", v.Lines[0].LineTotal)
	}
}

func TestAddItem_HugeQuantityIsCappedAndKeepsOtherLines(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 2, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	count, err := m.AddItem(ctx, 1, math.MaxInt)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if count != model.MaxQuantity+1 {
		t.Fatalf("count=%d want=%d", count, model.MaxQuantity+1)
	}

	count, err = m.AddItem(ctx, 1, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if count != model.MaxQuantity+1 {
		t.Fatalf("count after merge=%d want=%d", count, model.MaxQuantity+1)
	}

	lines, _ := m.Lines(ctx)
	want := []model.CartLine{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: model.MaxQuantity}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines=%v want=%v", lines, want)
	}
}

func TestSetQuantity_CapsAtMax(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.AddItem(ctx, 4, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := m.SetQuantity(ctx, 4, math.MaxInt); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	lines, _ := m.Lines(ctx)
	if len(lines) != 1 || lines[0].Quantity != model.MaxQuantity {
		t.Fatalf("lines=%v", lines)
	}
}

func TestItemCount_Saturates(t *testing.T) {
	lines := []model.CartLine{
		{ProductID: 1, Quantity: math.MaxInt},
		{ProductID: 2, Quantity: 5},
	}
	if got := model.ItemCount(lines); got != math.MaxInt {
		t.Fatalf("ItemCount=%d want=%d", got, math.MaxInt)
	}
}

func TestAddItem_MergeIntoOversizedStoredLine(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestManager(t)

	if err := rec.SetCart(ctx, []model.CartLine{{ProductID: 6, Quantity: math.MaxInt}}); err != nil {
		t.Fatalf("SetCart: %v", err)
	}
	count, err := m.AddItem(ctx, 6, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if count != model.MaxQuantity {
		t.Fatalf("count=%d want=%d", count, model.MaxQuantity)
	}
}
