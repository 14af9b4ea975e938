package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"DemoShop/internal/catalog"
	"DemoShop/internal/model"
)

type LineView struct {
	Product   model.Product   `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type View struct {
	Lines   []LineView    `json:"lines"`
	Count   int           `json:"count"`
	Summary model.Summary `json:"summary"`
}

// View joins the cart with the catalog for display. Money is rounded to
// cents; the unrounded values stay available through ComputeSummary.
func (m *Manager) View(ctx context.Context) (View, error) {
	lines, err := m.records.Cart(ctx)
	if err != nil {
		return View{}, err
	}
	return BuildView(lines, m.catalog), nil
}

func BuildView(lines []model.CartLine, cat *catalog.Catalog) View {
	v := View{
		Lines:   make([]LineView, 0, len(lines)),
		Count:   model.ItemCount(lines),
		Summary: Summarize(lines, cat).Rounded(),
	}
	for _, l := range lines {
		p, _ := cat.Get(l.ProductID)
		v.Lines = append(v.Lines, LineView{
			Product:   p,
			Quantity:  l.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
		})
	}
	return v
}
