package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"DemoShop/internal/model"
)

// Query narrows the product list. Zero values mean "no constraint";
// price bounds are inclusive.
type Query struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Text     string
}

// Categories returns distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.products))
	out := make([]string, 0, len(c.products))
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func (c *Catalog) Find(q Query) []model.Product {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.Category != "" && q.Category != p.Category {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if text != "" && !matches(p, text) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Search matches name, description and category, case-insensitively.
func (c *Catalog) Search(text string) []model.Product {
	return c.Find(Query{Text: text})
}

func matches(p model.Product, lowered string) bool {
	hay := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
	return strings.Contains(hay, lowered)
}
