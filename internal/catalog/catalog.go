// Package catalog holds the fixed product list. It is seeded once and
// never mutated, so it needs no locking.
package catalog

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"DemoShop/internal/model"
)

const featuredCount = 4

type Catalog struct {
	products []model.Product
	byID     map[int]int
}

// New builds a catalog from products, keeping their order. Duplicate ids
// keep the first occurrence.
func New(products []model.Product) *Catalog {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default returns the storefront's demo catalog.
func Default() *Catalog {
	return New(seed())
}

func (c *Catalog) List() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) ListSortedByID() []model.Product {
	out := c.List()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) Get(id int) (model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Price returns the unit price of id, or zero for an unknown id.
func (c *Catalog) Price(id int) decimal.Decimal {
	p, ok := c.Get(id)
	if !ok {
		return decimal.Zero
	}
	return p.Price
}

func (c *Catalog) Featured() []model.Product {
	n := featuredCount
	if n > len(c.products) {
		n = len(c.products)
	}
	out := make([]model.Product, n)
	copy(out, c.products[:n])
	return out
}

func seed() []model.Product {
	return []model.Product{
		product(1, "Classic White Tee", "19.99", "Soft cotton tee, everyday essential.", "Clothing"),
		product(2, "Blue Denim Jacket", "79.00", "Stylish denim jacket for cooler days.", "Clothing"),
		product(3, "Wireless Headphones", "129.99", "Noise-cancelling over-ear headphones.", "Electronics"),
		product(4, "Espresso Maker", "89.50", "Compact espresso machine for home.", "Home"),
		product(5, "Stainless Water Bottle", "24.99", "Keeps drinks cold for 24 hours.", "Accessories"),
		product(6, "Running Sneakers", "69.00", "Lightweight and comfortable.", "Footwear"),
		product(7, "Smartwatch", "199.99", "Track activity, notifications and more.", "Electronics"),
		product(8, "Decorative Lamp", "45.00", "Stylish lamp for living spaces.", "Home"),
		product(9, "Travel Backpack", "55.75", "Durable backpack with multiple compartments.", "Accessories"),
		product(10, "Sunglasses", "29.99", "UV protected sunglasses.", "Accessories"),
	}
}

func product(id int, name, price, desc, category string) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Image:       "https://picsum.photos/seed/p" + strconv.Itoa(id) + "/600/400",
		Description: desc,
		Category:    category,
	}
}
