package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DemoShop/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Len(t, c.List(), 10)

	p, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Classic White Tee", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))

	_, ok = c.Get(99)
	assert.False(t, ok)
	assert.True(t, c.Price(99).IsZero())

	assert.Equal(t, []string{"Clothing", "Electronics", "Home", "Accessories", "Footwear"}, c.Categories())

	feat := c.Featured()
	require.Len(t, feat, 4)
	assert.Equal(t, 4, feat[3].ID)
}

func TestListIsACopy(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Name = "changed"

	p, _ := c.Get(1)
	assert.Equal(t, "Classic White Tee", p.Name)
}

func TestNewKeepsFirstDuplicate(t *testing.T) {
	c := New([]model.Product{
		{ID: 1, Name: "a"},
		{ID: 1, Name: "b"},
	})
	require.Len(t, c.List(), 1)
	p, _ := c.Get(1)
	assert.Equal(t, "a", p.Name)
}

func TestFind(t *testing.T) {
	c := Default()

	lo := decimal.NewFromInt(50)
	hi := decimal.NewFromInt(100)

	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{"all", Query{}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"category", Query{Category: "Home"}, []int{4, 8}},
		{"price band", Query{MinPrice: &lo, MaxPrice: &hi}, []int{2, 4, 6, 9}},
		{"category and price", Query{Category: "Clothing", MinPrice: &lo}, []int{2}},
		{"text in description", Query{Text: "NOISE"}, []int{3}},
		{"text in category", Query{Text: "footwear"}, []int{6}},
		{"no match", Query{Text: "zebra"}, []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Find(tc.q)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}
