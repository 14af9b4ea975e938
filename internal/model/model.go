// Package model holds the records shared by the storefront managers and
// the persisted store.
package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleRetailer Role = "retailer"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleRetailer
}

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

type CartLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Session is the public projection of a User. It never carries the password.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rounded returns the summary rounded to cents for display.
func (s Summary) Rounded() Summary {
	return Summary{
		Subtotal: s.Subtotal.Round(2),
		Shipping: s.Shipping.Round(2),
		Tax:      s.Tax.Round(2),
		Total:    s.Total.Round(2),
	}
}

type Order struct {
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	CustomerName  string     `json:"customer_name"`
	Email         string     `json:"email"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	PostalCode    string     `json:"postal_code"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartLine `json:"items"`
	Summary       Summary    `json:"summary"`
}

// MaxQuantity bounds a single cart line.
const MaxQuantity = 9999

// ClampQuantity pins q into [1, MaxQuantity].
func ClampQuantity(q int) int {
	return min(max(q, 1), MaxQuantity)
}

// ItemCount is the sum of line quantities, saturating at math.MaxInt.
func ItemCount(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		if l.Quantity > 0 && n > math.MaxInt-l.Quantity {
			return math.MaxInt
		}
		n += l.Quantity
	}
	return n
}
