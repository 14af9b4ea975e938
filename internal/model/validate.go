package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSchema = errors.New("schema violation")

func schemaErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSchema}, args...)...)
}

// ValidateCart checks quantities, id uniqueness and, when known is not
// nil, that every line references a catalog product.
func ValidateCart(lines []CartLine, known func(id int) bool) error {
	seen := make(map[int]struct{}, len(lines))
	for i, l := range lines {
		if l.ProductID <= 0 {
			return schemaErr("line %d: product_id=%d", i, l.ProductID)
		}
		if l.Quantity < 1 {
			return schemaErr("line %d: quantity=%d", i, l.Quantity)
		}
		if _, dup := seen[l.ProductID]; dup {
			return schemaErr("line %d: duplicate product_id=%d", i, l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
		if known != nil && !known(l.ProductID) {
			return schemaErr("line %d: unknown product_id=%d", i, l.ProductID)
		}
	}
	return nil
}

func ValidateUsers(users []User) error {
	seen := make(map[string]struct{}, len(users))
	for i, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			return schemaErr("user %d: email/password required", i)
		}
		if !u.Role.Valid() {
			return schemaErr("user %d: role=%q", i, u.Role)
		}
		if _, dup := seen[email]; dup {
			return schemaErr("user %d: duplicate email", i)
		}
		seen[email] = struct{}{}
	}
	return nil
}

func ValidateSession(s Session) error {
	if strings.TrimSpace(s.Email) == "" {
		return schemaErr("session: email required")
	}
	if !s.Role.Valid() {
		return schemaErr("session: role=%q", s.Role)
	}
	return nil
}

func ValidateOrders(orders []Order, known func(id int) bool) error {
	seen := make(map[string]struct{}, len(orders))
	for i, o := range orders {
		if o.ID == "" {
			return schemaErr("order %d: id required", i)
		}
		if _, dup := seen[o.ID]; dup {
			return schemaErr("order %d: duplicate id %s", i, o.ID)
		}
		seen[o.ID] = struct{}{}
		if len(o.Items) == 0 {
			return schemaErr("order %s: no items", o.ID)
		}
		if err := ValidateCart(o.Items, known); err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}
	return nil
}
