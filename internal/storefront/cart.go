// Package storefront holds the client side of the shop: locally persisted
// cart state, the checkout flow, and a JSON client for the REST API.
package storefront

import (
	"fmt"
)

// Product is the catalog snapshot a cart entry carries. IDs are the
// server's identifiers, kept as strings on the client.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Unit  string  `json:"unit"`
}

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is an ordered, write-through collection of line items. Every
// mutation persists the new state before returning, so the stored copy
// always mirrors memory. Entries never hold a quantity below 1.
type Cart struct {
	items   []CartItem
	storage Storage
}

// NewCart loads any previously persisted cart state from storage.
func NewCart(storage Storage) (*Cart, error) {
	items, err := storage.LoadCart()
	if err != nil {
		return nil, fmt.Errorf("cart: failed to load persisted cart: %w", err)
	}
	return &Cart{items: items, storage: storage}, nil
}

// Add puts one unit of the product in the cart, incrementing the quantity
// when the product is already present.
func (c *Cart) Add(p Product) error {
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			return c.persist()
		}
	}
	c.items = append(c.items, CartItem{Product: p, Quantity: 1})
	return c.persist()
}

// UpdateQuantity adjusts the entry's quantity by delta. An entry whose
// quantity would drop to zero or below is removed entirely.
func (c *Cart) UpdateQuantity(productID string, delta int) error {
	for i := range c.items {
		if c.items[i].ID != productID {
			continue
		}
		newQty := c.items[i].Quantity + delta
		if newQty > 0 {
			c.items[i].Quantity = newQty
		} else {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return c.persist()
	}
	return nil
}

// Remove deletes the entry unconditionally.
func (c *Cart) Remove(productID string) error {
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// Total returns the sum of price times quantity over all entries.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Items returns a copy of the current entries in insertion order.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Clear empties the cart and erases the persisted copy.
func (c *Cart) Clear() error {
	c.items = nil
	if err := c.storage.ClearCart(); err != nil {
		return fmt.Errorf("cart: failed to clear persisted cart: %w", err)
	}
	return nil
}

func (c *Cart) persist() error {
	if err := c.storage.SaveCart(c.items); err != nil {
		return fmt.Errorf("cart: failed to persist cart: %w", err)
	}
	return nil
}
