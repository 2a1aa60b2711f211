// Package cart holds in-progress customer selections. Carts live in process
// memory for the lifetime of a browser session and are never persisted.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation")

// Line is one product selection with the name and price snapshotted at
// add-time, so a later catalog edit does not silently reprice the cart.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	VendorID  string    `json:"vendor_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Cart keeps one line per product and preserves insertion order.
type Cart struct {
	mu    sync.Mutex
	lines map[uuid.UUID]*Line
	order []uuid.UUID
}

func New() *Cart {
	return &Cart{lines: make(map[uuid.UUID]*Line)}
}

// Add inserts a new line or accumulates quantity on an existing one.
func (c *Cart) Add(productID uuid.UUID, vendorID, name string, price float64, quantity int) error {
	if productID == uuid.Nil {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1: %w", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[productID]; ok {
		line.Quantity += quantity
		return nil
	}
	c.lines[productID] = &Line{ProductID: productID, VendorID: vendorID, Name: name, Price: price, Quantity: quantity}
	c.order = append(c.order, productID)
	return nil
}

// UpdateQuantity sets a line's quantity directly. Non-positive values are
// rejected rather than clamped; removal goes through Remove.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1: %w", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return fmt.Errorf("product not in cart: %w", ErrValidation)
	}
	line.Quantity = quantity
	return nil
}

// Remove deletes the line if present, no-op otherwise.
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = make(map[uuid.UUID]*Line)
	c.order = nil
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total is the sum of price*quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Store maps session ids to carts. It is process-local: restarting the
// service empties every cart, which matches the session-lifetime contract.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the session's cart, creating it on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c = New()
	s.carts[sessionID] = c
	return c
}

// Drop forgets the session's cart entirely.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
