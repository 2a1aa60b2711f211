// Package checkout converts a session cart into a persisted order,
// reconciling product inventory along the way.
package checkout

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/storefront/internal/cart"
	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/models"
)

// Mode selects the checkout strategy. Strict is the inventory-aware path;
// Permissive is the legacy unconditional insert kept only for rollback and
// deprecated.
type Mode string

const (
	ModeStrict     Mode = "strict"
	ModePermissive Mode = "permissive"
)

const defaultCallTimeout = 5 * time.Second

// ProductStore is the slice of the product repository the workflow needs.
type ProductStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// DecrementInventory must be conditional on current stock >= amount and
	// atomic per statement.
	DecrementInventory(ctx context.Context, id uuid.UUID, amount int) error
}

// OrderStore persists the final order record.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

type Service struct {
	Products    ProductStore
	Orders      OrderStore
	Mode        Mode
	CallTimeout time.Duration
}

// Result reports a placed order together with the vendors whose lines were
// dropped, so the caller can surface a partial-failure notice.
type Result struct {
	Order         *models.Order
	FailedVendors []string
}

// PlaceOrder runs the checkout workflow for one cart. Per-line failures
// (missing product, insufficient stock, lost decrement race) drop the line and
// record its vendor; they never abort the whole attempt. The cart is cleared
// on success, including partial success, and kept on any whole-operation
// failure.
func (s *Service) PlaceOrder(ctx context.Context, crt *cart.Cart, customerID string) (*Result, error) {
	lines := crt.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if s.Mode == ModePermissive {
		return s.placeUnchecked(ctx, crt, lines, customerID)
	}

	survivors, failedVendors := s.reserveLines(ctx, lines)
	if len(survivors) == 0 {
		return nil, ErrNoValidItems
	}

	var total float64
	items := make([]models.OrderItem, 0, len(survivors))
	for _, it := range survivors {
		total += it.Price * float64(it.Quantity)
		items = append(items, it)
	}

	order := &models.Order{
		CustomerID: customerID,
		Amount:     total,
		Status:     models.OrderStatusPending,
		Items:      items,
	}
	created, err := s.Orders.CreateOrder(ctx, order)
	if err != nil {
		// Inventory already taken for the survivors is not compensated here;
		// the cart stays intact for a retry.
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	crt.Clear()
	return &Result{Order: created, FailedVendors: failedVendors}, nil
}

// reserveLines runs the fetch-then-decrement pair for every line. Lines are
// independent units: they run concurrently and there is no cross-line
// transaction, so a failure in one never unwinds another.
func (s *Service) reserveLines(ctx context.Context, lines []cart.Line) ([]models.OrderItem, []string) {
	l := logging.FromContext(ctx)

	type outcome struct {
		item         models.OrderItem
		ok           bool
		failedVendor string
	}

	results := make([]outcome, len(lines))
	var wg sync.WaitGroup
	for i := range lines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			line := lines[i]

			prod, err := s.fetchProduct(ctx, line.ProductID)
			if err != nil {
				l.Warn("checkout_line_dropped", "product_id", line.ProductID, "reason", "fetch_failed", "error", err)
				results[i] = outcome{failedVendor: vendorOf(prod, line)}
				return
			}
			if prod.Inventory < line.Quantity {
				l.Warn("checkout_line_dropped", "product_id", line.ProductID, "reason", "insufficient_stock",
					"have", prod.Inventory, "want", line.Quantity)
				results[i] = outcome{failedVendor: prod.VendorID}
				return
			}
			if err := s.decrement(ctx, line.ProductID, line.Quantity); err != nil {
				l.Warn("checkout_line_dropped", "product_id", line.ProductID, "reason", "decrement_failed", "error", err)
				results[i] = outcome{failedVendor: prod.VendorID}
				return
			}

			results[i] = outcome{
				ok: true,
				item: models.OrderItem{
					ProductID: line.ProductID,
					VendorID:  prod.VendorID,
					Quantity:  line.Quantity,
					Price:     line.Price,
				},
			}
		}(i)
	}
	wg.Wait()

	survivors := make([]models.OrderItem, 0, len(lines))
	failed := make(map[string]struct{})
	for _, res := range results {
		if res.ok {
			survivors = append(survivors, res.item)
			continue
		}
		failed[res.failedVendor] = struct{}{}
	}

	failedVendors := make([]string, 0, len(failed))
	for v := range failed {
		failedVendors = append(failedVendors, v)
	}
	sort.Strings(failedVendors)
	return survivors, failedVendors
}

// placeUnchecked is the deprecated live path: one insert for the full cart
// total, no inventory reconciliation, no line items.
func (s *Service) placeUnchecked(ctx context.Context, crt *cart.Cart, lines []cart.Line, customerID string) (*Result, error) {
	var total float64
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}

	order := &models.Order{
		CustomerID: customerID,
		Amount:     total,
		Status:     models.OrderStatusPending,
	}
	created, err := s.Orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	crt.Clear()
	return &Result{Order: created}, nil
}

func (s *Service) fetchProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.Products.GetProduct(callCtx, id)
}

func (s *Service) decrement(ctx context.Context, id uuid.UUID, amount int) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()
	return s.Products.DecrementInventory(callCtx, id, amount)
}

func (s *Service) callTimeout() time.Duration {
	if s.CallTimeout > 0 {
		return s.CallTimeout
	}
	return defaultCallTimeout
}

// vendorOf prefers the freshly fetched vendor and falls back to the add-time
// snapshot when the fetch itself failed.
func vendorOf(prod *models.Product, line cart.Line) string {
	if prod != nil && prod.VendorID != "" {
		return prod.VendorID
	}
	if line.VendorID != "" {
		return line.VendorID
	}
	return line.ProductID.String()
}
