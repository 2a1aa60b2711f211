package checkout

import "errors"

var (
	// ErrEmptyCart rejects a checkout with nothing in it.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrNoValidItems means every line failed its inventory check; no order
	// was created and the cart is left intact.
	ErrNoValidItems = errors.New("no valid items to order")
	// ErrOrderPersistence means the final order insert failed. Inventory
	// already decremented for this attempt stays decremented and the cart is
	// kept so the customer can retry.
	ErrOrderPersistence = errors.New("order could not be persisted")
)
