package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/storefront/internal/cart"
	"github.com/avolkov/storefront/internal/identity"
	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/service/catalog"
	"github.com/avolkov/storefront/internal/service/checkout"
	"github.com/avolkov/storefront/internal/transport"
)

type CheckoutHTTP struct {
	Carts     *cart.Store
	Svc       *checkout.Service
	Publisher catalog.Publisher
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	customerID := identity.CustomerID(c)
	crt := h.Carts.Get(sessionID(c))

	res, err := h.Svc.PlaceOrder(ctx, crt, customerID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			l.Warn("place_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		case errors.Is(err, checkout.ErrNoValidItems):
			l.Warn("place_order_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "no valid items to order")
		case errors.Is(err, checkout.ErrOrderPersistence):
			l.Error("place_order_error", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "order was not placed, cart kept")
		default:
			l.Error("place_order_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publishOrderCreated(ctx, res, customerID)

	l.Info("place_order_success", "order_id", res.Order.ID,
		"customer_id", customerID, "failed_vendors", len(res.FailedVendors))
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{
		OrderID:       res.Order.ID,
		Amount:        res.Order.Amount,
		Status:        res.Order.Status,
		FailedVendors: res.FailedVendors,
	})
}

func (h *CheckoutHTTP) publishOrderCreated(ctx context.Context, res *checkout.Result, customerID string) {
	if h.Publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]interface{}{
		"type":           "order_created",
		"order_id":       res.Order.ID,
		"customer_id":    customerID,
		"amount":         res.Order.Amount,
		"failed_vendors": res.FailedVendors,
	}
	if err := h.Publisher.PublishEvent(pubCtx, "order_events", res.Order.ID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", "order_created", "error", err)
	}
}
