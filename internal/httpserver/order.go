package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avolkov/storefront/internal/identity"
	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/util"
)

// OrderReader is the read side of the order repository.
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, customerID string, offset, limit int) ([]models.Order, error)
}

type OrderHTTP struct {
	Orders OrderReader
}

// ListOrders returns the current customer's order history, newest first.
func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	customerID := identity.CustomerID(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 10)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Orders.ListOrders(ctx, customerID, offset, limit)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": orders})
}

// GetOrder returns one order. Orders of other customers read as not found.
func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	order, err := h.Orders.GetOrder(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("get_order_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read order")
	}
	if order.CustomerID != identity.CustomerID(c) {
		l.Warn("get_order_error", "status", 404, "reason", "customer mismatch", "order_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, order)
}
