package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avolkov/storefront/internal/cart"
	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/service/catalog"
	"github.com/avolkov/storefront/internal/transport"
)

type CartHTTP struct {
	Carts   *cart.Store
	Catalog *catalog.Service
}

func (h *CartHTTP) cart(c echo.Context) *cart.Cart {
	return h.Carts.Get(sessionID(c))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	crt := h.cart(c)
	return c.JSON(http.StatusOK, map[string]any{
		"items": crt.Lines(),
		"total": crt.Total(),
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil || req.Quantity < 1 {
		l.Warn("add_to_cart_error", "status", 400, "reason", "quantity>=1 and product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity>=1 and product_id required")
	}

	// Snapshot the current name and price at add-time.
	prod, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	crt := h.cart(c)
	if err := crt.Add(prod.ID, prod.VendorID, prod.Name, prod.Price, req.Quantity); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	l.Info("add_to_cart_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, map[string]any{"items": crt.Lines(), "total": crt.Total()})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "product_id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is not a uuid")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	crt := h.cart(c)
	if err := crt.UpdateQuantity(id, req.Quantity); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"items": crt.Lines(), "total": crt.Total()})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "product_id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is not a uuid")
	}

	crt := h.cart(c)
	crt.Remove(id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	h.Carts.Drop(sessionID(c))
	return c.NoContent(http.StatusNoContent)
}
