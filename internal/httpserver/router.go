package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/storefront/internal/identity"
)

type Deps struct {
	ProductHandler  *ProductHTTP
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	OrderHandler    *OrderHTTP
	SearchHandler   *SearchHTTP
	JWTSecret       []byte
	Logger          *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(RequestLogger(d.Logger))
	e.Use(Session())
	e.Use(identity.Middleware(d.JWTSecret))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PATCH("/:id", d.ProductHandler.PatchProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	api.GET("/categories", d.ProductHandler.GetCategories)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}

	crt := api.Group("/cart")
	crt.GET("", d.CartHandler.GetCart)
	crt.POST("", d.CartHandler.AddToCart)
	crt.PATCH("/:product_id", d.CartHandler.UpdateQuantity)
	crt.DELETE("/:product_id", d.CartHandler.RemoveFromCart)
	crt.DELETE("", d.CartHandler.ClearCart)

	api.POST("/checkout", d.CheckoutHandler.PlaceOrder)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
}
