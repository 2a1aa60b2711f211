package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avolkov/storefront/internal/cart"
	"github.com/avolkov/storefront/internal/config"
	"github.com/avolkov/storefront/internal/es"
	"github.com/avolkov/storefront/internal/events"
	"github.com/avolkov/storefront/internal/httpserver"
	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/service/catalog"
	"github.com/avolkov/storefront/internal/service/checkout"
	"github.com/avolkov/storefront/internal/service/search"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var searchSvc *search.Service
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchSvc = &search.Service{ES: esClient}
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
		defer producer.Close()
	}

	catalogSvc := &catalog.Service{Repo: gormRepo}
	if searchSvc != nil {
		catalogSvc.Indexer = searchSvc
	}
	if producer != nil {
		catalogSvc.Publisher = producer
	}

	checkoutSvc := &checkout.Service{
		Products: gormRepo,
		Orders:   gormRepo,
		Mode:     checkout.Mode(cfg.CheckoutMode),
	}

	carts := cart.NewStore()

	var searchHandler *httpserver.SearchHTTP
	if searchSvc != nil {
		searchHandler = &httpserver.SearchHTTP{Svc: searchSvc}
	}

	checkoutHandler := &httpserver.CheckoutHTTP{Carts: carts, Svc: checkoutSvc}
	if producer != nil {
		checkoutHandler.Publisher = producer
	}

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHTTP{Carts: carts, Catalog: catalogSvc},
		CheckoutHandler: checkoutHandler,
		OrderHandler:    &httpserver.OrderHTTP{Orders: gormRepo},
		SearchHandler:   searchHandler,
		JWTSecret:       []byte(cfg.JWTSecret),
		Logger:          logger,
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
