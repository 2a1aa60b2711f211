// Package catalog implements product management with validation at the
// workflow boundary, so malformed submissions never reach the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

const publishTimeout = 5 * time.Second

// Indexer mirrors catalog mutations into the search index, best effort.
type Indexer interface {
	IndexProduct(ctx context.Context, prod *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Publisher emits domain events, best effort.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type Service struct {
	Repo      *repo.GormRepo
	Indexer   Indexer
	Publisher Publisher
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if repo.IsNotFound(err) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return prod, err
}

func (s *Service) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	price, err := validatePrice(req.Price)
	if err != nil {
		return nil, err
	}
	if err := validateFields(req.Name, req.Description, req.Category, req.ImageURL); err != nil {
		return nil, err
	}
	if req.Inventory < 0 {
		return nil, fmt.Errorf("inventory must be >= 0: %w", ErrValidation)
	}

	prod := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       price,
		Category:    strings.TrimSpace(req.Category),
		ImageURL:    req.ImageURL,
		VendorID:    req.VendorID,
		Inventory:   req.Inventory,
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	s.mirror(ctx, created)
	s.publish(ctx, "product_created", created.ID.String(), map[string]interface{}{
		"type":       "product_created",
		"product_id": created.ID,
		"name":       created.Name,
	})
	return created, nil
}

func (s *Service) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return nil, fmt.Errorf("category cannot be empty: %w", ErrValidation)
	}
	if req.Inventory != nil && *req.Inventory < 0 {
		return nil, fmt.Errorf("inventory must be >= 0: %w", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if repo.IsNotFound(err) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.mirror(ctx, prod)
	s.publish(ctx, "product_updated", prod.ID.String(), map[string]interface{}{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})
	return prod, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if repo.IsNotFound(err) {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_deindex_failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, "product_deleted", id.String(), map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

// ListCategories is a full rescan of the catalog's category column.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *Service) mirror(ctx context.Context, prod *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, name, key string, event map[string]interface{}) {
	if s.Publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.Publisher.PublishEvent(pubCtx, "product_events", key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", name, "error", err)
	}
}

func validatePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", raw, ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return price, nil
}

func validateFields(name, description, category, imageURL string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name required: %w", ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description required: %w", ErrValidation)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category required: %w", ErrValidation)
	}
	if imageURL != "" {
		u, err := url.Parse(imageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("image_url must be a valid http(s) URL: %w", ErrValidation)
		}
	}
	return nil
}
