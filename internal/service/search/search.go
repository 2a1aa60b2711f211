// Package search queries the product index in Elasticsearch. The index is
// mirrored from the catalog on every mutation, best effort.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/avolkov/storefront/internal/models"
)

const Index = "products"

type Service struct {
	ES *elasticsearch.Client
}

type Results struct {
	Total int64
	Items []models.Product
}

// Search runs a fuzzy multi-match over name and description, optionally
// narrowed to one category. An empty query matches everything so the category
// filter can be used on its own.
func (s *Service) Search(ctx context.Context, query, category string, from, size int) (Results, error) {
	var must interface{}
	if strings.TrimSpace(query) == "" {
		must = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		must = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		}
	}

	boolQuery := map[string]interface{}{"must": must}
	if category != "" && !strings.EqualFold(category, "all") {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"category.keyword": category},
			},
		}
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Items: prods}, nil
}

// IndexProduct upserts one product document.
func (s *Service) IndexProduct(ctx context.Context, prod *models.Product) error {
	data, err := json.Marshal(prod)
	if err != nil {
		return fmt.Errorf("index: marshal product: %w", err)
	}

	res, err := s.ES.Index(
		Index,
		bytes.NewReader(data),
		s.ES.Index.WithDocumentID(prod.ID.String()),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index: %s", res.Status())
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.ES.Delete(Index, id.String(), s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("deindex: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deindex: %s", res.Status())
	}
	return nil
}
