package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "price":       {"type": "long"},
      "is_active":   {"type": "boolean"},
      "created_at":  {"type": "date"}
    }
  }
}`

type productDoc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductIndex writes and queries the products index.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, Index: index}
}

func responseError(res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<12))
	return fmt.Errorf("elasticsearch: %s: %s", res.Status(), bytes.TrimSpace(body))
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: bytes.NewReader([]byte(productMapping))}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res)
	}
	return nil
}

// IndexProduct upserts p. Inactive products are indexed too and filtered at
// query time, so a toggle never needs a delete.
func (x *ProductIndex) IndexProduct(ctx context.Context, p *entity.Product) error {
	b, err := json.Marshal(productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.CategorySlug,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res)
	}
	return nil
}

// searchQuery builds the request body: a multi_match over name (boosted),
// description and category, restricted to active products.
func searchQuery(q string, limit, offset int) ([]byte, error) {
	return json.Marshal(map[string]any{
		"from":    offset,
		"size":    limit,
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^3", "description", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"is_active": true}},
				},
			},
		},
	})
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchProducts returns matching product ids in relevance order and the
// total hit count.
func (x *ProductIndex) SearchProducts(ctx context.Context, q string, limit, offset int) ([]string, int, error) {
	body, err := searchQuery(q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.SearchRequest{
		Index:          []string{x.Index},
		Body:           bytes.NewReader(body),
		TrackTotalHits: true,
	}.Do(c, x.ES)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, responseError(res)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, sr.Hits.Total.Value, nil
}
