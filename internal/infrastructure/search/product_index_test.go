package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body []byte)) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r, body)
	}))
	t.Cleanup(srv.Close)

	es, err := NewClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestSearchQuery_MultiMatchOverNameDescriptionCategory(t *testing.T) {
	b, err := searchQuery("ankara", 10, 20)
	require.NoError(t, err)

	var q map[string]any
	require.NoError(t, json.Unmarshal(b, &q))
	assert.EqualValues(t, 20, q["from"])
	assert.EqualValues(t, 10, q["size"])
	assert.Contains(t, string(b), `"multi_match"`)
	assert.Contains(t, string(b), `"name^3"`)
	assert.Contains(t, string(b), `"is_active":true`)
}

func TestSearchProducts_ReturnsIDsInHitOrder(t *testing.T) {
	var gotPath string
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_id":"b"},{"_id":"a"}]}}`)
	})

	ids, total, err := idx.SearchProducts(context.Background(), "dress", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "/products/_search", gotPath)
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.Equal(t, 2, total)
}

func TestIndexProduct_PutsDocumentByID(t *testing.T) {
	var gotPath, gotBody string
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		gotPath, gotBody = r.URL.Path, string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := &entity.Product{ID: "p1", Name: "Ankara Dress", CategorySlug: "dresses", Price: 1500000, IsActive: true}
	require.NoError(t, idx.IndexProduct(context.Background(), p))
	assert.True(t, strings.HasSuffix(gotPath, "/p1"))
	assert.Contains(t, gotBody, `"category":"dresses"`)
}

func TestSearchProducts_ErrorStatus(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad"}`)
	})

	_, _, err := idx.SearchProducts(context.Background(), "x", 10, 0)
	assert.Error(t, err)
}
