package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, map[string]int{"n": 1}, "", NewPageMeta(41, 2, 20))

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 3, meta["total_pages"])
	assert.NotContains(t, body, "code")
}

func TestError_ValidationCarriesFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperror.Validation("invalid payload", map[string][]string{"email": {"is required"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, c.IsAborted())
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["data"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, map[string]any{"email": []any{"is required"}}, body["errors"])
}

func TestError_InternalHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "internal server error", body["message"])
}
