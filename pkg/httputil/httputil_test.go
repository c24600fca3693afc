package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusTeapot, map[string]int{"n": 3}))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":3}`, rec.Body.String())
}

func TestWriteErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNotFoundError(rec, "option not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"option not found"}`, rec.Body.String())
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestParseJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Acme"}`))
		var dest struct {
			Name string `json:"name"`
		}
		require.NoError(t, ParseJSON(req, &dest))
		assert.Equal(t, "Acme", dest.Name)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
		var dest map[string]any
		err := ParseJSON(req, &dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})
}

func TestParseJSONOrError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))

	var dest map[string]any
	ok := ParseJSONOrError(rec, req, &dest)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParsePathInt64(t *testing.T) {
	router := mux.NewRouter()
	var got int64
	var gotErr error
	router.HandleFunc("/orgs/{org_id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = ParsePathInt64(r, "org_id")
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orgs/42", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
		require.NoError(t, gotErr)
		assert.Equal(t, int64(42), got)
	})

	t.Run("non-numeric", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orgs/acme", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
		require.Error(t, gotErr)
		assert.Contains(t, gotErr.Error(), "invalid integer")
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		_, err := ParsePathInt64(req, "org_id")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing path parameter")
	})
}

func TestParseQueryInt(t *testing.T) {
	t.Run("absent uses default", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/items", nil)
		val, err := ParseQueryInt(req, "limit", 50)
		require.NoError(t, err)
		assert.Equal(t, 50, val)
	})

	t.Run("present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/items?limit=10", nil)
		val, err := ParseQueryInt(req, "limit", 50)
		require.NoError(t, err)
		assert.Equal(t, 10, val)
	})

	t.Run("non-numeric", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/items?limit=lots", nil)
		_, err := ParseQueryInt(req, "limit", 50)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid integer")
	})
}
