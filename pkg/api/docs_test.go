package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAPIDoc(t *testing.T) {
	doc := BuildAPIDoc(Routes(), "1.0.0")

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "1.0.0", doc.Info.Version)

	for _, rt := range Routes() {
		ops, ok := doc.Paths[rt.Pattern]
		require.True(t, ok, "path %s missing", rt.Pattern)
		_, ok = ops[methodKey(rt.Method)]
		assert.True(t, ok, "%s %s missing", rt.Method, rt.Pattern)
	}

	get := doc.Paths["/files/{name}"]["get"]
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "name", get.Parameters[0].Name)
	assert.Equal(t, "path", get.Parameters[0].In)

	create := doc.Paths["/files"]["post"]
	require.Len(t, create.Parameters, 1)
	assert.Equal(t, "body", create.Parameters[0].In)
	require.NotNil(t, create.Parameters[0].Schema)
	_, ok := create.Parameters[0].Schema.Properties.Get("content")
	assert.True(t, ok, "body schema should describe content")

	created := create.Responses["201"].Schema
	require.NotNil(t, created)
	_, ok = created.Properties.Get("name")
	assert.True(t, ok)

	list := doc.Paths["/files"]["get"].Responses["200"].Schema
	require.NotNil(t, list)
	assert.Equal(t, "array", list.Type)
}

func TestAPISpecEndpoint(t *testing.T) {
	s, err := memory.NewMemoryFileStore(context.Background())
	require.NoError(t, err)
	h := newTestRouter(t, s, Options{})

	rec := do(t, h, http.MethodGet, "/apispec.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "2.0", raw["swagger"])

	paths, ok := raw["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/files")
	assert.Contains(t, paths, "/files/{name}")
	assert.NotContains(t, rec.Body.String(), "$schema")
}

func methodKey(method string) string {
	switch method {
	case http.MethodGet:
		return "get"
	case http.MethodPost:
		return "post"
	case http.MethodPut:
		return "put"
	case http.MethodDelete:
		return "delete"
	}
	return method
}
