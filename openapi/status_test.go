package openapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusDescription(t *testing.T) {
	assert.Equal(t, "Successful", statusDescription(200))
	assert.Equal(t, "Created", statusDescription(201))
	assert.Equal(t, "Invalid Content", statusDescription(400))
	assert.Equal(t, "Empty Content", statusDescription(204))

	// Codes outside the canned table fall back to the standard reason
	// phrase.
	assert.Equal(t, http.StatusText(418), statusDescription(418))
}

func TestMethodStatusCodes(t *testing.T) {
	t.Run("every method has one and many variants", func(t *testing.T) {
		for _, method := range []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete,
		} {
			table, ok := methodStatusCodes[method]
			require.True(t, ok, method)
			assert.NotEmpty(t, table.one.success, method)
			assert.NotEmpty(t, table.many.success, method)
		}
	})

	t.Run("every table code has a canned response", func(t *testing.T) {
		for method, table := range methodStatusCodes {
			for _, codes := range [][]int{
				table.one.success, table.one.errors,
				table.many.success, table.many.errors,
			} {
				for _, code := range codes {
					_, ok := statusResponses[code]
					assert.True(t, ok, "%s %d", method, code)
				}
			}
		}
	})

	t.Run("collection variants succeed with 200", func(t *testing.T) {
		for _, method := range []string{
			http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		} {
			assert.Contains(t, methodStatusCodes[method].many.success, 200, method)
		}
	})
}

func TestDefaultErrorSchema(t *testing.T) {
	schema := defaultErrorSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	require.Contains(t, schema.Properties, "detail")
	assert.Equal(t, "string", schema.Properties["detail"].Type)
}
