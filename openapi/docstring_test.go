package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocBlock(t *testing.T) {
	t.Run("plain text becomes description", func(t *testing.T) {
		overrides := parseDocBlock("Retrieves the user record", "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "description", overrides[0].key)
		assert.Equal(t, "Retrieves the user record", overrides[0].value)
	})

	t.Run("unparseable text becomes dedented description", func(t *testing.T) {
		overrides := parseDocBlock("   Retrieves: the: user record\n   second line", "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "description", overrides[0].key)
		assert.Equal(t, "Retrieves: the: user record\nsecond line", overrides[0].value)
	})

	t.Run("empty doc yields empty description", func(t *testing.T) {
		overrides := parseDocBlock("", "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "description", overrides[0].key)
		assert.Equal(t, "", overrides[0].value)
	})

	t.Run("method block is selected", func(t *testing.T) {
		doc := `
get:
  summary: List users
post:
  summary: Create user
`
		overrides := parseDocBlock(doc, "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "summary", overrides[0].key)
		assert.Equal(t, "List users", overrides[0].value)
	})

	t.Run("list alias resolves for collection reads", func(t *testing.T) {
		doc := `
list:
  summary: List users
`
		overrides := parseDocBlock(doc, "get", "list")
		require.Len(t, overrides, 1)
		assert.Equal(t, "summary", overrides[0].key)
	})

	t.Run("mapping without method key applies directly", func(t *testing.T) {
		doc := `
summary: Create user
tags: [accounts]
`
		overrides := parseDocBlock(doc, "post")
		keys := make(map[string]any)
		for _, o := range overrides {
			keys[o.key] = o.value
		}
		assert.Equal(t, "Create user", keys["summary"])
		assert.Contains(t, keys, "tags")
	})

	t.Run("string under method key becomes description", func(t *testing.T) {
		doc := `
delete: Removes the user permanently
`
		overrides := parseDocBlock(doc, "delete")
		require.Len(t, overrides, 1)
		assert.Equal(t, "description", overrides[0].key)
		assert.Equal(t, "Removes the user permanently", overrides[0].value)
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		doc := `
summary: Valid
bogus: dropped
302: dropped
`
		overrides := parseDocBlock(doc, "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "summary", overrides[0].key)
	})

	t.Run("status code keys are honored", func(t *testing.T) {
		doc := `
404:
  description: No such user
`
		overrides := parseDocBlock(doc, "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, 404, overrides[0].statusCode)
	})

	t.Run("overrides come out in a fixed order", func(t *testing.T) {
		doc := `
404:
  description: Not here
tags: [users]
200:
  description: Found
summary: Fetch
`
		overrides := parseDocBlock(doc, "get")
		require.Len(t, overrides, 4)
		assert.Equal(t, "summary", overrides[0].key)
		assert.Equal(t, "tags", overrides[1].key)
		assert.Equal(t, 200, overrides[2].statusCode)
		assert.Equal(t, 404, overrides[3].statusCode)
	})

	t.Run("status key beats responses entry for the same code", func(t *testing.T) {
		doc := `
responses:
  404:
    description: From responses
404:
  description: From status key
`
		op := &Operation{}
		applyDocOverrides(op, parseDocBlock(doc, "get"), []string{"application/json"})

		require.NotNil(t, op.Responses["404"])
		assert.Equal(t, "From status key", op.Responses["404"].Description)
	})

	t.Run("tabs do not break parsing", func(t *testing.T) {
		overrides := parseDocBlock("summary:\tTabbed summary", "get")
		require.Len(t, overrides, 1)
		assert.Equal(t, "summary", overrides[0].key)
		assert.Equal(t, "Tabbed summary", overrides[0].value)
	})
}

func TestApplyDocOverrides(t *testing.T) {
	mediaTypes := []string{"application/json"}

	t.Run("summary and description overwrite", func(t *testing.T) {
		op := &Operation{Summary: "old", Description: "old"}
		applyDocOverrides(op, []docOverride{
			{key: "summary", value: "new summary"},
			{key: "description", value: "new description"},
		}, mediaTypes)

		assert.Equal(t, "new summary", op.Summary)
		assert.Equal(t, "new description", op.Description)
	})

	t.Run("tags append", func(t *testing.T) {
		op := &Operation{Tags: []string{"users"}}
		applyDocOverrides(op, []docOverride{
			{key: "tags", value: []any{"admin", "beta"}},
		}, mediaTypes)

		assert.Equal(t, []string{"users", "admin", "beta"}, op.Tags)
	})

	t.Run("responses replace per status key", func(t *testing.T) {
		op := &Operation{Responses: map[string]*Response{
			"200": {Description: "baseline"},
			"404": {Description: "kept"},
		}}
		applyDocOverrides(op, []docOverride{
			{key: "responses", value: map[string]any{
				"200": map[string]any{"description": "overridden"},
			}},
		}, mediaTypes)

		assert.Equal(t, "overridden", op.Responses["200"].Description)
		assert.Equal(t, "kept", op.Responses["404"].Description)
	})

	t.Run("status override installs full response", func(t *testing.T) {
		op := &Operation{}
		applyDocOverrides(op, []docOverride{
			{statusCode: 404, value: map[string]any{"description": "No such user"}},
		}, mediaTypes)

		resp := op.Responses["404"]
		require.NotNil(t, resp)
		assert.Equal(t, "No such user", resp.Description)
		require.Contains(t, resp.Content, "application/json")
		schema := resp.Content["application/json"].Schema
		require.NotNil(t, schema)
		assert.Contains(t, schema.Properties, "detail")
	})

	t.Run("status override falls back to canned description", func(t *testing.T) {
		op := &Operation{}
		applyDocOverrides(op, []docOverride{
			{statusCode: 400, value: nil},
		}, mediaTypes)

		require.NotNil(t, op.Responses["400"])
		assert.Equal(t, "Invalid Content", op.Responses["400"].Description)
	})

	t.Run("status override honors custom schema", func(t *testing.T) {
		op := &Operation{}
		applyDocOverrides(op, []docOverride{
			{statusCode: 400, value: map[string]any{
				"description": "Validation failed",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"errors": map[string]any{"type": "array"},
					},
				},
			}},
		}, mediaTypes)

		schema := op.Responses["400"].Content["application/json"].Schema
		require.NotNil(t, schema)
		assert.Contains(t, schema.Properties, "errors")
	})

	t.Run("content replicates across media types", func(t *testing.T) {
		op := &Operation{}
		applyDocOverrides(op, []docOverride{
			{statusCode: 404, value: nil},
		}, []string{"application/json", "application/xml"})

		resp := op.Responses["404"]
		require.NotNil(t, resp)
		assert.Contains(t, resp.Content, "application/json")
		assert.Contains(t, resp.Content, "application/xml")
	})
}

func TestDedent(t *testing.T) {
	t.Run("trims indentation and outer blank lines", func(t *testing.T) {
		assert.Equal(t, "line one\nline two", dedent("\n   line one\n   line two\n"))
	})

	t.Run("keeps inner blank lines", func(t *testing.T) {
		assert.Equal(t, "a\n\nb", dedent("  a\n\n  b"))
	})
}
