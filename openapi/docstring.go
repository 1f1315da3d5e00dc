package openapi

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// docOverride is a single directive extracted from a doc block: either a
// named operation field or an integer status-code response override.
type docOverride struct {
	key        string // summary, description, tags, responses
	statusCode int    // set instead of key for status-code overrides
	value      any
}

// docFieldOrder lists the operation fields a doc block may set, in the
// order they are applied. Unknown keys are silently ignored.
var docFieldOrder = []string{"summary", "description", "tags", "responses"}

// docStatusKeys are the status codes a doc block may override directly.
var docStatusKeys = map[int]bool{
	200: true, 201: true, 202: true, 204: true,
	400: true, 401: true, 403: true, 404: true,
	500: true, 502: true, 503: true,
}

// parseDocBlock extracts operation overrides from a doc string for one HTTP
// method. The doc string is either plain text or a YAML mapping; methods
// lists the method keys to look for in order (e.g. "get", then "list" for
// collection reads).
//
// Resolution rules:
//   - text that fails to parse as YAML becomes the description verbatim,
//     dedented;
//   - an empty document yields an empty description;
//   - a mapping without any of the method keys is treated as the block for
//     the method itself;
//   - a plain string under the method key becomes the description.
//
// Only summary, description, tags, responses, and the well-known status
// codes are honored; any other key is dropped.
func parseDocBlock(doc string, methods ...string) []docOverride {
	var root any
	if err := yaml.Unmarshal([]byte(sanitizeDoc(doc)), &root); err != nil {
		return []docOverride{{key: "description", value: dedent(doc)}}
	}
	if root == nil {
		return []docOverride{{key: "description", value: ""}}
	}

	block := resolveMethodBlock(root, methods)
	if block == nil {
		return nil
	}

	// Apply in a fixed order: named fields first, then status codes
	// ascending, so repeated builds of the same doc block produce the
	// same operation regardless of map iteration order. A bare status
	// key therefore always beats a responses entry for the same code.
	var overrides []docOverride
	for _, k := range docFieldOrder {
		value, ok := block[k]
		if !ok {
			continue
		}
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		overrides = append(overrides, docOverride{key: k, value: value})
	}

	var codes []int
	for key := range block {
		if code, ok := key.(int); ok && docStatusKeys[code] {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	for _, code := range codes {
		value := block[code]
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		overrides = append(overrides, docOverride{statusCode: code, value: value})
	}
	return overrides
}

// resolveMethodBlock locates the doc block for the method inside the parsed
// YAML document and normalizes it to a mapping.
func resolveMethodBlock(root any, methods []string) map[any]any {
	// A bare string documents the method directly.
	if s, ok := root.(string); ok {
		return map[any]any{"description": s}
	}

	mapping := asMap(root)
	if mapping == nil {
		return nil
	}

	for _, method := range methods {
		if block, ok := mapping[method]; ok {
			if s, ok := block.(string); ok {
				return map[any]any{"description": s}
			}
			return asMap(block)
		}
	}

	// No method key: the whole mapping is the block.
	return mapping
}

// asMap normalizes the two mapping shapes yaml.v3 produces for untyped
// decoding. Integer keys (status codes) force the map[any]any form.
func asMap(v any) map[any]any {
	switch m := v.(type) {
	case map[any]any:
		return m
	case map[string]any:
		out := make(map[any]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	}
	return nil
}

// applyDocOverrides merges doc block overrides into a baseline operation.
// Summary and description overwrite, tags append, responses update existing
// entries, and status-code overrides install full response objects with the
// default error schema and canned description as fallbacks.
func applyDocOverrides(op *Operation, overrides []docOverride, mediaTypes []string) {
	for _, o := range overrides {
		switch o.key {
		case "summary":
			if s, ok := o.value.(string); ok {
				op.Summary = s
			}
		case "description":
			if s, ok := o.value.(string); ok {
				op.Description = s
			}
		case "tags":
			op.Tags = append(op.Tags, toStringSlice(o.value)...)
		case "responses":
			applyResponseOverrides(op, o.value)
		default:
			applyStatusOverride(op, o.statusCode, o.value, mediaTypes)
		}
	}
}

// applyResponseOverrides merges a responses mapping from a doc block into
// the operation, replacing entries per status key.
func applyResponseOverrides(op *Operation, value any) {
	mapping := asMap(value)
	if mapping == nil {
		return
	}
	if op.Responses == nil {
		op.Responses = make(map[string]*Response)
	}
	for key, fragment := range mapping {
		var statusKey string
		switch k := key.(type) {
		case string:
			statusKey = k
		case int:
			statusKey = strconv.Itoa(k)
		default:
			continue
		}
		resp := &Response{}
		if err := reencode(fragment, resp); err != nil {
			continue
		}
		op.Responses[statusKey] = resp
	}
}

// applyStatusOverride installs a response for an integer status-code key.
// The description falls back to the canned status description and the
// schema to the default error schema.
func applyStatusOverride(op *Operation, code int, value any, mediaTypes []string) {
	desc := statusDescription(code)
	schema := defaultErrorSchema()

	if mapping := asMap(value); mapping != nil {
		if d, ok := mapping["description"].(string); ok && d != "" {
			desc = strings.TrimSpace(d)
		}
		if raw, ok := mapping["schema"]; ok {
			custom := &Schema{}
			if err := reencode(raw, custom); err == nil {
				schema = custom
			}
		}
	}

	if op.Responses == nil {
		op.Responses = make(map[string]*Response)
	}
	op.Responses[strconv.Itoa(code)] = &Response{
		Description: desc,
		Content:     mediaTypeContent(schema, mediaTypes),
	}
}

// mediaTypeContent replicates a schema across all configured media types.
func mediaTypeContent(schema *Schema, mediaTypes []string) map[string]*MediaType {
	content := make(map[string]*MediaType, len(mediaTypes))
	for _, ct := range mediaTypes {
		content[ct] = &MediaType{Schema: schema}
	}
	return content
}

// reencode converts an untyped YAML value into a typed model object by
// round-tripping through the YAML codec.
func reencode(src, dst any) error {
	data, err := yaml.Marshal(src)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}

// toStringSlice converts a decoded YAML sequence or scalar to strings.
func toStringSlice(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// sanitizeDoc prepares a doc string for YAML parsing: tabs expand to four
// spaces and non-printable runes other than newlines are removed.
func sanitizeDoc(doc string) string {
	doc = strings.ReplaceAll(doc, "\t", "    ")
	return strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, doc)
}

// dedent trims every line and drops leading and trailing blank lines,
// matching how plain-text doc strings become descriptions.
func dedent(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
