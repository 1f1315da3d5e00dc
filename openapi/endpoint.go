package openapi

import "strings"

// endpointMeta stores the per-endpoint metadata collected via the fluent
// builder before the document is built. It mirrors the attributes a view
// declares in docstring-driven schema frameworks: tags, deprecation,
// collection semantics, the model driving request/response schemas, and
// the doc strings carrying YAML blocks.
type endpointMeta struct {
	tags         []string
	deprecated   bool
	many         bool
	model        any
	operation    string
	summary      string
	description  string
	doc          string            // endpoint-level doc string
	methodDocs   map[string]string // lowercase method -> doc string
	allowedCodes []int
	parameters   []*Parameter
}

// Endpoint provides a fluent API for attaching schema metadata to a route.
// Every HTTP method registered on the route produces one operation built
// from this metadata.
type Endpoint struct {
	meta *endpointMeta
}

func newEndpoint() *Endpoint {
	return &Endpoint{meta: &endpointMeta{}}
}

// Tags adds one or more tags to the endpoint's operations. Endpoints
// without tags fall under the "default" tag.
func (e *Endpoint) Tags(tags ...string) *Endpoint {
	e.meta.tags = append(e.meta.tags, tags...)
	return e
}

// Deprecated marks every operation of the endpoint as deprecated.
func (e *Endpoint) Deprecated() *Endpoint {
	e.meta.deprecated = true
	return e
}

// Many declares that the endpoint operates on collections of objects.
// Request bodies and success response schemas are wrapped as arrays of the
// model schema, and the static status-code tables switch to their
// collection variants.
func (e *Endpoint) Many() *Endpoint {
	e.meta.many = true
	return e
}

// Model sets the Go type whose reflected schema drives the endpoint's
// request body and success responses. Pass a zero value (e.g. User{}) or a
// *Schema for explicit control.
func (e *Endpoint) Model(v any) *Endpoint {
	e.meta.model = v
	return e
}

// Operation overrides the model-derived name used when composing operation
// IDs.
func (e *Endpoint) Operation(name string) *Endpoint {
	e.meta.operation = name
	return e
}

// Summary sets the baseline operation summary. A summary key inside a doc
// block takes precedence.
func (e *Endpoint) Summary(s string) *Endpoint {
	e.meta.summary = s
	return e
}

// Description sets the baseline operation description. A doc block, plain
// text or YAML, takes precedence.
func (e *Endpoint) Description(d string) *Endpoint {
	e.meta.description = d
	return e
}

// Doc attaches a doc string to the endpoint, shared by all its methods.
// The string is either plain text (used verbatim as the description) or a
// YAML mapping keyed by lowercase HTTP method:
//
//	e.Doc(`
//	get:
//	  summary: List items
//	  tags: [catalog]
//	  404:
//	    description: No such item
//	`)
//
// A method-level doc set via MethodDoc takes precedence over this one.
func (e *Endpoint) Doc(doc string) *Endpoint {
	e.meta.doc = doc
	return e
}

// MethodDoc attaches a doc string to a single HTTP method of the endpoint,
// taking precedence over the endpoint-level Doc. The method key inside the
// YAML block is optional here: a top-level mapping is applied directly.
func (e *Endpoint) MethodDoc(method, doc string) *Endpoint {
	if e.meta.methodDocs == nil {
		e.meta.methodDocs = make(map[string]string)
	}
	e.meta.methodDocs[strings.ToLower(method)] = doc
	return e
}

// AllowedStatusCodes restricts the static status-code tables to the given
// codes. Only relevant when the generator runs in static status-code mode.
func (e *Endpoint) AllowedStatusCodes(codes ...int) *Endpoint {
	e.meta.allowedCodes = append(e.meta.allowedCodes, codes...)
	return e
}

// Parameter adds a custom parameter to the endpoint's operations.
// Parameters with the same name and location override auto-generated path
// parameters.
func (e *Endpoint) Parameter(param *Parameter) *Endpoint {
	e.meta.parameters = append(e.meta.parameters, param)
	return e
}

// allowsCode reports whether a status code passes the endpoint's allowed
// set. An empty set allows everything.
func (e *Endpoint) allowsCode(code int) bool {
	if len(e.meta.allowedCodes) == 0 {
		return true
	}
	for _, c := range e.meta.allowedCodes {
		if c == code {
			return true
		}
	}
	return false
}

// docFor returns the doc string for an HTTP method: the method-level doc
// when present, otherwise the endpoint-level doc.
func (e *Endpoint) docFor(method string) string {
	if doc, ok := e.meta.methodDocs[strings.ToLower(method)]; ok {
		return doc
	}
	return e.meta.doc
}
