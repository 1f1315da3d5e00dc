package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// patternTypeMap maps common route variable patterns to OpenAPI type and
// format. Unknown patterns fall back to plain strings.
var patternTypeMap = map[string][2]string{
	"[0-9]+":        {"integer", ""},
	`\d+`:           {"integer", ""},
	"[0-9.]+":       {"number", ""},
	"[a-z0-9-]+":    {"string", ""},
	"[0-9a-fA-F-]+": {"string", "uuid"},
}


// methodActions maps HTTP methods to the action verb used when composing
// operation IDs for single-object endpoints.
var methodActions = map[string]string{
	http.MethodGet:    "Retrieve",
	http.MethodPost:   "Create",
	http.MethodPut:    "Update",
	http.MethodPatch:  "PartialUpdate",
	http.MethodDelete: "Destroy",
}

// bodyMethods are the HTTP methods that may carry a request body.
var bodyMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Generator collects endpoint metadata for routes and builds a complete
// OpenAPI Document with deterministically ordered paths. It layers tags,
// deprecation flags, collection semantics, and YAML doc blocks on top of
// the schemas reflected from endpoint models.
type Generator struct {
	info        Info
	servers     []Server
	mediaTypes  []string
	staticCodes bool
	logger      *zap.Logger

	authName   string
	authScheme *SecurityScheme

	tags         []Tag
	externalDocs *ExternalDocs

	operations map[string]*Endpoint    // keyed by route name (Op)
	routeOps   map[*mux.Route]*Endpoint // keyed by route pointer (Route)
}

// NewGenerator creates a new document generator with the given API info.
// By default documents declare the ApiKeyAuth header scheme and emit a
// single 200 response per operation; see StaticStatusCodes and DisableAuth.
func NewGenerator(info Info) *Generator {
	return &Generator{
		info:       info,
		mediaTypes: []string{"application/json"},
		logger:     zap.NewNop(),
		authName:   "ApiKeyAuth",
		authScheme: &SecurityScheme{
			Type:        "apiKey",
			In:          "header",
			Name:        "Authorization",
			Description: "Enter your bearer token in the format **Token &lt;token&gt;**",
		},
		operations: make(map[string]*Endpoint),
		routeOps:   make(map[*mux.Route]*Endpoint),
	}
}

// AddServer adds a server to the document. Entries without both a URL and
// a description are dropped at build time.
func (g *Generator) AddServer(server Server) *Generator {
	g.servers = append(g.servers, server)
	return g
}

// SetMediaTypes sets the media types request and response schemas are
// replicated across. The default is application/json only.
func (g *Generator) SetMediaTypes(mediaTypes ...string) *Generator {
	g.mediaTypes = mediaTypes
	return g
}

// StaticStatusCodes toggles static status-code mode. When enabled, each
// operation carries the full per-method response table (success codes with
// the model schema, error codes with the default error schema) instead of
// a single 200 response.
func (g *Generator) StaticStatusCodes(enabled bool) *Generator {
	g.staticCodes = enabled
	return g
}

// SetLogger sets the logger used for build-time warnings. The default is
// a nop logger.
func (g *Generator) SetLogger(logger *zap.Logger) *Generator {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// SetAuthScheme replaces the default ApiKeyAuth security scheme. The
// scheme is registered under the given component name and required on all
// operations.
func (g *Generator) SetAuthScheme(name string, scheme *SecurityScheme) *Generator {
	g.authName = name
	g.authScheme = scheme
	return g
}

// DisableAuth removes the security scheme and the document-level security
// requirement.
func (g *Generator) DisableAuth() *Generator {
	g.authName = ""
	g.authScheme = nil
	return g
}

// AddTag adds a user-defined tag with optional description and external
// docs. Tags collected from operations merge with these; user definitions
// win.
func (g *Generator) AddTag(tag Tag) *Generator {
	g.tags = append(g.tags, tag)
	return g
}

// SetExternalDocs sets the document-level external documentation link.
func (g *Generator) SetExternalDocs(url, description string) *Generator {
	g.externalDocs = &ExternalDocs{URL: url, Description: description}
	return g
}

// Group creates a new Group for applying shared metadata defaults to a
// logical group of endpoints.
func (g *Generator) Group() *Group {
	return &Group{gen: g}
}

// Op returns an Endpoint for the named route. If the route name was not
// previously registered, a new endpoint is created.
func (g *Generator) Op(routeName string) *Endpoint {
	if e, ok := g.operations[routeName]; ok {
		return e
	}
	e := newEndpoint()
	g.operations[routeName] = e
	return e
}

// Route attaches an Endpoint to an existing mux route. The route can be
// configured with any mux features (Methods, Headers, Queries, etc.).
func (g *Generator) Route(route *mux.Route) *Endpoint {
	e := newEndpoint()
	g.routeOps[route] = e
	return e
}

// Build walks the router and assembles a complete Document with paths in
// lexicographic order.
func (g *Generator) Build(r *mux.Router) *Document {
	return g.build(r, nil)
}

// BuildForRequest builds the document using the incoming request to derive
// a "Local server" entry, prepended to the configured servers unless one
// of them already points at the request's own scheme and host.
func (g *Generator) BuildForRequest(r *mux.Router, req *http.Request) *Document {
	return g.build(r, req)
}

func (g *Generator) build(r *mux.Router, req *http.Request) *Document {
	sg := NewSchemaGenerator()
	doc := &Document{
		OpenAPI:      "3.0.2",
		Info:         g.info,
		Servers:      g.serverList(req),
		Paths:        NewPaths(),
		ExternalDocs: g.externalDocs,
	}

	if g.authScheme != nil {
		doc.Components = &Components{
			SecuritySchemes: map[string]*SecurityScheme{g.authName: g.authScheme},
		}
		doc.Security = []SecurityRequirement{{g.authName: []string{}}}
	}

	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}

		// Look up endpoint: first by route pointer, then by route name.
		endpoint, ok := g.routeOps[route]
		if !ok {
			endpoint, ok = g.operations[route.GetName()]
			if !ok {
				return nil
			}
		}

		openAPIPath, pathParams := parsePath(pathTpl)

		pathItem := doc.Paths.Get(openAPIPath)
		if pathItem == nil {
			pathItem = &PathItem{}
			doc.Paths.Set(openAPIPath, pathItem)
		}

		for _, method := range methods {
			op := g.buildOperation(sg, endpoint, method, route.GetName(), pathParams)
			assignOperation(pathItem, method, op)
		}

		return nil
	})

	doc.Paths.Sort()
	doc.Tags = g.mergeTags(doc.Paths)

	return doc
}

// buildOperation assembles one operation from the endpoint metadata, the
// reflected model schema, and the doc block for the method.
func (g *Generator) buildOperation(sg *SchemaGenerator, e *Endpoint, method, routeName string, pathParams []*Parameter) *Operation {
	op := &Operation{
		OperationID: g.operationID(e, method, routeName),
		Summary:     e.meta.summary,
		Description: e.meta.description,
		Tags:        e.tagList(),
		Deprecated:  e.meta.deprecated,
	}

	op.Parameters = mergeParameters(pathParams, e.meta.parameters)

	if bodyMethods[method] && e.meta.model != nil {
		op.RequestBody = g.buildRequestBody(sg, e, method)
	}

	op.Responses = g.buildResponses(sg, e, method)

	if doc := e.docFor(method); doc != "" {
		applyDocOverrides(op, parseDocBlock(doc, docMethodKeys(method)...), g.mediaTypes)
	}

	// Single-object DELETE never carries a request body, regardless of
	// model or doc block.
	if method == http.MethodDelete && !e.meta.many {
		op.RequestBody = nil
	}

	return op
}

// buildRequestBody reflects the endpoint model into a request body schema.
// Read-only properties are dropped, PATCH bodies lose their required list,
// and collection endpoints wrap the schema as an array.
func (g *Generator) buildRequestBody(sg *SchemaGenerator, e *Endpoint, method string) *RequestBody {
	schema := sg.Generate(e.meta.model)
	if schema == nil {
		return nil
	}
	dropRequestOnlyFields(schema)
	if method == http.MethodPatch {
		schema.Required = nil
	}
	if e.meta.many {
		schema = &Schema{Type: "array", Items: schema}
	}
	return &RequestBody{Content: mediaTypeContent(schema, g.mediaTypes)}
}

// buildResponses assembles the baseline responses for a method. In static
// status-code mode the per-method table is emitted, filtered by the
// endpoint's allowed codes; otherwise a single 200 response carries the
// model schema.
func (g *Generator) buildResponses(sg *SchemaGenerator, e *Endpoint, method string) map[string]*Response {
	schema := sg.Generate(e.meta.model)
	dropResponseOnlyFields(schema)
	if e.meta.many && schema != nil {
		schema = &Schema{Type: "array", Items: schema}
	}

	if !g.staticCodes {
		resp := &Response{Description: statusDescription(http.StatusOK)}
		if schema != nil {
			resp.Content = mediaTypeContent(schema, g.mediaTypes)
		}
		return map[string]*Response{"200": resp}
	}

	table, ok := methodStatusCodes[method]
	if !ok {
		return map[string]*Response{
			"200": {Description: statusDescription(http.StatusOK)},
		}
	}
	codes := table.one
	if e.meta.many {
		codes = table.many
	}

	responses := make(map[string]*Response)
	for _, code := range codes.success {
		if !e.allowsCode(code) {
			continue
		}
		responses[statusKey(code)] = g.statusCodeResponse(code, schema)
	}
	for _, code := range codes.errors {
		if !e.allowsCode(code) {
			continue
		}
		responses[statusKey(code)] = g.statusCodeResponse(code, defaultErrorSchema())
	}
	return responses
}

// statusCodeResponse builds a canned response for a status code. Codes
// marked as bodyless (204, 406) carry no content.
func (g *Generator) statusCodeResponse(code int, schema *Schema) *Response {
	resp := &Response{Description: statusDescription(code)}
	if info, ok := statusResponses[code]; ok && !info.hasContent {
		return resp
	}
	if schema != nil {
		resp.Content = mediaTypeContent(schema, g.mediaTypes)
	}
	return resp
}

// operationID composes the operation ID from the first tag, the method
// action, and the model name: e.g. "usersRetrieveUser", "usersListUsers".
// An Operation override replaces the model-derived name; endpoints with
// neither fall back to the route name.
func (g *Generator) operationID(e *Endpoint, method, routeName string) string {
	name := e.meta.operation
	if name == "" {
		name = modelName(e.meta.model)
	}
	if name == "" {
		return routeName
	}

	action := e.firstTag()
	switch {
	case e.meta.many && method == http.MethodGet:
		action += "List"
	case e.meta.many:
		action += "List" + titleMethod(method)
	default:
		verb, ok := methodActions[method]
		if !ok {
			verb = titleMethod(method)
		}
		action += verb
	}

	if e.meta.many && !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return action + name
}

// tagList returns the endpoint tags, defaulting to ["default"].
func (e *Endpoint) tagList() []string {
	if len(e.meta.tags) == 0 {
		return []string{"default"}
	}
	tags := make([]string, len(e.meta.tags))
	copy(tags, e.meta.tags)
	return tags
}

// firstTag returns the first endpoint tag, or "default".
func (e *Endpoint) firstTag() string {
	if len(e.meta.tags) > 0 {
		return e.meta.tags[0]
	}
	return "default"
}

// docMethodKeys returns the YAML keys tried when resolving the doc block
// for a method. GET additionally accepts "list" as an alias for
// collection-style reads.
func docMethodKeys(method string) []string {
	key := strings.ToLower(method)
	if method == http.MethodGet {
		return []string{key, "list"}
	}
	return []string{key}
}

// serverList validates the configured servers and, when a request is
// available, prepends the request's own scheme and host as "Local server"
// unless already present. Invalid entries are logged and dropped.
func (g *Generator) serverList(req *http.Request) []Server {
	if req == nil && len(g.servers) == 0 {
		g.logger.Warn("no servers configured for OpenAPI document")
		return nil
	}

	var servers []Server
	for _, s := range g.servers {
		if s.URL == "" || s.Description == "" {
			g.logger.Warn("dropping invalid server entry",
				zap.String("url", s.URL),
				zap.String("description", s.Description))
			continue
		}
		servers = append(servers, s)
	}

	if req != nil {
		scheme := "http"
		if req.TLS != nil {
			scheme = "https"
		}
		localURL := scheme + "://" + req.Host + "/"

		present := false
		for _, s := range servers {
			if s.URL == localURL {
				present = true
				break
			}
		}
		if !present {
			servers = append([]Server{{URL: localURL, Description: "Local server"}}, servers...)
		}
	}

	return servers
}

// mergeTags combines tags collected from operations with user-defined
// tags. User-defined tags take precedence (their description and external
// docs are kept), and user tags not seen in any operation are still
// included. The result is sorted alphabetically.
func (g *Generator) mergeTags(paths *Paths) []Tag {
	userTags := make(map[string]Tag, len(g.tags))
	for _, tag := range g.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag

	for _, path := range paths.Keys() {
		pathItem := paths.Get(path)
		for _, op := range []*Operation{
			pathItem.Get, pathItem.Post, pathItem.Put,
			pathItem.Delete, pathItem.Patch, pathItem.Head,
			pathItem.Options, pathItem.Trace,
		} {
			if op == nil {
				continue
			}
			for _, tagName := range op.Tags {
				if seen[tagName] {
					continue
				}
				seen[tagName] = true
				if userTag, ok := userTags[tagName]; ok {
					tags = append(tags, userTag)
				} else {
					tags = append(tags, Tag{Name: tagName})
				}
			}
		}
	}

	for _, tag := range g.tags {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags
}

// mergeParameters combines auto-generated path parameters with custom
// parameters. Custom parameters with the same name+in override the
// auto-generated ones. Per the spec, parameter uniqueness is determined by
// name and location (in).
func mergeParameters(auto, custom []*Parameter) []*Parameter {
	if len(auto) == 0 && len(custom) == 0 {
		return nil
	}

	overrides := make(map[[2]string]struct{}, len(custom))
	for _, p := range custom {
		overrides[[2]string{p.Name, p.In}] = struct{}{}
	}

	var merged []*Parameter
	for _, p := range auto {
		if _, ok := overrides[[2]string{p.Name, p.In}]; !ok {
			merged = append(merged, p)
		}
	}

	merged = append(merged, custom...)
	return merged
}

// assignOperation assigns an operation to the correct HTTP method field on
// the path item.
func assignOperation(pathItem *PathItem, method string, op *Operation) {
	switch method {
	case http.MethodGet:
		pathItem.Get = op
	case http.MethodPost:
		pathItem.Post = op
	case http.MethodPut:
		pathItem.Put = op
	case http.MethodDelete:
		pathItem.Delete = op
	case http.MethodPatch:
		pathItem.Patch = op
	case http.MethodHead:
		pathItem.Head = op
	case http.MethodOptions:
		pathItem.Options = op
	case http.MethodTrace:
		pathItem.Trace = op
	}
}

// parsePath extracts variables from a mux path template, converts it to
// OpenAPI format, and generates parameter objects. Known variable patterns
// map to typed parameters; everything else is a string.
//
// Variables are located by counting brace depth, the way mux itself scans
// templates: patterns may legally contain nested braces, as in
// {id:[0-9]{4}}, so a regexp stopping at the first closing brace would
// split the variable in the wrong place.
func parsePath(tpl string) (string, []*Parameter) {
	var params []*Parameter
	var out strings.Builder

	depth := 0
	start := 0
	for i := 0; i < len(tpl); i++ {
		switch tpl[i] {
		case '{':
			if depth == 0 {
				out.WriteString(tpl[start:i])
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				varName, pattern, _ := strings.Cut(tpl[start+1:i], ":")
				params = append(params, pathParameter(varName, pattern))
				out.WriteString("{" + varName + "}")
				start = i + 1
			}
		}
	}
	out.WriteString(tpl[start:])

	return out.String(), params
}

// pathParameter builds the parameter object for one path variable. The
// exact pattern table is consulted first; any other digit-only pattern
// (e.g. quantified forms like [0-9]{4}) still maps to integer.
func pathParameter(varName, pattern string) *Parameter {
	param := &Parameter{
		Name:     varName,
		In:       "path",
		Required: true,
		Schema:   &Schema{Type: "string"},
	}

	if pattern == "" {
		return param
	}

	if typeInfo, ok := patternTypeMap[pattern]; ok {
		param.Schema = &Schema{Type: typeInfo[0]}
		if typeInfo[1] != "" {
			param.Schema.Format = typeInfo[1]
		}
		return param
	}

	if strings.HasPrefix(pattern, "[0-9]") || strings.HasPrefix(pattern, `\d`) {
		param.Schema = &Schema{Type: "integer"}
	}

	return param
}

// titleMethod renders an HTTP method as a title-cased verb for operation
// IDs (e.g. "POST" -> "Post").
func titleMethod(method string) string {
	if method == "" {
		return ""
	}
	return strings.ToUpper(method[:1]) + strings.ToLower(method[1:])
}

// statusKey renders a status code as a responses map key.
func statusKey(code int) string {
	return strconv.Itoa(code)
}
