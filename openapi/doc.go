// Package openapi builds OpenAPI v3.0.2 documents for mux routers by
// layering per-endpoint metadata on top of schemas reflected from Go
// model types.
//
// The package targets the OpenAPI Specification v3.0.2. Paths are always
// emitted in lexicographic order, so document output is deterministic and
// diffs stay readable as routes are added.
//
// See: https://spec.openapis.org/oas/v3.0.2
//
// # Generator
//
// Create a generator, attach metadata to routes, and build the document:
//
//	gen := openapi.NewGenerator(openapi.Info{Title: "My API", Version: "1.0.0"})
//
//	r := mux.NewRouter()
//	r.HandleFunc("/users", listUsers).Methods(http.MethodGet).Name("listUsers")
//
//	gen.Op("listUsers").
//	    Tags("users").
//	    Model(User{}).
//	    Many()
//
//	doc := gen.Build(r)
//
// Use Route to attach metadata to an already-configured mux route without
// naming it:
//
//	gen.Route(r.HandleFunc("/users/{id}", getUser).Methods(http.MethodGet)).
//	    Tags("users").
//	    Model(User{})
//
// # Models
//
// A model is any Go struct; its fields become the operation's request and
// response schema via reflection. Fields marked read-only (via the openapi
// struct tag) are dropped from request bodies, write-only fields from
// responses, and PATCH requests drop the required list. Endpoints marked
// Many() wrap both the request body and success responses in an array.
//
//	type User struct {
//	    ID    string `json:"id" openapi:"readOnly=true,format=uuid"`
//	    Name  string `json:"name" openapi:"description=Display name"`
//	    Token string `json:"token,omitempty" openapi:"writeOnly=true"`
//	}
//
// # Doc Blocks
//
// Free-form documentation strings may embed a YAML block keyed by HTTP
// method. Recognized keys inside a method block are summary, description,
// tags, responses, and literal status codes; anything that does not parse
// as YAML becomes the operation description as-is:
//
//	gen.Op("listUsers").Doc(`
//	get:
//	  summary: List users
//	  tags: [directory]
//	  200:
//	    description: All known users
//	`)
//
// Method-specific docs set with MethodDoc take precedence over the
// endpoint doc, which takes precedence over the group doc. Within a block,
// summary and description overwrite, tags append, and responses merge per
// status code.
//
// # Groups
//
// Use Group to apply shared metadata defaults to a set of endpoints.
// Groups are a metadata concept only; they do not affect routing:
//
//	users := gen.Group().Tags("users").Model(User{})
//
//	users.Route(r.HandleFunc("/users", listUsers).Methods(http.MethodGet)).
//	    Many()
//
// # Status Codes
//
// By default each operation documents a single 200 response carrying the
// model schema. Enable static status-code mode to emit the full per-method
// table instead (success codes with the model schema, error codes with a
// standard {"detail": "..."} error schema):
//
//	gen.StaticStatusCodes(true)
//
//	gen.Op("createUser").
//	    Model(User{}).
//	    AllowedStatusCodes(201, 400, 401)
//
// # Servers and Security
//
// Configured servers are validated at build time; entries missing a URL or
// description are logged and dropped. When the document is built for an
// incoming request (BuildForRequest or the Handle endpoints), the
// request's own scheme and host are prepended as "Local server".
//
// Documents declare an apiKey-in-header security scheme named ApiKeyAuth
// by default, required on every operation. Replace it with SetAuthScheme
// or remove it with DisableAuth.
//
// # Serving
//
// Handle registers JSON, YAML, and interactive docs endpoints on the
// router:
//
//	gen.Handle(r, "/swagger", nil)
//	// /swagger/            -> Swagger UI
//	// /swagger/schema.json -> OpenAPI document as JSON
//	// /swagger/schema.yaml -> OpenAPI document as YAML
//
// # Settings
//
// LoadSettings builds generator configuration from defaults, an optional
// YAML file, and APIDOCS_* environment variables:
//
//	settings, err := openapi.LoadSettings("apidocs.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := openapi.NewGeneratorFromSettings(settings)
package openapi
