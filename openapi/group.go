package openapi

import "github.com/gorilla/mux"

// groupDefaults holds the shared metadata a Group applies to every endpoint
// it creates.
type groupDefaults struct {
	tags         []string
	deprecated   bool
	many         bool
	model        any
	doc          string
	allowedCodes []int
	parameters   []*Parameter
}

// Group provides shared metadata defaults for a logical group of endpoints,
// the way a common view base class shares tags and doc strings across its
// subclasses. It creates Endpoint builders pre-populated with the group
// defaults; endpoint-level calls extend or override them. Groups register
// endpoints into the parent Generator's maps, so Build needs no changes.
type Group struct {
	gen      *Generator
	defaults groupDefaults
}

// Tags appends tags to the group defaults. Endpoints created through this
// group inherit these tags and may add more via their own Tags call.
func (g *Group) Tags(tags ...string) *Group {
	g.defaults.tags = append(g.defaults.tags, tags...)
	return g
}

// Deprecated marks all endpoints in this group as deprecated. This is a
// one-way latch: individual endpoints cannot undo group deprecation.
func (g *Group) Deprecated() *Group {
	g.defaults.deprecated = true
	return g
}

// Many declares that all endpoints in this group operate on collections.
func (g *Group) Many() *Group {
	g.defaults.many = true
	return g
}

// Model sets a shared model for the group's endpoints. An endpoint-level
// Model call replaces it.
func (g *Group) Model(v any) *Group {
	g.defaults.model = v
	return g
}

// Doc attaches a shared doc string to the group's endpoints. Endpoint and
// method-level doc strings take precedence.
func (g *Group) Doc(doc string) *Group {
	g.defaults.doc = doc
	return g
}

// AllowedStatusCodes restricts the static status-code tables for all
// endpoints in this group.
func (g *Group) AllowedStatusCodes(codes ...int) *Group {
	g.defaults.allowedCodes = append(g.defaults.allowedCodes, codes...)
	return g
}

// Parameter adds a common parameter to the group defaults. Endpoints
// created through this group inherit it and may add more.
func (g *Group) Parameter(param *Parameter) *Group {
	g.defaults.parameters = append(g.defaults.parameters, param)
	return g
}

// Route attaches an Endpoint to an existing mux route, pre-populated with
// this group's defaults.
func (g *Group) Route(route *mux.Route) *Endpoint {
	e := g.newEndpointWithDefaults()
	g.gen.routeOps[route] = e
	return e
}

// Op returns an Endpoint for the named route, pre-populated with this
// group's defaults. If the route name was previously registered, the
// existing endpoint is returned without applying group defaults again.
func (g *Group) Op(routeName string) *Endpoint {
	if e, ok := g.gen.operations[routeName]; ok {
		return e
	}
	e := g.newEndpointWithDefaults()
	g.gen.operations[routeName] = e
	return e
}

// newEndpointWithDefaults creates a new Endpoint pre-populated with the
// group's default values.
func (g *Group) newEndpointWithDefaults() *Endpoint {
	e := newEndpoint()

	if len(g.defaults.tags) > 0 {
		e.meta.tags = append(e.meta.tags, g.defaults.tags...)
	}

	if g.defaults.deprecated {
		e.meta.deprecated = true
	}

	if g.defaults.many {
		e.meta.many = true
	}

	if g.defaults.model != nil {
		e.meta.model = g.defaults.model
	}

	if g.defaults.doc != "" {
		e.meta.doc = g.defaults.doc
	}

	if len(g.defaults.allowedCodes) > 0 {
		e.meta.allowedCodes = append(e.meta.allowedCodes, g.defaults.allowedCodes...)
	}

	if len(g.defaults.parameters) > 0 {
		e.meta.parameters = append(e.meta.parameters, g.defaults.parameters...)
	}

	return e
}
