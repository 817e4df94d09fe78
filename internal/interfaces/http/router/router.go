// Package router assembles the gin engine of the CRM API.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the mount point of every versioned route
const APIPrefix = "/api/v1"

// RouteRegistrar mounts a set of routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup) []RouteInfo
}

// RouteInfo describes one mounted route
type RouteInfo struct {
	Domain string
	Method string
	Path   string
}

// Router mounts registrars under APIPrefix behind a shared middleware chain.
// Several routers may share one engine; each gets its own group.
type Router struct {
	engine     *gin.Engine
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithMiddleware adds middleware in front of every route of the router
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}

// NewRouter creates a router on engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered group and returns what was mounted
func (r *Router) Setup() []RouteInfo {
	api := r.engine.Group(APIPrefix, r.middleware...)
	var mounted []RouteInfo
	for _, registrar := range r.registrars {
		mounted = append(mounted, registrar.RegisterRoutes(api)...)
	}
	return mounted
}

// DomainGroup collects the routes of one resource under a common prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group named name mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group only
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle adds a route. Route-level handlers such as RequireAdmin go before the endpoint.
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, path, handlers...)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) []RouteInfo {
	group := rg.Group(dg.prefix, dg.middleware...)
	mounted := make([]RouteInfo, 0, len(dg.routes))
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
		mounted = append(mounted, RouteInfo{
			Domain: dg.name,
			Method: route.method,
			Path:   path.Join(group.BasePath(), route.path),
		})
	}
	return mounted
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
