package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	p3search "github.com/tadinve/p3-search"
	apimiddleware "github.com/tadinve/p3-search/infrastructure/api/middleware"
	v1 "github.com/tadinve/p3-search/infrastructure/api/v1"
	mcpinternal "github.com/tadinve/p3-search/internal/mcp"
	"github.com/tadinve/p3-search/internal/log"
)

// APIServer provides an HTTP API backed by a p3search Client.
type APIServer struct {
	client       *p3search.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *log.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *p3search.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes(). If not called, ListenAndServe creates a default router
// with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all v1 API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all v1 API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	documentsRouter := v1.NewDocumentsRouter(c)
	searchRouter := v1.NewSearchRouter(c)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	router.Use(apimiddleware.Logging(a.logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/documents", documentsRouter.Routes())
		r.Mount("/search", searchRouter.Routes())
	})

	router.Get("/health", a.health)
	router.Get("/healthz", a.health)

	// MCP (Model Context Protocol) endpoint — no timeout middleware.
	// MCP uses streaming responses and manages its own session state via
	// response headers, which is incompatible with chi's Timeout middleware
	// that wraps the ResponseWriter.
	mcpSrv := mcpinternal.NewServer(c.Search, c.Documents, a.logger,
		mcpinternal.WithSearchDefaults(c.DefaultSearchLimit(), c.DefaultMinSimilarity()))
	httpHandler := server.NewStreamableHTTPServer(mcpSrv.MCPServer())
	router.Mount("/mcp", httpHandler)
}

// health handles the liveness endpoints.
func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
