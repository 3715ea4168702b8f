package router

import (
	"log"
	"net/http"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/config"
	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/handler"
	mw "github.com/dineflow/api/internal/middleware"
	"github.com/dineflow/api/internal/notify"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/store"
	"github.com/dineflow/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps bundles everything the routes need. Stores are interfaces so
// tests can swap in fakes without a router rewrite.
type Deps struct {
	Menu       store.MenuStore
	Categories store.CategoryStore
	Tables     store.TableStore
	Orders     store.OrderStore
	Offers     store.OfferStore
	Users      handler.AuthStore
	Settings   *store.SettingsStore

	OrderService *service.OrderService
	Pipeline     *checkout.Pipeline
	Notifier     *notify.Notifier
	Hub          *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Customer-facing routes are public; the dashboard sits behind JWT auth
// with role checks on the management surface.
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(deps.Users, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Customer-facing routes (no auth: diners order from their phones)
	menuHandler := handler.NewMenuHandler(deps.Menu, deps.Categories)
	menuHandler.RegisterPublicRoutes(r)

	tableHandler := handler.NewTableHandler(deps.Tables)
	tableHandler.RegisterPublicRoutes(r)

	checkoutHandler := handler.NewCheckoutHandler(deps.Pipeline, deps.Hub)
	checkoutHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Staff and admin: the live order board
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleStaff))

			orderHandler := handler.NewOrderHandler(deps.Orders, deps.OrderService, deps.Notifier, deps.Hub)
			orderHandler.RegisterRoutes(r)

			tableHandler.RegisterAdminRoutes(r)
		})

		// Admin-only: catalog, offers, reports, settings
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))

			menuHandler.RegisterAdminRoutes(r)

			offerHandler := handler.NewOfferHandler(deps.Offers)
			offerHandler.RegisterRoutes(r)

			reportHandler := handler.NewReportHandler(deps.Orders)
			reportHandler.RegisterRoutes(r)

			settingsHandler := handler.NewSettingsHandler(deps.Settings)
			settingsHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
