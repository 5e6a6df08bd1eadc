package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sm8ta/webike_rental_storefront/internal/config"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Wizard    *WizardHandler
	Bookings  *BookingHandler
	Dashboard *DashboardHandler
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	registry workspaceRegistry,
	cookies CookieConfig,
	gatherer prometheus.Gatherer,
	logger ports.LoggerPort,
	h Handlers,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Env != "production" {
		router.Use(gin.Logger())
	}

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	visitor := router.Group("")
	visitor.Use(VisitorMiddleware(tokenService, registry, cookies, logger))

	// Auth routes
	auth := visitor.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/session", h.Auth.GetSession)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.DELETE("/error", h.Auth.ClearError)
	}

	account := visitor.Group("/account")
	account.Use(RequireSession())
	{
		account.PATCH("/profile", h.Auth.UpdateProfile)
	}

	// Catalog routes
	catalog := visitor.Group("/catalog")
	{
		catalog.GET("", h.Catalog.GetCatalog)
		catalog.POST("/reload", h.Catalog.Reload)
		catalog.PUT("/filters/search", h.Catalog.SetSearch)
		catalog.PUT("/filters/price", h.Catalog.SetPriceRange)
		catalog.POST("/filters/brands", h.Catalog.ToggleBrand)
		catalog.POST("/filters/categories", h.Catalog.ToggleCategory)
		catalog.PUT("/filters/sort", h.Catalog.SetSort)
		catalog.DELETE("/filters", h.Catalog.ResetFilters)
	}
	visitor.GET("/motorbikes/:id", h.Catalog.GetMotorbike)

	// Booking wizard routes
	wizard := visitor.Group("/wizard")
	{
		wizard.POST("", h.Wizard.Start)
		wizard.GET("", h.Wizard.Get)
		wizard.DELETE("", h.Wizard.Close)
		wizard.PUT("/details", h.Wizard.SetDetails)
		wizard.PUT("/personal", h.Wizard.SetPersonalInfo)
		wizard.PUT("/payment", h.Wizard.SetPayment)
		wizard.POST("/next", h.Wizard.Next)
		wizard.POST("/back", h.Wizard.Back)
		wizard.POST("/submit", h.Wizard.Submit)
		wizard.DELETE("/error", h.Wizard.DismissError)
	}

	// Bookings routes
	bookings := visitor.Group("/bookings")
	bookings.Use(RequireSession())
	{
		bookings.GET("", h.Bookings.ListBookings)
		bookings.PUT("/selected", h.Bookings.SelectBooking)
		bookings.DELETE("/selected", h.Bookings.ClearSelection)
		bookings.DELETE("/error", h.Bookings.ClearError)
		bookings.GET("/:id", h.Bookings.GetBooking)
		bookings.POST("/:id/cancel", h.Bookings.CancelBooking)
	}

	// Dashboard routes
	dashboard := visitor.Group("/dashboard")
	dashboard.Use(DashboardGuard())
	{
		dashboard.GET("/bookings", h.Dashboard.ListBookings)
		dashboard.GET("/bookings/:id", h.Dashboard.GetBooking)
		dashboard.PATCH("/bookings/:id", h.Dashboard.UpdateBookingStatus)
		dashboard.DELETE("/bookings/:id", h.Dashboard.DeleteBooking)

		dashboard.GET("/motorbikes", h.Dashboard.ListMotorbikes)
		dashboard.GET("/motorbikes/:id", h.Dashboard.GetMotorbike)
		dashboard.POST("/motorbikes", h.Dashboard.CreateMotorbike)
		dashboard.PUT("/motorbikes/:id", h.Dashboard.UpdateMotorbike)
		dashboard.DELETE("/motorbikes/:id", h.Dashboard.DeleteMotorbike)

		dashboard.GET("/brands", h.Dashboard.ListBrands)
		dashboard.POST("/brands", h.Dashboard.CreateBrand)
		dashboard.PUT("/brands/:id", h.Dashboard.UpdateBrand)
		dashboard.DELETE("/brands/:id", h.Dashboard.DeleteBrand)
	}

	return &Router{router: router}, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

// Serve blocks until the server stops. http.ErrServerClosed is returned
// after Shutdown.
func (r *Router) Serve(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return http.ErrServerClosed
	}
	r.server = srv
	r.mu.Unlock()
	return srv.ListenAndServe()
}

// Shutdown stops the server. A later Serve returns http.ErrServerClosed.
func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	srv := r.server
	r.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
