// Package stubapi serves a local double of the Stocktake REST API: login,
// catalog fixtures and purchase orders.
package stubapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/middleware"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/service"
	"github.com/mmynk/stocktake/internal/storage"
)

// Server wires the services behind a gin router.
type Server struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	purchase *service.PurchaseService
	issuer   *auth.TokenIssuer
	registry *prometheus.Registry
	logger   *slog.Logger
	router   *gin.Engine
}

// Options configure New.
type Options struct {
	Store  storage.Store
	Issuer *auth.TokenIssuer
	// Authenticator defaults to a bcrypt authenticator over Store.
	Authenticator auth.Authenticator
	Logger        *slog.Logger
}

// New builds the stub API. Metrics are registered on a registry private to
// the server and exposed on /metrics.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	authenticator := opts.Authenticator
	if authenticator == nil {
		authenticator = auth.NewPasswordAuthenticator(opts.Store)
	}

	s := &Server{
		auth:     service.NewAuthService(authenticator, opts.Issuer, logger),
		catalog:  service.NewCatalogService(opts.Store),
		purchase: service.NewPurchaseService(opts.Store),
		issuer:   opts.Issuer,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	s.registry.MustRegister(collectors.NewGoCollector())
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Seed makes sure the account the suite logs in with exists.
func (s *Server) Seed(ctx context.Context, email, password string) error {
	_, err := s.auth.Seed(ctx, email, password)
	return err
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS(), middleware.Logging(s.logger))
	r.Use(middleware.NewMetrics(s.registry).Handler())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.POST("/auth/login", s.login)

	items := r.Group("/items", middleware.RequireAuth(s.issuer))
	items.POST("/product-types", s.createProductType)
	items.POST("/product-units", s.createProductUnit)
	items.POST("/product-groups", s.createProductGroup)
	items.POST("/suppliers", s.createSupplier)
	for _, kind := range []models.ReferenceKind{models.KindType, models.KindUnit, models.KindGroup, models.KindSupplier} {
		items.GET("/"+string(kind), s.listReferences(kind))
	}
	items.POST("/products", s.createProduct)
	items.GET("/products/:id", s.getProduct)
	items.POST("/purchases", s.createPurchase)
	items.GET("/purchases", s.listPurchases)
	items.GET("/purchases/:id", s.getPurchase)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Stub API starting", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stub API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
