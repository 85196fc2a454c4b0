package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clubworks/sponsorpay/internal/audit"
	"github.com/clubworks/sponsorpay/internal/catalog"
	catalogdomain "github.com/clubworks/sponsorpay/internal/catalog/domain"
	"github.com/clubworks/sponsorpay/internal/config"
	"github.com/clubworks/sponsorpay/internal/connect"
	connectdomain "github.com/clubworks/sponsorpay/internal/connect/domain"
	providerstripe "github.com/clubworks/sponsorpay/internal/providers/stripe"
	"github.com/clubworks/sponsorpay/internal/sponsorship"
	"github.com/clubworks/sponsorpay/internal/tenant"
	"github.com/clubworks/sponsorpay/internal/webhook"
	webhookdomain "github.com/clubworks/sponsorpay/internal/webhook/domain"
)

var Module = fx.Module("http.server",
	providerstripe.Module,
	audit.Module,
	tenant.Module,
	sponsorship.Module,
	webhook.Module,
	connect.Module,
	catalog.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	ConnectSvc connectdomain.Service
	WebhookSvc webhookdomain.Service
	CatalogSvc catalogdomain.Service
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	log        *zap.Logger
	connectSvc connectdomain.Service
	webhookSvc webhookdomain.Service
	catalogSvc catalogdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		db:         p.DB,
		log:        p.Log.Named("http.server"),
		connectSvc: p.ConnectSvc,
		webhookSvc: p.WebhookSvc,
		catalogSvc: p.CatalogSvc,
	}
}

func (s *Server) RegisterRoutes() {
	// Both webhook mounts expose identical semantics; the short one matches
	// the standalone receiver, the long one the app-proxy path.
	s.engine.POST("/webhook", s.HandleStripeConnectWebhook)
	s.engine.POST("/api/webhooks/stripe/connect", s.HandleStripeConnectWebhook)

	api := s.engine.Group("/api")
	api.POST("/stripe/sync-products", s.SyncProducts)
	api.POST("/connect/accounts", s.CreateConnectAccount)
	api.POST("/connect/accounts/:id/onboarding-link", s.CreateOnboardingLink)
	api.POST("/sponsorships/:id/payments", s.CreateSponsorshipPayment)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
