package httpfiber

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/dapp"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
)

// DApp is the state and the flows the API exposes. *dapp.App implements it.
type DApp interface {
	Load(ctx context.Context) error
	RefreshWalletBalance(ctx context.Context) error
	RefreshContractBalances(ctx context.Context) error
	RequestTokens(ctx context.Context, address string) error
	SwapToken(ctx context.Context, amount string) error
	State() dapp.State
	Units() []*currency.Unit
	Connected() bool
	Banner() *notify.Banner
}

// RefreshStatus reports on the background balance refresh.
type RefreshStatus interface {
	IsRunning() bool
	GetNextRun() time.Time
}

type Server struct {
	app *fiber.App
	cfg *config.Schema

	dapp      DApp
	registry  *prometheus.Registry
	scheduler RefreshStatus

	// Upper bound for long-polling the notification banner.
	maxWait time.Duration
}

type Option func(*Server)

func NewServer(cfg *config.Schema, opts ...Option) *Server {
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	srv := &Server{
		app:     app,
		cfg:     cfg,
		maxWait: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

func WithDApp(d DApp) Option {
	return func(s *Server) {
		s.dapp = d
	}
}

func WithScheduler(scheduler RefreshStatus) Option {
	return func(s *Server) {
		s.scheduler = scheduler
	}
}

func WithMaxWait(d time.Duration) Option {
	return func(s *Server) {
		s.maxWait = d
	}
}

// setup installs the middleware and the routes.
func (s *Server) setup() error {
	if s.cfg.Global.Environment == "production" {
		level, err := zap.ParseAtomicLevel(s.cfg.Global.LogLevel)
		if err != nil {
			return err
		}
		zapLogger, err := logger.NewZapLogger(logger.WithLevel(level.Level()))
		if err != nil {
			return err
		}
		s.app.Use(fiberzap.New(fiberzap.Config{
			Logger: zapLogger.Logger,
		}))
	}

	s.app.Get("/readiness", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":    "ok",
			"connected": s.dapp != nil && s.dapp.Connected(),
		}
		if s.scheduler != nil {
			refresh := fiber.Map{"running": s.scheduler.IsRunning()}
			if next := s.scheduler.GetNextRun(); !next.IsZero() {
				refresh["nextRun"] = next.UTC().Format(time.RFC3339)
			}
			status["refresh"] = refresh
		}
		return c.Status(fiber.StatusOK).JSON(status)
	})

	s.app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	return s.MapRoutes()
}

func (s *Server) Run() error {
	if err := s.setup(); err != nil {
		return err
	}

	logger.Infof("listening on %s", s.cfg.Global.ListenAddr)
	if err := s.app.Listen(s.cfg.Global.ListenAddr); err != nil {
		return err
	}

	return nil
}

func (s *Server) Stop() {
	logger.Infof("Stopping HTTP server...")
	if err := s.app.ShutdownWithTimeout(1 * time.Second); err != nil {
		logger.Debugf("HTTP server shutdown: %v", err)
	}
	logger.Infof("HTTP server stopped")
}

func (s *Server) MapRoutes() error {
	root := s.app.Group("/")
	if s.registry != nil {
		root.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
			ErrorLog:      log.New(os.Stderr, log.Prefix(), log.Flags()),
			ErrorHandling: promhttp.ContinueOnError,
		})))
	}

	if s.dapp == nil {
		return nil
	}
	api := s.app.Group("/api/v1")
	api.Get("/state", s.getState)
	api.Get("/units", s.getUnits)
	api.Get("/notification", s.getNotification)
	api.Post("/connect", s.postConnect)
	api.Post("/balances/refresh", s.postRefresh)
	api.Post("/tokens/request", s.postRequest)
	api.Post("/tokens/swap", s.postSwap)
	return nil
}
