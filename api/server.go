package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/footballinvestment/lion-football-academy/api/handlers"
	"github.com/footballinvestment/lion-football-academy/api/middleware"
	"github.com/footballinvestment/lion-football-academy/api/websocket"
	"github.com/footballinvestment/lion-football-academy/internal/analytics"
	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/database"
	"github.com/footballinvestment/lion-football-academy/pkg/database/queries"
)

// Deps carries everything the HTTP surface exposes.
type Deps struct {
	DB        *database.DB
	Analytics *analytics.Service
	Queue     queue.Client
	Bus       *events.EventBus
	Publisher *events.Publisher
	Threshold float64 // low-attendance percent
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.APIConfig
	wsConfig   config.WebSocketConfig
	deps       Deps
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
	statsStop  chan struct{}
}

func NewServer(cfg config.APIConfig, wsCfg config.WebSocketConfig, mode string, deps Deps) *Server {
	if mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		router:   gin.New(),
		config:   cfg,
		wsConfig: wsCfg,
		deps:     deps,
		wsHub:    websocket.NewHub(wsCfg),
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.wsHub.Run()

	if deps.Bus != nil {
		eventsChan := deps.Bus.SubscribeAll()
		s.wsBridge = websocket.NewEventBridge(s.wsHub, eventsChan)
		s.wsBridge.Start()
	}

	if deps.Queue != nil {
		s.statsStop = make(chan struct{})
		go s.pushQueueStats()
	}

	return s
}

// pushQueueStats streams periodic queue snapshots to dashboard clients.
func (s *Server) pushQueueStats() {
	interval := s.wsConfig.StatsInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.statsStop:
			return
		case <-ticker.C:
			if s.wsHub.ClientCount() == 0 {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			stats := s.deps.Queue.Stats(ctx)
			cancel()
			websocket.BroadcastQueueStats(s.wsHub, stats)
		}
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(s.corsConfig()))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	if s.config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(s.config.RateLimit, time.Minute)
		s.router.Use(middleware.RateLimit(rateLimiter))

		// Manual alert triggers fan out email, so they get a tighter budget.
		endpointLimiter := middleware.NewEndpointRateLimiter()
		endpointLimiter.AddEndpoint("/teams/:id/alerts", 10, time.Minute)
		s.router.Use(endpointLimiter.Middleware())
	}
}

func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(s.config.CORS.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.config.CORS.AllowedOrigins
	}
	if len(s.config.CORS.AllowedMethods) > 0 {
		cfg.AllowMethods = s.config.CORS.AllowedMethods
	}
	if len(s.config.CORS.AllowedHeaders) > 0 {
		cfg.AllowHeaders = s.config.CORS.AllowedHeaders
	}
	if len(s.config.CORS.ExposedHeaders) > 0 {
		cfg.ExposeHeaders = s.config.CORS.ExposedHeaders
	}
	cfg.AllowCredentials = s.config.CORS.AllowCredentials
	return cfg
}

func (s *Server) setupRoutes() {
	prefRepo := queries.NewPreferenceRepository(s.deps.DB.DB)

	healthHandler := handlers.NewHealthHandler(s.deps.DB, s.deps.Queue)
	analyticsHandler := handlers.NewAnalyticsHandler(s.deps.Analytics, s.config)
	alertHandler := handlers.NewAlertHandler(s.deps.Analytics, prefRepo, s.deps.Queue, s.deps.Publisher, s.deps.Threshold)
	queueHandler := handlers.NewQueueHandler(s.deps.Queue)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	players := s.router.Group("/players/:id")
	{
		players.GET("/analysis", analyticsHandler.PlayerAnalysis)
		players.GET("/tips", analyticsHandler.PlayerTips)
		players.GET("/risk", analyticsHandler.PlayerRisk)
		players.GET("/recommendations", analyticsHandler.PlayerRecommendations)
		players.GET("/milestones", analyticsHandler.PlayerMilestones)
		players.GET("/report", analyticsHandler.PlayerReport)
		players.GET("/dashboard", analyticsHandler.PlayerDashboard)
	}

	teams := s.router.Group("/teams/:id")
	{
		teams.GET("/patterns", analyticsHandler.TeamPatterns)
		teams.GET("/trajectory", analyticsHandler.TeamTrajectory)
		teams.GET("/formation", analyticsHandler.TeamFormation)
		teams.GET("/schedule-recommendation", analyticsHandler.TeamScheduleRecommendation)
		teams.POST("/alerts", alertHandler.TriggerAlert)
	}

	queueGroup := s.router.Group("/queue")
	{
		queueGroup.GET("/stats", queueHandler.Stats)
		queueGroup.POST("/retry-failed", queueHandler.RetryFailed)
		queueGroup.POST("/clean", queueHandler.Clean)
		queueGroup.POST("/pause", queueHandler.Pause)
		queueGroup.POST("/resume", queueHandler.Resume)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	idleTimeout := s.config.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.statsStop != nil {
		close(s.statsStop)
		s.statsStop = nil
	}
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
