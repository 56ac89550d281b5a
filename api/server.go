package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"palletchain/api/handlers"
	"palletchain/blockchain/processing"
)

// Server represents the HTTP API server
type Server struct {
	processor  *processing.BlockProcessor
	addr       string
	router     *gin.Engine
	httpServer *http.Server
	logger     log.FieldLogger
}

func NewServer(processor *processing.BlockProcessor, addr string) *Server {
	server := &Server{
		processor: processor,
		addr:      addr,
		router:    gin.New(),
		logger:    log.WithField("pkg", "api"),
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:              addr,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server
}

// setupRoutes configures all HTTP endpoints
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := s.router.Group("/api")
	{
		api.POST("/blocks", handlers.PostBlock(s.processor))
		api.GET("/blocks/:number", handlers.GetBlock(s.processor))
		api.GET("/blocks/:number/receipt", handlers.GetReceipt(s.processor))

		api.GET("/chain/height", handlers.ChainHeight(s.processor))
		api.GET("/chain/head", handlers.ChainHead(s.processor))

		api.GET("/state", handlers.State(s.processor))
		api.GET("/accounts/:account", handlers.Account(s.processor))
		api.GET("/claims/:content", handlers.Claim(s.processor))
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.addr).Info("Starting HTTP API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}
