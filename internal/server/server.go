// Package server hosts memory games over websockets.
//
// Every connection gets its own event loop, engine and session; nothing is
// shared between players except the optional journal.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/store"
)

// Options configures a Server.
type Options struct {
	Rules memory.Rules

	// NewDealer returns the dealer for a new connection. Nil means a
	// randomly seeded dealer per game.
	NewDealer func() memory.Dealer

	// Store, when set, journals every game.
	Store *store.Store
	IDs   store.IDGenerator

	Logger *slog.Logger
}

// Server serves games over HTTP.
type Server struct {
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader

	base    context.Context
	clients atomic.Int64
	wg      sync.WaitGroup
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.IDs == nil {
		opts.IDs = store.UUIDv7Generator{}
	}
	return &Server{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		base: context.Background(),
	}
}

// Clients returns the number of connected players.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

// Router returns the HTTP handler.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"clients": s.clients.Load(),
		})
	})
	r.GET("/ws", s.handleWebsocket)

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// waits for every game to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.base = ctx
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.wg.Wait()
	return err
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	logger := s.logger.With("remote", c.ClientIP())

	var listeners []memory.Listener
	if s.opts.Store != nil {
		rec, err := store.NewRecorder(c.Request.Context(), s.opts.Store, s.opts.IDs, "ws "+c.ClientIP(), logger)
		if err != nil {
			logger.Error("failed to start journal, playing unrecorded", "error", err)
		} else {
			logger = logger.With("session", rec.SessionID())
			listeners = append(listeners, rec)
		}
	}

	var dealer memory.Dealer
	if s.opts.NewDealer != nil {
		dealer = s.opts.NewDealer()
	}

	client := newClient(conn, s.opts.Rules, dealer, listeners, logger)

	s.wg.Add(1)
	defer s.wg.Done()
	s.clients.Add(1)
	defer s.clients.Add(-1)

	logger.Info("player connected")
	client.serve(s.base)
	logger.Info("player disconnected")
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
