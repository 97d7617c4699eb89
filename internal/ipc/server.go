// Package ipc exposes the dispatch table over a small local HTTP API.
package ipc

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/commands"
	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/pkg/cmd"
	"github.com/keshon/botinvoker/pkg/util"
)

const requestIDHeader = "X-Request-ID"

// Dispatcher runs one tokenized command line.
type Dispatcher interface {
	Dispatch(ctx context.Context, target cmd.Target, caller cmd.CallerID, message string, tokens []string) string
}

// Options configure the IPC server.
type Options struct {
	Addr     string
	Password string
	// Caller is the identity every IPC command runs as.
	Caller cmd.CallerID
}

// Server serves the IPC API.
type Server struct {
	opts   Options
	table  Dispatcher
	fleet  *fleet.Fleet
	target cmd.Target
	router *gin.Engine
	log    zerolog.Logger
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// CommandResponse carries the command output.
type CommandResponse struct {
	RequestID string `json:"request_id"`
	Result    string `json:"result"`
}

// BotStatus is one entry of GET /api/bots.
type BotStatus struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New builds the router. Commands run against target unless they name
// other bots themselves.
func New(opts Options, table Dispatcher, f *fleet.Fleet, target cmd.Target, log zerolog.Logger) *Server {
	s := &Server{
		opts:   opts,
		table:  table,
		fleet:  f,
		target: target,
		log:    log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())
	api := r.Group("/api", s.authenticate())
	{
		api.POST("/command", s.command)
		api.GET("/bots", s.bots)
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("IPC server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("IPC server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown IPC server: %w", err)
	}
	s.log.Info().Msg("IPC server stopped")
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("request_id", c.GetString(requestIDHeader)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("IPC request")
	}
}

// authenticate is a no-op without a configured password.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.Password == "" {
			c.Next()
			return
		}
		got := c.GetHeader("Authentication")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.Password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) command(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	tokens := util.Tokenize(req.Command)
	if len(tokens) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty command"})
		return
	}

	id := c.GetString(requestIDHeader)
	ctx := commands.WithSource(c.Request.Context(), "ipc")
	result := s.table.Dispatch(ctx, s.target, s.opts.Caller, req.Command, tokens)
	s.log.Info().Str("request_id", id).Str("command", tokens[0]).Msg("IPC command executed")

	c.JSON(http.StatusOK, CommandResponse{RequestID: id, Result: result})
}

func (s *Server) bots(c *gin.Context) {
	bots := s.fleet.Bots()
	out := make([]BotStatus, 0, len(bots))
	for _, b := range bots {
		out = append(out, BotStatus{Name: b.Name(), Ready: s.fleet.IsReady(b)})
	}
	c.JSON(http.StatusOK, out)
}
