package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router returns the HTTP handler of the API.
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	api.GET("/report", s.HandleReport)
	api.GET("/kpi", s.HandleKPI)
	api.GET("/flow", s.HandleFlow)
	api.GET("/balance", s.HandleBalance)
	api.GET("/trend", s.HandleTrend)
	api.GET("/unreconciled", s.HandleUnreconciled)
	api.GET("/months", s.HandleMonths)
	api.POST("/reconcile", s.HandleReconcile)
	api.GET("/cache/status", s.HandleCacheStatus)
	api.POST("/cache/refresh", s.HandleCacheRefresh)
	return r
}

// requestLogger logs every request at debug level.
func (s *Service) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// Serve listens on addr until ctx is done, then shuts the server down
// gracefully.
func (s *Service) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("ledger", s.book.Path()).Msg("Starting HTTP server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
