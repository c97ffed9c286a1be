package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/compare"
	"github.com/rgehrsitz/njtax/internal/config"
)

// Server is the HTTP boundary over a loaded dataset. The dataset is never
// mutated after construction, so handlers read it without locking.
type Server struct {
	dataset    *config.Dataset
	calculator *calculation.TaxCalculator
	deriver    *compare.Deriver
	logger     calculation.Logger
}

// NewServer creates a server for ds. A nil deriver uses the default threshold.
func NewServer(ds *config.Dataset, deriver *compare.Deriver, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	if deriver == nil {
		deriver = compare.NewDeriver()
	}
	calc := calculation.NewTaxCalculator(ds.Rates)
	calc.SetLogger(logger)
	return &Server{dataset: ds, calculator: calc, deriver: deriver, logger: logger}
}

// Router builds the gin engine. mode is one of gin's debug, release, or test.
func (s *Server) Router(mode string) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	router.Use(RequestID())

	router.GET("/health", s.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/calculate", s.Calculate)
		v1.GET("/exemptions", s.Exemptions)
		v1.GET("/counties", s.Counties)
		v1.GET("/counties/:county/towns", s.Towns)
		v1.GET("/counties/:county/towns/:town/overview", s.Overview)
		v1.GET("/counties/:county/ranking", s.Ranking)
	}

	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr, mode string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Infof("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
