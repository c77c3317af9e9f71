package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ListenConfig struct {
	Listen string `help:"Address of the manual dispatch API (disabled when empty)." env:"LISTEN" optional:"" group:"Server"`
}

type dispatchRequest struct {
	BlockedUsers string `json:"blocked_users"`
	FastMode     bool   `json:"fast_mode"`
}

type dispatchResponse struct {
	ID      string `json:"id"`
	Trigger string `json:"trigger"`
}

// Server accepts manual dispatches and hands them over as triggers.
type Server struct {
	triggers chan<- model.Trigger
	gatherer prometheus.Gatherer
	now      func() time.Time
}

func New(triggers chan<- model.Trigger, gatherer prometheus.Gatherer) *Server {
	return &Server{triggers: triggers, gatherer: gatherer, now: time.Now}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	router.POST("/v1/dispatch", s.dispatch)

	return router
}

func (s *Server) dispatch(c *gin.Context) {
	request := dispatchRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	trigger := model.ManualRun(s.now(), request.BlockedUsers, request.FastMode)
	select {
	case s.triggers <- trigger:
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dispatch cancelled"})
		return
	}

	c.JSON(http.StatusAccepted, dispatchResponse{ID: uuid.NewString(), Trigger: trigger.String()})
}

// ListenAndServe blocks until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	log := logger.WithComponent("server")
	httpServer := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}

	errs := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	log := logger.WithComponent("server")
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.WithField("status", c.Writer.Status()).
			WithField("duration", time.Since(started)).
			Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
