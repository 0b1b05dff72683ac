package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/zerobond-network/zerobond-daemon/internal/core/application"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// Service is the HTTP interface of the daemon.
type Service interface {
	// Start opens the listener. It returns once the server is shut down.
	Start() error
	// Stop gracefully shuts the server down.
	Stop(ctx context.Context) error
}

// ServiceOpts holds the dependencies and settings of the HTTP interface.
type ServiceOpts struct {
	Port          int
	LedgerService application.LedgerService
	PubSubService ports.SecurePubSub
	TLSKey        string
	TLSCert       string
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("port must be in range [1, 65535]")
	}
	if o.LedgerService == nil {
		return fmt.Errorf("missing ledger service")
	}
	if (o.TLSKey == "") != (o.TLSCert == "") {
		return fmt.Errorf("TLS requires both key and certificate when enabled")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the HTTP interface mounted on the ledger service.
func NewService(opts ServiceOpts) (Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid service options: %s", err)
	}

	router := newRouter(&ledgerHandler{
		svc:    opts.LedgerService,
		pubsub: opts.PubSubService,
	})

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: router,
		},
	}, nil
}

func (s *service) Start() error {
	log.Infof("http interface listening on %s", s.server.Addr)

	var err error
	if s.opts.TLSCert != "" {
		err = s.server.ListenAndServeTLS(s.opts.TLSCert, s.opts.TLSKey)
	} else {
		err = s.server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func newRouter(handler *ledgerHandler) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Route("/v1", func(r chi.Router) {
		r.Post("/markets", handler.createMarket)
		r.Get("/markets", handler.listMarkets)
		r.Get("/market", handler.getMarket)
		r.Post("/market/mint", handler.mintBonds)
		r.Post("/market/repay", handler.repayDebt)
		r.Post("/market/redeem", handler.redeemBonds)
		r.Get("/admin", handler.getAdmin)
		r.Put("/admin", handler.transferAdmin)
		r.Post("/webhooks", handler.subscribe)
		r.Delete("/webhooks", handler.unsubscribe)
		r.Get("/webhooks", handler.listSubscriptions)
	})
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("served request")
	})
}
