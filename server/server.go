package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"electro_store/config"
	"electro_store/database/handler"
	authmw "electro_store/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

type Server struct {
	chi.Router

	mu       sync.Mutex
	server   *http.Server
	timeouts config.Server
	closers  []io.Closer
}

// Options carries what the routes need besides the handlers themselves.
type Options struct {
	Tokens      *authmw.TokenIssuer
	Users       authmw.UserLookup
	CORSOrigins []string
	Timeouts    config.Server
}

func SetupRoutes(h *handler.Handler, opts Options) *Server {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		authmw.RequestLogger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	router.Get("/health", h.Health)
	router.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			PublicRoute(public, h)
		})
		api.Group(func(user chi.Router) {
			user.Use(authmw.AuthMiddleware(opts.Tokens, opts.Users))
			UserRoute(user, h)
		})
		api.Group(func(admin chi.Router) {
			admin.Use(authmw.AuthMiddleware(opts.Tokens, opts.Users))
			admin.Use(authmw.AdminMiddleware)
			AdminRoute(admin, h)
		})
		api.With(authmw.QueryAuthMiddleware(opts.Tokens, opts.Users), authmw.AdminMiddleware).
			Get("/orders/ws", h.OrdersWS)
	})

	return &Server{
		Router:   router,
		timeouts: opts.Timeouts,
	}
}

// OnStop registers resources closed after the listener has shut down.
func (srv *Server) OnStop(closers ...io.Closer) {
	srv.closers = append(srv.closers, closers...)
}

func (srv *Server) Run(addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router,
		ReadTimeout:       srv.timeouts.ReadTimeout,
		ReadHeaderTimeout: srv.timeouts.ReadHeaderTimeout,
		WriteTimeout:      srv.timeouts.WriteTimeout,
	}
	srv.mu.Lock()
	srv.server = httpServer
	srv.mu.Unlock()
	return httpServer.ListenAndServe()
}

func (srv *Server) Stop(timeout time.Duration) error {
	srv.mu.Lock()
	httpServer := srv.server
	srv.mu.Unlock()

	var result *multierror.Error
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for i := len(srv.closers) - 1; i >= 0; i-- {
		if err := srv.closers[i].Close(); err != nil {
			logrus.Errorf("Stop: failed to close resource err = %v", err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
