package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/limbo/readtogether/internal/service"
)

type Server struct {
	mx              *chi.Mux
	calendarService service.CalendarServiceI
	jwtService      JWTServiceI
	logger          *zap.Logger
}

type ServicesList struct {
	CalendarService service.CalendarServiceI
	JwtService      JWTServiceI
	Logger          *zap.Logger
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:              chi.NewMux(),
		calendarService: servicesOptions.CalendarService,
		jwtService:      servicesOptions.JwtService,
		logger:          servicesOptions.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.mountEndpoints()
	return s
}

func (s *Server) mountEndpoints() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		r.Use(s.LoggerExtensionMiddleware)
		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/week", s.GetWeek)
			r.Get("/month", s.GetMonth)
			r.Get("/stats", s.GetStats)
			r.Get("/entries", s.GetEntries)
			r.Put("/days/{date}", s.ToggleDay)
		})
		r.With(s.AdminOnlyMiddleware).Delete("/admin/groups/{groupID}/completions", s.PurgeGroup)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
