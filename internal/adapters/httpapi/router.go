package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/buildinfo"
	"github.com/Guilhem-Bonnet/showwatch/internal/httpjson"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
)

// RunTrigger lance un run complet (implémenté par *app.Runner).
type RunTrigger interface {
	Run(ctx context.Context) (app.RunResult, error)
	LastRun() (app.LastRun, bool)
}

const defaultRequestTimeout = 30 * time.Second

type Server struct {
	logger    zerolog.Logger
	runner    RunTrigger
	watchlist ports.WatchlistSource
	state     ports.StateStore
	bus       ports.EventBus
	now       func() time.Time
}

func NewServer(logger zerolog.Logger, runner RunTrigger, watchlist ports.WatchlistSource, state ports.StateStore, bus ports.EventBus) *Server {
	return &Server{logger: logger, runner: runner, watchlist: watchlist, state: state, bus: bus, now: time.Now}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultRequestTimeout))
			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			if s.watchlist != nil && s.state != nil {
				NewWatchersHandler(s.watchlist, s.state, s.now).Routes(r)
			}
		})

		// Un run peut dépasser defaultRequestTimeout (FetchDelay entre watchers),
		// et le flux SSE reste ouvert: pas de middleware Timeout ici.
		if s.runner != nil {
			NewRunsHandler(s.runner).Routes(r)
		}
		r.Get("/events", s.handleEvents)
	})

	return r
}

type healthResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	LastRun *app.LastRun `json:"lastRun,omitempty"`
}

// handleHealth: process vivant + dernier run terminé (scheduler ou POST /runs).
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{Status: "ok", Version: buildinfo.Current().String()}
	if s.runner != nil {
		if last, ok := s.runner.LastRun(); ok {
			res.LastRun = &last
		}
	}
	httpjson.Write(w, http.StatusOK, res)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, buildinfo.Current())
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	route := ""
	if rc := chi.RouteContext(r.Context()); rc != nil {
		route = rc.RoutePattern()
	}
	hlog.FromRequest(r).Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("route", route).
		Msg("http")
}
