package http

import (
	"net/http"

	"github.com/gamehubz/matchday/internal/config"
	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/gamehubz/matchday/internal/hub"
	"github.com/gamehubz/matchday/internal/metrics"
	"github.com/gamehubz/matchday/internal/notifier"
	"github.com/gamehubz/matchday/internal/processor"
	"github.com/gamehubz/matchday/internal/pubsub"
	"github.com/go-playground/validator/v10"
)

func NewServer(store hub.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, gamehubzClient gamehubz.Client, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		GameHubz:       gamehubzClient,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/fetch", Chain(s.FetchMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/process", Chain(s.ProcessMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/availability", Chain(s.AvailabilityHandler(), paramsMiddleware))
	s.Router.Handle("/availability/toggle", Chain(s.ToggleAvailabilityHandler(), paramsMiddleware))
	s.Router.Handle("/availability/submit", Chain(s.SubmitAvailabilityHandler(), paramsMiddleware))
	s.Router.Handle("/report-result", Chain(s.ReportResultHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/match-completed", Chain(s.MatchCompletedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
