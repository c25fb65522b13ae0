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

type Server struct {
	Store          hub.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	GameHubz       gamehubz.Client
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	validate       *validator.Validate
}
