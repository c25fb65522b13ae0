package processor

import (
	"github.com/gamehubz/matchday/internal/metrics"
	"github.com/gamehubz/matchday/internal/pubsub"
)

// Processor handles the business logic of advancing matches through their
// notification lifecycle.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
