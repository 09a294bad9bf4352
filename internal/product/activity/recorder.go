package activity

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/reclaimed-storefront/kafka"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// Recorder turns consumed favorite events into prometheus counters
type Recorder struct {
	toggles *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	toggles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_favorite_events_total",
			Help: "Favorite events consumed from kafka, by action",
		},
		[]string{"action"},
	)
	if err := reg.Register(toggles); err != nil {
		return nil, fmt.Errorf("failed to register favorite activity counter: %w", err)
	}
	return &Recorder{toggles: toggles}, nil
}

// Handle is a kafka.EventHandler
func (r *Recorder) Handle(ctx context.Context, event kafka.FavoriteToggledEvent) error {
	switch event.Action {
	case kafka.ActionAdd, kafka.ActionRemove:
	default:
		return fmt.Errorf("unknown favorite action %q", event.Action)
	}

	r.toggles.WithLabelValues(event.Action).Inc()
	logger.Debug(ctx).
		Str("product_id", event.ProductID).
		Str("action", event.Action).
		Msg("Favorite activity recorded")
	return nil
}
