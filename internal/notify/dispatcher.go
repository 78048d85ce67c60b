package notify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Dispatcher fans a notification out to every configured sink under a
// shared rate limit, so a burst of bookings cannot flood downstream
// recipients. Sink failures are logged and do not fail the booking that
// produced the notification.
type Dispatcher struct {
	sinks   []Sink
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher. perSecond bounds sink deliveries;
// values <= 0 fall back to 20/s with a burst of 30.
func NewDispatcher(sinks []Sink, perSecond float64, burst int, logger zerolog.Logger) *Dispatcher {
	if perSecond <= 0 {
		perSecond = 20
	}
	if burst <= 0 {
		burst = 30
	}
	return &Dispatcher{
		sinks:   sinks,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Dispatch delivers the notification to every sink in order. It blocks on
// the rate limiter and returns early only on context cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	for _, sink := range d.sinks {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := sink.Notify(ctx, n); err != nil {
			d.logger.Error().Err(err).Str("type", n.Type).Msg("notification sink failed")
		}
	}
	return nil
}

// LogSink writes notifications to the structured log. Used as the default
// sink when no recording store is wired.
type LogSink struct {
	Logger zerolog.Logger
}

// Notify implements Sink.
func (s LogSink) Notify(_ context.Context, n Notification) error {
	s.Logger.Info().
		Str("type", n.Type).
		Str("title", n.Title).
		Bool("for_admin", n.ForAdmin).
		Str("tech_id", n.TechID).
		Msg(n.Message)
	return nil
}
