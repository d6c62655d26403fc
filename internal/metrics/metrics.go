// Package metrics exposes wizard counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg          *prometheus.Registry
	Transitions  *prometheus.CounterVec
	Orders       prometheus.Counter
	OrderValue   prometheus.Histogram
	ARSessions   *prometheus.CounterVec
	Captures     prometheus.Counter
	GuardRejects *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drapery_wizard_transitions_total",
		Help: "Wizard step changes by event and destination step.",
	}, []string{"event", "to"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drapery_orders_placed_total",
		Help: "Orders placed.",
	})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drapery_order_total_dollars",
		Help:    "Order totals including tax.",
		Buckets: []float64{100, 250, 500, 750, 1000, 1500, 2500, 5000},
	})
	ar := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drapery_ar_sessions_total",
		Help: "AR session start attempts by outcome.",
	}, []string{"outcome"})
	captures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drapery_preview_captures_total",
		Help: "Preview images saved.",
	})
	rejects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drapery_wizard_rejected_total",
		Help: "Wizard transitions refused by a guard.",
	}, []string{"event"})

	r.MustRegister(transitions, orders, value, ar, captures, rejects)
	return &Registry{
		reg:          r,
		Transitions:  transitions,
		Orders:       orders,
		OrderValue:   value,
		ARSessions:   ar,
		Captures:     captures,
		GuardRejects: rejects,
	}
}

// ObserveTransition counts a wizard step change.
func (r *Registry) ObserveTransition(t flow.Transition) {
	r.Transitions.WithLabelValues(string(t.Event), t.To.String()).Inc()
}

// ObserveOrder counts a placed order and its value.
func (r *Registry) ObserveOrder(o order.Order) {
	r.Orders.Inc()
	r.OrderValue.Observe(o.Breakdown.Total)
}

// ObserveAR counts an AR start attempt.
func (r *Registry) ObserveAR(err error) {
	outcome := "started"
	if err != nil {
		outcome = "failed"
	}
	r.ARSessions.WithLabelValues(outcome).Inc()
}

// ObserveReject counts a transition refused by a guard.
func (r *Registry) ObserveReject(ev flow.Event) {
	r.GuardRejects.WithLabelValues(string(ev)).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
