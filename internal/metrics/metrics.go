// Package metrics exposes game activity as Prometheus counters.
package metrics

import (
	"context"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the vialsort counters.
type Collector struct {
	Moves      *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Undos      *prometheus.CounterVec
	Solved     prometheus.Counter
	Games      prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vialsort_moves_total",
				Help: "Accepted moves by kind",
			},
			[]string{"kind"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vialsort_rejections_total",
				Help: "Rejected pours by reason",
			},
			[]string{"reason"},
		),
		Undos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vialsort_undos_total",
				Help: "Undo requests, split by whether anything was undone",
			},
			[]string{"undone"},
		),
		Solved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vialsort_games_solved_total",
			Help: "Games that reached a solved board",
		}),
		Games: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vialsort_games_started_total",
			Help: "Games created",
		}),
	}
	reg.MustRegister(c.Moves, c.Rejections, c.Undos, c.Solved, c.Games)
	return c
}

// Hooks returns lifecycle hooks that feed the counters.
// If next is non-nil its callbacks run after the counters are updated.
func (c *Collector) Hooks(next *domain.LifecycleHooks) domain.LifecycleHooks {
	chain := domain.LifecycleHooks{}
	if next != nil {
		chain = *next
	}

	return domain.LifecycleHooks{
		OnMove: func(ctx context.Context, e *domain.MoveEvent) {
			c.Moves.WithLabelValues(string(e.Move.Kind)).Inc()
			if chain.OnMove != nil {
				chain.OnMove(ctx, e)
			}
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			c.Rejections.WithLabelValues(e.Reason).Inc()
			if chain.OnReject != nil {
				chain.OnReject(ctx, e)
			}
		},
		OnUndo: func(ctx context.Context, e *domain.UndoEvent) {
			label := "false"
			if e.Undone {
				label = "true"
			}
			c.Undos.WithLabelValues(label).Inc()
			if chain.OnUndo != nil {
				chain.OnUndo(ctx, e)
			}
		},
		OnSolved: func(ctx context.Context, e *domain.EventBase) {
			c.Solved.Inc()
			if chain.OnSolved != nil {
				chain.OnSolved(ctx, e)
			}
		},
	}
}
