// Package metrics exports store activity as Prometheus metrics.
package metrics

import (
	"reflect"

	"github.com/TheBitDrifter/silo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

var _ silo.Engine = &Engine{}

// Engine is a silo.Engine counting the components that enter and leave a store.
// Register it for every component type that should be tracked.
type Engine struct {
	added   *prometheus.CounterVec
	removed *prometheus.CounterVec
	live    *prometheus.GaugeVec
	grows   *prometheus.CounterVec
}

// NewEngine creates the metrics and registers them with reg.
func NewEngine(reg prometheus.Registerer, namespace string) (*Engine, error) {
	e := &Engine{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_added_total",
			Help:      "Components merged into the store.",
		}, []string{"component"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_removed_total",
			Help:      "Components removed from the store, including group removals and disposal.",
		}, []string{"component"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "components_live",
			Help:      "Components currently merged into the store.",
		}, []string{"component"}),
		grows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_grows_total",
			Help:      "Reallocations of collection backing storage.",
		}, []string{"component"}),
	}

	for _, c := range []prometheus.Collector{e.added, e.removed, e.live, e.grows} {
		if err := reg.Register(c); err != nil {
			return nil, eris.Wrap(err, "failed to register store metrics")
		}
	}
	return e, nil
}

// Watch registers the engine on sto for every given component.
func (e *Engine) Watch(sto *silo.Store, components ...silo.Component) error {
	return sto.RegisterEngine(e, components...)
}

func (e *Engine) Add(_ silo.EGID, component any) {
	label := componentLabel(component)
	e.added.WithLabelValues(label).Inc()
	e.live.WithLabelValues(label).Inc()
}

func (e *Engine) Remove(_ silo.EGID, component any) {
	label := componentLabel(component)
	e.removed.WithLabelValues(label).Inc()
	e.live.WithLabelValues(label).Dec()
}

// CollectionEvents returns events counting collection growth, for silo.WithCollectionEvents
// or silo.Config.SetCollectionEvents.
func (e *Engine) CollectionEvents() silo.CollectionEvents {
	return silo.CollectionEvents{
		OnGrow: func(component string, _, _ int) {
			e.grows.WithLabelValues(component).Inc()
		},
	}
}

// componentLabel names the component the way silo.AccessibleComponent.Name does.
func componentLabel(component any) string {
	t := reflect.TypeOf(component)
	if t == nil {
		return "unknown"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
