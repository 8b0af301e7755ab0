package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "workflowui"

// Recorder receives transform and commit observations.
type Recorder interface {
	FormTransformed(style, outcome string)
	ButtonsRendered(count int)
	TransitionCommitted(outcome string)
	CommandExecuted(command, outcome string, elapsed time.Duration)
}

// Metrics exports Recorder observations as Prometheus collectors.
type Metrics struct {
	transforms *prometheus.CounterVec
	buttons    prometheus.Histogram
	commits    *prometheus.CounterVec
	commands   *prometheus.HistogramVec
}

var _ Recorder = (*Metrics)(nil)

// New builds the collectors and registers them with reg. A nil registerer
// skips registration.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transforms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_transforms_total",
				Help:      "Total number of workflow forms processed",
			},
			[]string{"style", "outcome"},
		),
		buttons: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transition_buttons",
				Help:      "Number of transition buttons rendered per form",
				Buckets:   []float64{1, 2, 3, 5, 8},
			},
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transition_commits_total",
				Help:      "Total number of transition button submissions",
			},
			[]string{"outcome"}, // outcome: committed, skipped, error
		),
		commands: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of workflowui command executions",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"command", "outcome"},
		),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.transforms, err = register(reg, m.transforms); err != nil {
		return nil, err
	}
	if m.buttons, err = register(reg, m.buttons); err != nil {
		return nil, err
	}
	if m.commits, err = register(reg, m.commits); err != nil {
		return nil, err
	}
	if m.commands, err = register(reg, m.commands); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the collector already registered under the same
// descriptor when there is one, so repeated construction shares series.
func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (m *Metrics) FormTransformed(style, outcome string) {
	m.transforms.WithLabelValues(style, outcome).Inc()
}

func (m *Metrics) ButtonsRendered(count int) {
	m.buttons.Observe(float64(count))
}

func (m *Metrics) TransitionCommitted(outcome string) {
	m.commits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CommandExecuted(command, outcome string, elapsed time.Duration) {
	m.commands.WithLabelValues(command, outcome).Observe(elapsed.Seconds())
}

// NoOp returns a recorder that drops observations.
func NoOp() Recorder {
	return noop{}
}

type noop struct{}

func (noop) FormTransformed(string, string) {}
func (noop) ButtonsRendered(int)            {}
func (noop) TransitionCommitted(string)     {}

func (noop) CommandExecuted(string, string, time.Duration) {}
