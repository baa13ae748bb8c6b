package metric

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

const namespace = "kvplay"

// Result label values. Failed commands are labelled with their error class
// (syntax, type, range) when they have one.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	KeysExpired     prometheus.Counter
	Sweeps          prometheus.Counter
}

// NewRegistry creates a registry with all kvplay metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command and result (ok or error class)",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		KeysExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_expired_total",
			Help:      "Keys removed by the expiration sweeper",
		}),
		Sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Sweeps that removed at least one key",
		}),
	}
	r.reg.MustRegister(r.CommandsTotal, r.CommandDuration, r.KeysExpired, r.Sweeps)
	return r
}

// WithGoCollector adds the standard Go runtime metrics.
func (r *Registry) WithGoCollector() *Registry {
	r.reg.MustRegister(collectors.NewGoCollector())
	return r
}

// Register adds a custom collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// CommandUnknown labels lines with no command or an unrecognised one.
const CommandUnknown = "unknown"

// ObserveCommand records one executed command and the error it failed
// with, if any. Unrecognised names share the CommandUnknown label so that
// arbitrary input never becomes a label value.
func (r *Registry) ObserveCommand(name string, err error, d time.Duration) {
	if name == "" || errors.Is(err, domain.ErrUnknownCommand) {
		name = CommandUnknown
	}
	r.CommandsTotal.WithLabelValues(name, resultLabel(err)).Inc()
	r.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

func resultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	if class := domain.ClassOf(err); class != 0 {
		return class.String()
	}
	return ResultError
}

// ObserveSweep records one sweep that removed n keys.
func (r *Registry) ObserveSweep(n int) {
	if n <= 0 {
		return
	}
	r.Sweeps.Inc()
	r.KeysExpired.Add(float64(n))
}

// WriteTextfile writes all metrics to path in the text exposition format,
// for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Summary is a point-in-time digest of the registry.
type Summary struct {
	Commands    float64            `json:"commands" yaml:"commands"`
	Errors      float64            `json:"errors" yaml:"errors"`
	KeysExpired float64            `json:"keys_expired" yaml:"keys_expired"`
	Keys        float64            `json:"keys" yaml:"keys"`
	ByCommand   map[string]float64 `json:"by_command" yaml:"by_command"`
	ByResult    map[string]float64 `json:"by_result" yaml:"by_result"`
}

// TopCommands returns command names ordered by count, highest first.
func (s Summary) TopCommands() []string {
	names := make([]string, 0, len(s.ByCommand))
	for name := range s.ByCommand {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.ByCommand[names[i]] != s.ByCommand[names[j]] {
			return s.ByCommand[names[i]] > s.ByCommand[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Summary gathers the registry and condenses it.
func (r *Registry) Summary() (Summary, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return Summary{}, fmt.Errorf("gather metrics: %w", err)
	}

	s := Summary{
		ByCommand: make(map[string]float64),
		ByResult:  make(map[string]float64),
	}
	for _, mf := range families {
		switch mf.GetName() {
		case "kvplay_commands_total":
			for _, m := range mf.GetMetric() {
				var command, result string
				for _, lp := range m.GetLabel() {
					switch lp.GetName() {
					case "command":
						command = lp.GetValue()
					case "result":
						result = lp.GetValue()
					}
				}
				v := m.GetCounter().GetValue()
				s.Commands += v
				s.ByCommand[command] += v
				s.ByResult[result] += v
				if result != ResultOK {
					s.Errors += v
				}
			}
		case "kvplay_keys_expired_total":
			for _, m := range mf.GetMetric() {
				s.KeysExpired += m.GetCounter().GetValue()
			}
		case "kvplay_keys":
			for _, m := range mf.GetMetric() {
				s.Keys += m.GetGauge().GetValue()
			}
		}
	}
	return s, nil
}
