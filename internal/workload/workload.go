// Package workload describes the initial process set of a simulation and
// drives one scheduler run over it.
package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/scheduler"
	"github.com/me/credsched/pkg/model"
	"gopkg.in/yaml.v3"
)

// Workload is a named process set plus optional simulation overrides.
// JSON documents are accepted as well since they decode as YAML.
type Workload struct {
	Name        string              `json:"name" yaml:"name"`
	BurstPolicy model.BurstPolicy   `json:"burst_policy,omitempty" yaml:"burst_policy,omitempty"`
	Heartbeat   *bool               `json:"heartbeat,omitempty" yaml:"heartbeat,omitempty"`
	MaxTicks    int                 `json:"max_ticks,omitempty" yaml:"max_ticks,omitempty"`
	Processes   []model.ProcessSpec `json:"processes" yaml:"processes"`
}

// Load reads and parses a workload file.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse workload %s: %w", path, err)
	}
	return w, nil
}

// MaxField bounds every numeric process field and max_ticks. It keeps a
// run's clock arithmetic far away from int overflow.
const MaxField = 1 << 31

// processEntry is the on-disk form of a process. Order is a pointer so an
// explicit 0 can be told apart from an omitted field.
type processEntry struct {
	Name     string `yaml:"name"`
	Burst    int    `yaml:"burst"`
	IO       int    `yaml:"io"`
	Demand   int    `yaml:"demand"`
	Priority int    `yaml:"priority"`
	Order    *int   `yaml:"order"`
}

type document struct {
	Name        string            `yaml:"name"`
	BurstPolicy model.BurstPolicy `yaml:"burst_policy"`
	Heartbeat   *bool             `yaml:"heartbeat"`
	MaxTicks    int               `yaml:"max_ticks"`
	Processes   []processEntry    `yaml:"processes"`
}

// Parse decodes a YAML or JSON workload. Unknown keys are rejected.
// Processes without an order get their 1-based position.
func Parse(data []byte) (*Workload, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}

	w := &Workload{
		Name:        doc.Name,
		BurstPolicy: doc.BurstPolicy,
		Heartbeat:   doc.Heartbeat,
		MaxTicks:    doc.MaxTicks,
		Processes:   make([]model.ProcessSpec, len(doc.Processes)),
	}
	for i, e := range doc.Processes {
		order := i + 1
		if e.Order != nil {
			order = *e.Order
		}
		w.Processes[i] = model.ProcessSpec{
			Name:     e.Name,
			Burst:    e.Burst,
			IO:       e.IO,
			Demand:   e.Demand,
			Priority: e.Priority,
			Order:    order,
		}
	}
	w.normalize()
	return w, nil
}

func (w *Workload) normalize() {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		w.Name = "workload"
	}
	for i := range w.Processes {
		w.Processes[i].Name = strings.TrimSpace(w.Processes[i].Name)
	}
}

// Validate checks the preconditions under which a run is guaranteed to
// terminate. It returns nil or a *model.APIError listing every violation.
func (w *Workload) Validate() error {
	var details []model.FieldError
	add := func(field, msg string) {
		details = append(details, model.FieldError{Field: field, Message: msg})
	}

	if w.BurstPolicy != "" && !w.BurstPolicy.IsValid() {
		add("burst_policy", fmt.Sprintf("unknown policy %q (want yield or drain)", w.BurstPolicy))
	}
	if w.MaxTicks < 0 {
		add("max_ticks", "must be >= 0")
	} else if w.MaxTicks > MaxField {
		add("max_ticks", fmt.Sprintf("must be <= %d", MaxField))
	}
	if len(w.Processes) == 0 {
		add("processes", "at least one process is required")
	}

	seen := make(map[string]int, len(w.Processes))
	for i, p := range w.Processes {
		field := func(name string) string { return fmt.Sprintf("processes[%d].%s", i, name) }

		if p.Name == "" {
			add(field("name"), "required")
		} else if j, dup := seen[p.Name]; dup {
			add(field("name"), fmt.Sprintf("duplicate of processes[%d]", j))
		} else {
			seen[p.Name] = i
		}
		inRange := func(name string, v int) {
			switch {
			case v < 0:
				add(field(name), "must be >= 0")
			case v > MaxField:
				add(field(name), fmt.Sprintf("must be <= %d", MaxField))
			}
		}
		inRange("burst", p.Burst)
		inRange("io", p.IO)
		inRange("demand", p.Demand)
		inRange("order", p.Order)
		if p.Priority > MaxField {
			add(field("priority"), fmt.Sprintf("must be <= %d", MaxField))
		}
		if p.Priority < 1 {
			add(field("priority"), "must be >= 1; a zero-priority process never regains credits")
		}
		if p.Burst == 0 && p.Demand > 0 {
			add(field("burst"), "must be >= 1 while demand > 0")
		}
	}

	if len(details) > 0 {
		return model.NewValidationError("invalid workload", details...)
	}
	return nil
}

// Apply overlays the workload's overrides on base. A positive base MaxTicks
// is a ceiling: the workload may lower it but never raise it.
func (w *Workload) Apply(base config.SimulationConfig) config.SimulationConfig {
	cfg := base
	if w.BurstPolicy != "" {
		cfg.BurstPolicy = w.BurstPolicy
	}
	if w.Heartbeat != nil {
		cfg.Heartbeat = *w.Heartbeat
	}
	if w.MaxTicks > 0 && (base.MaxTicks <= 0 || w.MaxTicks < base.MaxTicks) {
		cfg.MaxTicks = w.MaxTicks
	}
	return cfg
}

// NewProcesses builds fresh scheduler processes for one run.
func (w *Workload) NewProcesses() []*scheduler.Process {
	procs := make([]*scheduler.Process, len(w.Processes))
	for i, spec := range w.Processes {
		procs[i] = scheduler.NewProcess(spec)
	}
	return procs
}

// Demo returns the four-process reference workload.
func Demo() *Workload {
	w := &Workload{
		Name: "demo",
		Processes: []model.ProcessSpec{
			{Name: "A", Burst: 3, IO: 5, Demand: 10, Priority: 2, Order: 1},
			{Name: "B", Burst: 4, IO: 2, Demand: 12, Priority: 3, Order: 2},
			{Name: "C", Burst: 2, IO: 6, Demand: 8, Priority: 1, Order: 3},
			{Name: "D", Burst: 5, IO: 4, Demand: 15, Priority: 4, Order: 4},
		},
	}
	w.normalize()
	return w
}
