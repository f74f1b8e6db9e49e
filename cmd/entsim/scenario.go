package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Scenario describes one simulation run: the priority patterns, the
// entity templates with their behaviors, the entities to create, and the
// events to schedule.
type Scenario struct {
	Priorities []string       `yaml:"priorities"`
	LogTopics  []string       `yaml:"log-topics"`
	Templates  []TemplateSpec `yaml:"templates"`
	Entities   []EntitySpec   `yaml:"entities"`
	Events     []EventSpec    `yaml:"events"`
}

// A TemplateSpec describes one entity template.
type TemplateSpec struct {
	Name      string         `yaml:"name"`
	Defaults  map[string]any `yaml:"defaults"`
	Behaviors []BehaviorSpec `yaml:"behaviors"`
}

// A BehaviorSpec attaches one built-in behavior to an event name.
type BehaviorSpec struct {
	// On is the event name the behavior reacts to.
	On string `yaml:"on"`
	// Do selects the built-in behavior: log, count, or emit.
	Do string `yaml:"do"`
	// Arg parameterizes the behavior: the property to count into, or the
	// name of the event to emit one tick later.
	Arg string `yaml:"arg"`
}

// An EntitySpec creates entities from a template.
type EntitySpec struct {
	Template  string         `yaml:"template"`
	Count     int            `yaml:"count"`
	Overrides map[string]any `yaml:"overrides"`
}

// An EventSpec schedules one event.
type EventSpec struct {
	Name  string         `yaml:"name"`
	Time  int64          `yaml:"time"`
	Props map[string]any `yaml:"props"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return sc, nil
}

func (sc *Scenario) validate() error {
	templates := map[string]bool{}
	for _, t := range sc.Templates {
		if t.Name == "" {
			return fmt.Errorf("template without a name")
		}

		if templates[t.Name] {
			return fmt.Errorf("duplicate template %q", t.Name)
		}
		templates[t.Name] = true

		for _, b := range t.Behaviors {
			if err := b.validate(t.Name); err != nil {
				return err
			}
		}
	}

	for _, e := range sc.Entities {
		if !templates[e.Template] {
			return fmt.Errorf("unknown template %q", e.Template)
		}
	}

	for _, ev := range sc.Events {
		if ev.Name == "" {
			return fmt.Errorf("event without a name")
		}

		if ev.Time <= 0 {
			return fmt.Errorf("event %q must have a positive time", ev.Name)
		}
	}

	return nil
}

func (b BehaviorSpec) validate(template string) error {
	if b.On == "" {
		return fmt.Errorf("template %q: behavior without an event name",
			template)
	}

	switch b.Do {
	case "log", "count":
	case "emit":
		if b.Arg == "" {
			return fmt.Errorf(
				"template %q: emit behavior needs an event name argument",
				template)
		}
	default:
		return fmt.Errorf("template %q: unknown behavior %q", template, b.Do)
	}

	return nil
}
