package fake

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/appdraft/appdraft/internal/generation"
	"github.com/appdraft/appdraft/internal/model"
)

// scriptEvent is the YAML form of a generation event. Example script:
//
//	- kind: plan
//	  steps: ["Header", "Body"]
//	- kind: step_start
//	  step: 0
//	- kind: fatal
//	  message: "model refused"
type scriptEvent struct {
	Kind        string   `yaml:"kind"`
	Steps       []string `yaml:"steps,omitempty"`
	Step        int      `yaml:"step,omitempty"`
	Code        string   `yaml:"code,omitempty"`
	Explanation string   `yaml:"explanation,omitempty"`
	Message     string   `yaml:"message,omitempty"`
	RetriesLeft int      `yaml:"retries_left,omitempty"`
	Plan        []string `yaml:"plan,omitempty"`
	ElapsedMS   int      `yaml:"elapsed_ms,omitempty"`
	CreditCost  float64  `yaml:"credit_cost,omitempty"`
}

// LoadScript reads a YAML event script for the fake generation service.
func LoadScript(path string) ([]generation.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read script file: %w", err)
	}

	return ParseScript(data)
}

// ParseScript parses a YAML event script.
func ParseScript(data []byte) ([]generation.Event, error) {
	var raw []scriptEvent
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse script: %w", err)
	}

	events := make([]generation.Event, 0, len(raw))
	for i, se := range raw {
		ev, err := se.toEvent()
		if err != nil {
			return nil, fmt.Errorf("invalid script event %d: %w", i, err)
		}
		events = append(events, ev)
	}

	return events, nil
}

func (se scriptEvent) toEvent() (generation.Event, error) {
	kind := generation.EventKind(se.Kind)
	switch kind {
	case generation.EventPlan, generation.EventStepStart, generation.EventStepComplete,
		generation.EventChunk, generation.EventSuccess, generation.EventError, generation.EventFatal:
	default:
		return generation.Event{}, fmt.Errorf("unknown event kind %q: %w", se.Kind, model.ErrNotValid)
	}

	ev := generation.Event{
		Kind:        kind,
		Steps:       se.Steps,
		StepIndex:   se.Step,
		Code:        se.Code,
		Explanation: se.Explanation,
		Message:     se.Message,
		RetriesLeft: se.RetriesLeft,
		Plan:        se.Plan,
	}

	if kind == generation.EventSuccess && (se.ElapsedMS > 0 || se.CreditCost > 0) {
		ev.Meta = &model.BuildMeta{
			Elapsed:    time.Duration(se.ElapsedMS) * time.Millisecond,
			CreditCost: se.CreditCost,
		}
	}

	return ev, nil
}
