// Package scenario describes input schedules for driving a generator: which
// lines change when, and how many samples to take after each change.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Inputs mirror the generator's five binary lines.
type Inputs struct {
	B1    bool `yaml:"b1"`
	B2    bool `yaml:"b2"`
	B3    bool `yaml:"b3"`
	B4    bool `yaml:"b4"`
	Reset bool `yaml:"reset"`
}

// Step optionally changes the inputs at Start, then renders Samples samples
// with time counting up from Start (wrapping at 16 bits).
type Step struct {
	Inputs  *Inputs `yaml:"inputs,omitempty"`
	Start   uint16  `yaml:"start"`
	Samples int     `yaml:"samples"`
}

type Scenario struct {
	Name      string `yaml:"name"`
	InitTime  uint16 `yaml:"init_time"`
	HoldReset bool   `yaml:"hold_reset"`
	Steps     []Step `yaml:"steps"`
}

var (
	ErrNoSteps    = errors.New("scenario: no steps")
	ErrBadSamples = errors.New("scenario: samples must be positive")
)

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}
	for i, st := range s.Steps {
		if st.Samples <= 0 {
			return fmt.Errorf("%w: step %d has %d", ErrBadSamples, i, st.Samples)
		}
	}
	return nil
}

// TotalSamples is the number of samples a full run produces.
func (s *Scenario) TotalSamples() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Samples
	}
	return n
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes s as YAML.
func Marshal(s *Scenario) ([]byte, error) {
	return yaml.Marshal(s)
}

const (
	blockSamples = 16383 * 16
	warmSamples  = 16383 * 32
)

// Default is the bench schedule the generator was first characterised with:
// a long run straight after init, then seven input changes, each followed by
// a block with time restarting at zero.
func Default() *Scenario {
	in := func(b1, b2, b3, b4, reset bool) *Inputs {
		return &Inputs{B1: b1, B2: b2, B3: b3, B4: b4, Reset: reset}
	}
	return &Scenario{
		Name: "bench",
		Steps: []Step{
			{Samples: warmSamples},
			{Inputs: in(true, false, false, false, true), Samples: blockSamples},
			{Inputs: in(true, false, true, false, false), Samples: blockSamples},
			{Inputs: in(true, true, true, true, false), Samples: blockSamples},
			{Inputs: in(true, true, true, true, false), Samples: blockSamples},
			{Inputs: in(true, true, true, false, true), Samples: blockSamples},
			{Inputs: in(true, true, true, false, true), Samples: blockSamples},
			{Inputs: in(true, true, false, false, false), Samples: blockSamples},
		},
	}
}
