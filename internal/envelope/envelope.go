// Package envelope implements the linear ramp-up/steady/ramp-down amplitude
// envelope driven by a reset line.
package envelope

import (
	"errors"
	"fmt"
)

type State uint8

const (
	Idle State = iota
	RampUp
	Steady
	RampDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RampUp:
		return "ramp-up"
	case Steady:
		return "steady"
	case RampDown:
		return "ramp-down"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type Params struct {
	RampSteps    uint32 // ticks to ramp between 0 and MaxAmplitude
	MaxAmplitude uint16
}

// DefaultParams ramps to 19 over 132000 ticks, about two seconds of 1 ms
// ticks as the host clock counts them.
func DefaultParams() Params {
	return Params{
		RampSteps:    132000,
		MaxAmplitude: 19,
	}
}

var ErrInvalidParams = errors.New("envelope: invalid params")

func (p Params) Validate() error {
	if p.MaxAmplitude == 0 {
		return fmt.Errorf("%w: zero max amplitude", ErrInvalidParams)
	}
	if p.RampSteps < uint32(p.MaxAmplitude) {
		return fmt.Errorf("%w: %d ramp steps cannot reach amplitude %d", ErrInvalidParams, p.RampSteps, p.MaxAmplitude)
	}
	return nil
}

// Envelope is the four-state machine. Transitions depend only on the reset
// line and the ramp timer, and amplitude always matches the state: 0 in Idle,
// MaxAmplitude in Steady, linear in between.
type Envelope struct {
	params  Params
	rateInv uint32 // ticks per amplitude step

	state     State
	timer     uint32
	amplitude uint16
	reset     bool
}

func New(p Params) (*Envelope, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Envelope{
		params:  p,
		rateInv: p.RampSteps / uint32(p.MaxAmplitude),
	}, nil
}

// Start puts the envelope back in Idle with the ramp timer preloaded and the
// reset line set as given. It does not tick.
func (e *Envelope) Start(timer uint32, reset bool) {
	e.state = Idle
	e.timer = timer
	e.reset = reset
}

// SetReset latches the reset line. It takes effect on the next Tick.
func (e *Envelope) SetReset(reset bool) { e.reset = reset }

// Tick advances the machine by one sample period and reports whether the
// state changed.
func (e *Envelope) Tick() bool {
	prev := e.state
	switch e.state {
	case Idle:
		e.amplitude = 0
		if !e.reset {
			e.enter(RampUp)
		}
	case RampUp:
		e.timer++
		if e.timer < e.params.RampSteps {
			e.amplitude = e.level()
		} else {
			e.state = Steady
		}
	case RampDown:
		e.timer++
		if e.timer < e.params.RampSteps {
			e.amplitude = e.params.MaxAmplitude - e.level()
		} else {
			e.state = Idle
		}
	case Steady:
		e.amplitude = e.params.MaxAmplitude
		if e.reset {
			e.enter(RampDown)
		}
	}
	return e.state != prev
}

// level is the ramp position in amplitude steps. The clamp only matters for
// params whose RampSteps is not close to a multiple of MaxAmplitude.
func (e *Envelope) level() uint16 {
	return uint16(min(e.timer/e.rateInv, uint32(e.params.MaxAmplitude)))
}

func (e *Envelope) enter(s State) {
	e.state = s
	e.timer = 0
}

func (e *Envelope) State() State      { return e.state }
func (e *Envelope) Amplitude() uint16 { return e.amplitude }
func (e *Envelope) Timer() uint32     { return e.timer }
