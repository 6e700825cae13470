package fgen

import (
	"errors"
	"fmt"
	"math"

	intenv "github.com/cbegin/fgen-go/internal/envelope"
	intphase "github.com/cbegin/fgen-go/internal/phase"
	intsine "github.com/cbegin/fgen-go/internal/sine"
)

// State is the envelope state of a Generator.
type State = intenv.State

const (
	StateIdle     = intenv.Idle
	StateRampUp   = intenv.RampUp
	StateSteady   = intenv.Steady
	StateRampDown = intenv.RampDown
)

type SynthMode string

const (
	// SynthModeLUT is the fixed-point reference path: table lookup with a
	// truncated inverse slope.
	SynthModeLUT SynthMode = "lut"
	// SynthModeLerp interpolates the same table in floating point.
	SynthModeLerp SynthMode = "lerp"
	// SynthModeExact evaluates math.Sin.
	SynthModeExact SynthMode = "exact"
)

// ParseSynthMode accepts the names used on the command line and in config.
func ParseSynthMode(name string) (SynthMode, error) {
	switch m := SynthMode(name); m {
	case SynthModeLUT, SynthModeLerp, SynthModeExact:
		return m, nil
	case "":
		return SynthModeLUT, nil
	}
	return "", fmt.Errorf("invalid synth mode %q (expected lut|lerp|exact)", name)
}

// Inputs are the five binary lines sampled by the host.
type Inputs struct {
	B1, B2, B3, B4 bool
	Reset          bool
}

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventFrequencyChanged
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state"
	case EventFrequencyChanged:
		return "frequency"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered to observers after the change it describes.
type Event struct {
	Kind      EventKind
	Time      uint16
	State     State
	Amplitude uint16
	Frequency uint16
}

type Option func(*config)

type config struct {
	table        intsine.Table
	envelope     intenv.Params
	initialPhase uint16
	mode         SynthMode
	holdReset    bool
	doubleTick   bool
	observer     func(Event)
}

func defaultConfig() config {
	return config{
		table:        intsine.DefaultTable,
		envelope:     intenv.DefaultParams(),
		initialPhase: intphase.Initial,
		mode:         SynthModeLUT,
	}
}

// WithTable replaces the quarter-wave lookup table.
func WithTable(t intsine.Table) Option {
	return func(cfg *config) {
		cfg.table = t
	}
}

// WithEnvelope sets the ramp duration and maximum amplitude.
func WithEnvelope(p intenv.Params) Option {
	return func(cfg *config) {
		cfg.envelope = p
	}
}

func WithInitialPhase(p uint16) Option {
	return func(cfg *config) {
		cfg.initialPhase = p
	}
}

func WithSynthMode(mode SynthMode) Option {
	return func(cfg *config) {
		cfg.mode = mode
	}
}

// WithResetAsserted makes Init hold the reset line asserted, so the generator
// stays idle until InputChange releases it. By default Init releases reset and
// the ramp-up starts straight away.
func WithResetAsserted() Option {
	return func(cfg *config) {
		cfg.holdReset = true
	}
}

// WithLegacyDoubleTick makes InputChange advance the envelope as well as
// Output. A host that calls both once per period then ramps twice as fast;
// this exists to reproduce output streams recorded that way.
func WithLegacyDoubleTick() Option {
	return func(cfg *config) {
		cfg.doubleTick = true
	}
}

// WithObserver installs a callback for state and frequency changes. It runs
// synchronously on the caller's goroutine; keep it short.
func WithObserver(fn func(Event)) Option {
	return func(cfg *config) {
		cfg.observer = fn
	}
}

// Generator synthesizes one amplitude-enveloped sine sample per period.
// Use New; the zero value is not usable.
//
// The envelope advances exactly once per Output (or Tick) call. A Generator
// is not safe for concurrent use.
type Generator struct {
	synth        *intsine.Synth
	table        intsine.Table
	env          *intenv.Envelope
	mode         SynthMode
	initialPhase uint16
	doubleTick   bool
	holdReset    bool
	observer     func(Event)

	frequency uint16
	inputs    Inputs
	time      uint16
}

var ErrUnknownSynthMode = errors.New("unknown synth mode")

// New validates the configuration and returns an initialised Generator, as
// if Init(0) had been called.
func New(opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.mode {
	case SynthModeLUT, SynthModeLerp, SynthModeExact:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSynthMode, cfg.mode)
	}
	synth, err := intsine.New(cfg.table)
	if err != nil {
		return nil, fmt.Errorf("lookup table: %w", err)
	}
	env, err := intenv.New(cfg.envelope)
	if err != nil {
		return nil, err
	}
	if int(cfg.envelope.MaxAmplitude)*int(cfg.table[intsine.Size-1]) > math.MaxInt16 {
		return nil, fmt.Errorf("%w: max amplitude %d with table peak %d overflows a 16-bit sample",
			intenv.ErrInvalidParams, cfg.envelope.MaxAmplitude, cfg.table[intsine.Size-1])
	}
	g := &Generator{
		synth:        synth,
		table:        cfg.table,
		env:          env,
		mode:         cfg.mode,
		initialPhase: cfg.initialPhase,
		doubleTick:   cfg.doubleTick,
		holdReset:    cfg.holdReset,
		observer:     cfg.observer,
	}
	g.Init(0)
	return g, nil
}

// Init returns the generator to idle: the ramp timer is loaded with time, the
// frequency is recomputed from all-low inputs and the envelope ticks once.
func (g *Generator) Init(time uint16) {
	g.start(time, g.holdReset)
}

// start is Init with an explicit initial reset level.
func (g *Generator) start(time uint16, reset bool) {
	g.time = time
	g.inputs = Inputs{Reset: reset}
	g.env.Start(uint32(time), reset)
	g.setFrequency(intphase.SelectFrequency(false, false, false, false))
	g.tick()
}

// InputChange latches new input lines. The reset line takes effect on the
// next tick; the frequency changes immediately.
func (g *Generator) InputChange(time uint16, b1, b2, b3, b4, reset bool) {
	g.Apply(time, Inputs{B1: b1, B2: b2, B3: b3, B4: b4, Reset: reset})
}

// Apply is InputChange taking an Inputs value.
func (g *Generator) Apply(time uint16, in Inputs) {
	g.time = time
	g.inputs = in
	g.env.SetReset(in.Reset)
	if g.doubleTick {
		g.tick()
	}
	g.setFrequency(intphase.SelectFrequency(in.B1, in.B2, in.B3, in.B4))
}

// Output ticks the envelope once and returns the sample for time.
func (g *Generator) Output(time uint16) int16 {
	g.time = time
	g.tick()
	return g.Sample(time)
}

// Tick advances the envelope by one sample period without producing output.
func (g *Generator) Tick() { g.tick() }

// Sample returns the sample for time at the current amplitude and frequency.
// It does not advance the envelope.
func (g *Generator) Sample(time uint16) int16 {
	p := intphase.Phase(time, g.frequency, g.initialPhase)
	return g.sine(p) * int16(g.env.Amplitude())
}

func (g *Generator) sine(p uint16) int16 {
	switch g.mode {
	case SynthModeLerp:
		return intsine.Round(intsine.Lerp[float64](&g.table, p))
	case SynthModeExact:
		return intsine.Round(intsine.Exact[float64](p))
	default:
		return g.synth.Value(p)
	}
}

func (g *Generator) tick() {
	if g.env.Tick() {
		g.notify(EventStateChanged)
	}
}

func (g *Generator) setFrequency(f uint16) {
	if f == g.frequency {
		return
	}
	g.frequency = f
	g.notify(EventFrequencyChanged)
}

func (g *Generator) notify(kind EventKind) {
	if g.observer == nil {
		return
	}
	g.observer(Event{
		Kind:      kind,
		Time:      g.time,
		State:     g.env.State(),
		Amplitude: g.env.Amplitude(),
		Frequency: g.frequency,
	})
}

func (g *Generator) Amplitude() uint16 { return g.env.Amplitude() }
func (g *Generator) Frequency() uint16 { return g.frequency }
func (g *Generator) State() State      { return g.env.State() }
func (g *Generator) RampTimer() uint32 { return g.env.Timer() }
func (g *Generator) Inputs() Inputs    { return g.inputs }
func (g *Generator) Mode() SynthMode   { return g.mode }
