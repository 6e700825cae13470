package fgen

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/fgen-go/internal/audio"
)

// PlayerOption configures a Player.
type PlayerOption func(*playerConfig)

type playerConfig struct {
	genOpts   []Option
	scenario  *Scenario
	sampleTap func([]int16)
}

// WithGeneratorOptions passes options through to the Player's Generator.
// WithObserver is ignored; use Watch instead.
func WithGeneratorOptions(opts ...Option) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.genOpts = append(cfg.genOpts, opts...)
	}
}

// WithScenario plays sc once and then ends playback. Without a scenario the
// player runs free and inputs are changed with SetInputs.
func WithScenario(sc *Scenario) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.scenario = sc
	}
}

// WithSampleTap installs a callback invoked with each generated buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]int16)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// Player auditions a Generator through the default audio device. Every audio
// frame is one generator tick, so time runs sampleRate/1000 times faster than
// on a 1 ms host clock and an f Hz selection is heard at roughly
// f*sampleRate/1000 Hz.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	gen        *Generator
	src        *genSource
	audio      *intaudio.Player
	done       chan struct{}
	eventCh    chan Event
	eventChMu  sync.Mutex
}

// genSource drives the generator from the audio thread. All generator access
// goes through Player.mu.
type genSource struct {
	p         *Player
	scenario  *Scenario
	step      int
	remaining int
	t         uint16
	finished  atomic.Bool
	sampleTap func([]int16)
}

func (s *genSource) Process(dst []int16) {
	s.p.mu.Lock()
	for i := range dst {
		if s.scenario != nil && !s.advance() {
			clear(dst[i:])
			break
		}
		dst[i] = s.p.gen.Output(s.t)
		s.t++
		s.remaining--
	}
	s.p.mu.Unlock()
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
	if s.finished.Load() {
		s.p.signalDone()
	}
}

// advance moves to the next scenario step when the current one is used up.
// It reports false once the scenario is over.
func (s *genSource) advance() bool {
	for s.remaining <= 0 {
		if s.step >= len(s.scenario.Steps) {
			s.finished.Store(true)
			return false
		}
		st := s.scenario.Steps[s.step]
		s.step++
		if in := st.Inputs; in != nil {
			s.p.gen.InputChange(st.Start, in.B1, in.B2, in.B3, in.B4, in.Reset)
		}
		s.t = st.Start
		s.remaining = st.Samples
	}
	return true
}

func (s *genSource) Finished() bool { return s.finished.Load() }

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	var cfg playerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Player{sampleRate: sampleRate}
	genOpts := append([]Option{}, cfg.genOpts...)
	if cfg.scenario != nil {
		if err := cfg.scenario.Validate(); err != nil {
			return nil, err
		}
	}
	genOpts = append(genOpts, WithObserver(p.sendEvent))
	g, err := New(genOpts...)
	if err != nil {
		return nil, err
	}
	if sc := cfg.scenario; sc != nil {
		g.start(sc.InitTime, sc.HoldReset || g.holdReset)
	}
	p.gen = g
	p.src = &genSource{p: p, scenario: cfg.scenario, sampleTap: cfg.sampleTap}
	return p, nil
}

// Play starts audio output. It is an error to call Play twice without Stop.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		return errors.New("player already started")
	}
	backend, err := intaudio.NewPlayer(p.sampleRate, p.src)
	if err != nil {
		return err
	}
	p.done = make(chan struct{})
	p.audio = backend
	p.audio.Play()
	return nil
}

// SetInputs changes the generator's input lines at the current time.
func (p *Player) SetInputs(in Inputs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen.Apply(p.src.t, in)
}

// Snapshot returns the generator's state, amplitude and frequency.
func (p *Player) Snapshot() (State, uint16, uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen.State(), p.gen.Amplitude(), p.gen.Frequency()
}

func (p *Player) sendEvent(ev Event) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

func (p *Player) signalDone() {
	p.mu.Lock()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

// Playing reports whether the audio device is currently pulling samples.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Position is how much audio the listener has heard since Play.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return 0
	}
	return p.audio.Position()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until a scenario finishes or Stop is called. Without a
// scenario it blocks until Stop. It returns immediately if not playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives generator events. The channel is
// buffered (cap 16); events are dropped while it is full. Only the most
// recent Watch channel receives events.
func (p *Player) Watch() <-chan Event {
	ch := make(chan Event, 16)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}
