package fgen

import (
	"testing"

	intscn "github.com/cbegin/fgen-go/internal/scenario"
)

func shortScenario() *Scenario {
	return &Scenario{
		Name:      "short",
		HoldReset: true,
		Steps: []intscn.Step{
			{Samples: 100},
			{Inputs: &intscn.Inputs{B2: true}, Start: 500, Samples: 3000},
			{Inputs: &intscn.Inputs{B2: true, Reset: true}, Samples: 1000},
		},
	}
}

func TestPlayerSourceMatchesRender(t *testing.T) {
	sc := shortScenario()
	want, err := RenderScenario(sc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var tapped int
	pl, err := NewPlayer(48000, WithScenario(sc), WithSampleTap(func(b []int16) { tapped += len(b) }))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	got := make([]int16, 0, len(want)+512)
	buf := make([]int16, 333)
	for !pl.src.Finished() {
		pl.src.Process(buf)
		got = append(got, buf...)
	}
	if len(got) < len(want) {
		t.Fatalf("player produced %d samples, want at least %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
	for i, s := range got[len(want):] {
		if s != 0 {
			t.Fatalf("sample %d after the scenario ended = %d, want 0", len(want)+i, s)
		}
	}
	if tapped != len(got) {
		t.Errorf("sample tap saw %d samples, want %d", tapped, len(got))
	}
	pl.Wait() // not started: returns immediately
}

func TestPlayerSetInputsAndWatch(t *testing.T) {
	pl, err := NewPlayer(48000, WithGeneratorOptions(WithResetAsserted()))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	ch := pl.Watch()
	pl.SetInputs(Inputs{B4: true})

	select {
	case ev := <-ch:
		if ev.Kind != EventFrequencyChanged || ev.Frequency != 9 {
			t.Errorf("event = %+v, want frequency change to 9", ev)
		}
	default:
		t.Fatal("expected a frequency event")
	}

	buf := make([]int16, 64)
	pl.src.Process(buf)
	st, amp, freq := pl.Snapshot()
	if st != StateRampUp || amp != 0 || freq != 9 {
		t.Errorf("snapshot = %v %d %d, want ramp-up 0 9", st, amp, freq)
	}
	select {
	case ev := <-ch:
		if ev.Kind != EventStateChanged || ev.State != StateRampUp {
			t.Errorf("event = %+v, want state change to ramp-up", ev)
		}
	default:
		t.Fatal("expected a state event")
	}
}

func TestNewPlayerValidates(t *testing.T) {
	if _, err := NewPlayer(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := NewPlayer(48000, WithScenario(&Scenario{})); err == nil {
		t.Error("expected error for empty scenario")
	}
	if err := (&Player{}).Stop(); err != nil {
		t.Errorf("Stop on idle player: %v", err)
	}
}

func TestPlayerIdleTransport(t *testing.T) {
	pl, err := NewPlayer(48000, WithScenario(shortScenario()))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	pl.Pause()
	pl.Resume()
	if pl.Playing() {
		t.Error("Playing() = true before Play")
	}
	if pos := pl.Position(); pos != 0 {
		t.Errorf("Position() = %v before Play, want 0", pos)
	}
	if st, _, _ := pl.Snapshot(); st != StateIdle {
		t.Errorf("held scenario: state = %v, want idle", st)
	}
}
