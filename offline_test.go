package fgen

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	intscn "github.com/cbegin/fgen-go/internal/scenario"
)

func TestGoldenBenchSnapshot(t *testing.T) {
	cases := []struct {
		name string
		file string
		opts []Option
	}{
		{
			name: "single-tick",
			file: "golden_bench.sha256",
		},
		{
			name: "double-tick",
			file: "golden_bench_double_tick.sha256",
			opts: []Option{WithLegacyDoubleTick()},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples, err := RenderScenario(intscn.Default(), tc.opts...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			wav := EncodeWAVPCM16(samples, 1000)
			sum := sha256.Sum256(wav)
			got := hex.EncodeToString(sum[:])
			raw, err := os.ReadFile(filepath.Join("testdata", tc.file))
			if err != nil {
				t.Fatalf("read golden hash: %v", err)
			}
			want := strings.TrimSpace(string(raw))
			if got != want {
				t.Fatalf("golden mismatch\nwant: %s\ngot:  %s", want, got)
			}
		})
	}
}

func TestRenderBenchSpotSamples(t *testing.T) {
	samples, err := RenderScenario(intscn.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(samples) != 2359152 {
		t.Fatalf("rendered %d samples, want 2359152", len(samples))
	}
	for _, c := range []struct {
		i    int
		want int16
	}{
		{0, 0},
		{1000, 0},
		{140000, 19323},
		{524255, 17784},
		{524256, 19456}, // reset asserted at t=0: still steady, at the peak
		{524257, 19437},
		{600000, 5022},
		{1000000, 19133},
		{2359151, 15523},
	} {
		if samples[c.i] != c.want {
			t.Errorf("sample %d = %d, want %d", c.i, samples[c.i], c.want)
		}
	}
}

func TestRenderRejectsInvalidScenario(t *testing.T) {
	if _, err := RenderScenario(&Scenario{}); err == nil {
		t.Fatal("expected an error for an empty scenario")
	}
}

func TestRenderHoldReset(t *testing.T) {
	held := &Scenario{HoldReset: true, Steps: []intscn.Step{{Samples: 100}}}

	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Render(g, held)
	if g.State() != StateIdle {
		t.Errorf("state after held render = %v, want idle", g.State())
	}

	free := &Scenario{Steps: []intscn.Step{{Samples: 100}}}
	Render(g, free)
	if g.State() != StateRampUp {
		t.Errorf("state after free render = %v, want ramp-up", g.State())
	}

	held.Steps = append(held.Steps, intscn.Step{Inputs: &intscn.Inputs{B1: true}, Samples: 10000})
	g, err = New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := Render(g, held)
	want, err := RenderScenario(held)
	if err != nil {
		t.Fatalf("RenderScenario: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Error("Render and RenderScenario disagree on a held scenario")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, []int16{0, -19456, 19456, 7}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if got, want := buf.String(), "0\n-19456\n19456\n7\n"; got != want {
		t.Errorf("WriteText = %q, want %q", got, want)
	}
}

func TestEncodeWAVPCM16Header(t *testing.T) {
	wav := EncodeWAVPCM16([]int16{1, -1}, 48000)
	if len(wav) != 48 {
		t.Fatalf("len = %d, want 48", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:16]) != "WAVEfmt " || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", wav[:40])
	}
	if got := binary.LittleEndian.Uint32(wav[24:]); got != 48000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(wav[46:])); got != -1 {
		t.Errorf("second sample = %d, want -1", got)
	}
}
