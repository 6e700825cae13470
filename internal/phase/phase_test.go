package phase

import "testing"

func TestSelectFrequency(t *testing.T) {
	for _, c := range []struct {
		b1, b2, b3, b4 bool
		want           uint16
	}{
		{false, false, false, false, 2},
		{true, false, false, false, 3},
		{false, true, false, false, 5},
		{false, false, true, false, 7},
		{false, false, false, true, 9},
		{true, false, true, false, 8},
		{true, true, true, false, 11},
		{true, true, false, true, 13},
		{true, true, true, true, 18},
	} {
		got := SelectFrequency(c.b1, c.b2, c.b3, c.b4)
		if got != c.want {
			t.Errorf("SelectFrequency(%v, %v, %v, %v) = %d, want %d", c.b1, c.b2, c.b3, c.b4, got, c.want)
		}
	}
}

func TestSelectFrequencyRange(t *testing.T) {
	for i := 0; i < 16; i++ {
		f := SelectFrequency(i&1 != 0, i&2 != 0, i&4 != 0, i&8 != 0)
		if f < MinFrequency || f > MaxFrequency {
			t.Errorf("inputs %04b: frequency %d outside [%d, %d]", i, f, MinFrequency, MaxFrequency)
		}
	}
}

func TestPhase(t *testing.T) {
	for _, c := range []struct {
		time, freq, initial uint16
		want                uint16
	}{
		{0, 2, Initial, 16384},
		{1, 2, Initial, 16384 + 132},
		{1, 18, 0, 1188},
		{1000, 2, 0, 132000 % 65536},
		// 18 * 65535 * 66 + 16384 overflows 16 bits many times over.
		{65535, 18, Initial, uint16((18*65535*66 + 16384) % 65536)},
	} {
		got := Phase(c.time, c.freq, c.initial)
		if got != c.want {
			t.Errorf("Phase(%d, %d, %d) = %d, want %d", c.time, c.freq, c.initial, got, c.want)
		}
	}
}

func TestPhaseWrapsPeriodically(t *testing.T) {
	// 65536 / 66 is not an integer, so check the wrap against direct modular
	// arithmetic instead of a fixed period.
	for f := MinFrequency; f <= MaxFrequency; f++ {
		for tm := 0; tm < 65536; tm += 997 {
			want := uint16((int(f)*tm*Scaling + int(Initial)) % 65536)
			if got := Phase(uint16(tm), f, Initial); got != want {
				t.Fatalf("Phase(%d, %d) = %d, want %d", tm, f, got, want)
			}
		}
	}
}
