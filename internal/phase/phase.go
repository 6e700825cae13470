// Package phase turns a millisecond time base and a selected frequency into a
// wrapping 16-bit phase.
package phase

const (
	// Scaling converts frequency*time (Hz*ms) into phase units: 65536/1000,
	// truncated.
	Scaling = 66
	// Initial starts the waveform a quarter turn in, at its positive peak.
	Initial uint16 = 16384

	mask = 0xFFFF

	MinFrequency uint16 = 2
	MaxFrequency uint16 = 18
)

// Phase returns frequency*time*Scaling + initial reduced modulo 65536. The
// wraparound is what makes the output periodic in time.
func Phase(time, frequency, initial uint16) uint16 {
	p := uint32(frequency)*uint32(time)*Scaling + uint32(initial)
	return uint16(p & mask)
}

// SelectFrequency maps the four select lines to 2 + b1 + 3*b2 + 5*b3 + 7*b4 Hz.
func SelectFrequency(b1, b2, b3, b4 bool) uint16 {
	return MinFrequency + weight(b1, 1) + weight(b2, 3) + weight(b3, 5) + weight(b4, 7)
}

func weight(b bool, w uint16) uint16 {
	if b {
		return w
	}
	return 0
}
