// Package sine synthesizes a 16-bit phase into a signed sine value in
// [-Peak, Peak] using quarter-wave symmetry and a 16-point lookup table.
package sine

import (
	"errors"
	"fmt"
)

const (
	// Peak is the synthesizer's full-scale output.
	Peak = 1024

	quarterBits  = 0xC000 // top two bits of a phase
	quarterShift = 14
	phaseBits    = 0x3FFF // phase within a quarter
	addressBits  = 0x3C00 // bits 13..10 select a table segment
	addressShift = 10
	step         = 1024 // phase units between table points
)

// Size is the number of sample points in a Table.
const Size = 16

// Table holds unsigned sine magnitudes for the first quarter. Entry i is the
// value at phase (i+1)*1024; the point at phase 0 is an implicit zero.
type Table [Size]uint16

// DefaultTable approximates Peak*sin((i+1)*pi/32).
var DefaultTable = Table{
	100, 200, 297, 392, 483, 569, 650, 724,
	792, 851, 903, 946, 980, 1004, 1019, 1024,
}

var (
	ErrNotIncreasing = errors.New("sine: table must be strictly increasing")
	ErrStepTooLarge  = errors.New("sine: table step exceeds 1024")
	ErrPeakTooLarge  = errors.New("sine: table peak exceeds 1024")
)

// Validate reports whether t can drive the integer interpolator: every
// segment, starting from the implicit zero, must rise by between 1 and 1024,
// and the last entry must not exceed Peak.
func (t *Table) Validate() error {
	var prev uint16
	for i, y := range t {
		if y <= prev {
			return fmt.Errorf("%w: entry %d (%d) <= %d", ErrNotIncreasing, i, y, prev)
		}
		if y-prev > step {
			return fmt.Errorf("%w: entry %d rises by %d", ErrStepTooLarge, i, y-prev)
		}
		prev = y
	}
	if prev > Peak {
		return fmt.Errorf("%w: %d", ErrPeakTooLarge, prev)
	}
	return nil
}

// Synth is the integer reference synthesizer. Inverse slopes are truncated
// once at construction, so Value never divides by a table difference.
type Synth struct {
	table    Table
	slopeInv [Size]uint32
}

// New validates table and precomputes its inverse slopes.
func New(table Table) (*Synth, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	s := &Synth{table: table}
	var prev uint16
	for i, y := range table {
		s.slopeInv[i] = step / uint32(y-prev)
		prev = y
	}
	return s, nil
}

// Default returns a Synth over DefaultTable.
func Default() *Synth {
	s, err := New(DefaultTable)
	if err != nil {
		panic(err)
	}
	return s
}

// Value maps a full-circle phase to [-Peak, Peak].
func (s *Synth) Value(phase uint16) int16 {
	q, r := Quarter(phase), phase&phaseBits
	switch q {
	case 0:
		return int16(s.firstQuarter(r))
	case 1:
		return int16(s.firstQuarter(phaseBits - r))
	case 2:
		return -int16(s.firstQuarter(r))
	default:
		return -int16(s.firstQuarter(phaseBits - r))
	}
}

// firstQuarter interpolates between the two table points around p using the
// truncated inverse slope:
//
//	y = y_a + (x - x_a) / (1024 / (y_b - y_a))
func (s *Synth) firstQuarter(p uint16) uint16 {
	addr := Address(p)
	var ya uint32
	if addr > 0 {
		ya = uint32(s.table[addr-1])
	}
	x := uint32(p & phaseBits)
	xa := uint32(addr) * step
	return uint16((x-xa)/s.slopeInv[addr] + ya)
}

// Quarter returns the top two bits of phase, 0 through 3.
func Quarter(phase uint16) uint8 {
	return uint8((phase & quarterBits) >> quarterShift)
}

// Address returns the table segment selected by bits 13..10 of phase.
func Address(phase uint16) uint8 {
	return uint8((phase & addressBits) >> addressShift)
}
