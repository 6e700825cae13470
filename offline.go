package fgen

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"

	intscn "github.com/cbegin/fgen-go/internal/scenario"
)

// Scenario is an input schedule for Render.
type Scenario = intscn.Scenario

// RenderScenario runs sc through a fresh Generator built from opts.
func RenderScenario(sc *Scenario, opts ...Option) ([]int16, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	g, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return Render(g, sc), nil
}

// Render initialises g at sc.InitTime and plays sc's steps, one Output per
// sample. Reset starts asserted if sc.HoldReset is set or g was built with
// WithResetAsserted.
func Render(g *Generator, sc *Scenario) []int16 {
	out := make([]int16, 0, sc.TotalSamples())
	g.start(sc.InitTime, sc.HoldReset || g.holdReset)
	for _, st := range sc.Steps {
		if in := st.Inputs; in != nil {
			g.InputChange(st.Start, in.B1, in.B2, in.B3, in.B4, in.Reset)
		}
		t := st.Start
		for i := 0; i < st.Samples; i++ {
			out = append(out, g.Output(t))
			t++
		}
	}
	return out
}

// WriteText writes one decimal sample per line.
func WriteText(w io.Writer, samples []int16) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, s := range samples {
		buf = strconv.AppendInt(buf[:0], int64(s), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeWAVPCM16 encodes mono 16-bit PCM.
func EncodeWAVPCM16(samples []int16, sampleRate int) []byte {
	const channels = 1
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], channels)
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 16)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[44+i*2:], uint16(s))
	}
	return out
}
