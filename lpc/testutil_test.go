package lpc

import "testing"

// Test waveform synthesis. Samples use the default pin map: CLK bit 0,
// LFRAME# bit 1, LAD0..LAD3 bits 5,4,3,2.

// sampleByte encodes one raw sample from signal levels.
func sampleByte(clk, frame bool, lad uint8) byte {
	var b byte
	if clk {
		b |= 1 << 0
	}
	if frame {
		b |= 1 << 1
	}
	b |= (lad & 1) << 5
	b |= (lad >> 1 & 1) << 4
	b |= (lad >> 2 & 1) << 3
	b |= (lad >> 3 & 1) << 2
	return b
}

// waveform builds a sample stream clock edge by clock edge.
type waveform struct {
	samples []byte
}

// edge appends one full clock: a rising sample followed by the falling
// sample on which the decoder latches frame and lad.
func (w *waveform) edge(frameAsserted bool, lad uint8) {
	frame := !frameAsserted // LFRAME# is active low
	w.samples = append(w.samples, sampleByte(true, frame, lad))
	w.samples = append(w.samples, sampleByte(false, frame, lad))
}

// startCycle appends the LFRAME# assertion edge and the classification
// edge that open a target cycle.
func (w *waveform) startCycle(classify uint8) {
	w.edge(true, 0x0) // START nibble: target cycle
	w.edge(false, classify)
}

// feed runs every sample through the decoder, collecting emitted cycles.
// Sequence numbers count up from 0, one per sample.
func feed(t *testing.T, d *Decoder, samples []byte) []*DecodedCycle {
	t.Helper()
	var cycles []*DecodedCycle
	for i, s := range samples {
		cyc, err := d.ProcessSample(uint64(i), s)
		if err != nil {
			t.Fatalf("ProcessSample(%d) error: %v", i, err)
		}
		if cyc != nil {
			cycles = append(cycles, cyc)
		}
	}
	return cycles
}

func newTestDecoder(t *testing.T, opts ...DecoderOption) *Decoder {
	t.Helper()
	d, err := NewDecoder(DefaultPinMap(), opts...)
	if err != nil {
		t.Fatalf("NewDecoder() error: %v", err)
	}
	return d
}

func assertEqual[T comparable](t *testing.T, want, got T, msg string) {
	t.Helper()
	if want != got {
		t.Errorf("%s: want %v, got %v", msg, want, got)
	}
}
