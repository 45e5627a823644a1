package lpc

import "fmt"

// PinMap says where each logical LPC signal lives within a sample byte.
// All six bit indices must be distinct and in the range 0-7. A PinMap is
// fixed for the lifetime of a Decoder.
type PinMap struct {
	CLK   uint8 // LCLK bit index
	Frame uint8 // LFRAME# bit index
	LAD0  uint8 // LAD[0] bit index, least significant nibble bit
	LAD1  uint8 // LAD[1] bit index
	LAD2  uint8 // LAD[2] bit index
	LAD3  uint8 // LAD[3] bit index
}

// DefaultPinMap returns the reference capture wiring.
func DefaultPinMap() PinMap {
	return PinMap{CLK: 0, Frame: 1, LAD0: 5, LAD1: 4, LAD2: 3, LAD3: 2}
}

// Validate checks that all bit indices are within the sample byte and
// no two signals share a bit.
func (m PinMap) Validate() error {
	bits := [6]uint8{m.CLK, m.Frame, m.LAD0, m.LAD1, m.LAD2, m.LAD3}
	names := [6]string{"clk", "frame", "lad0", "lad1", "lad2", "lad3"}

	var seen [8]bool
	for i, b := range bits {
		if b > 7 {
			return fmt.Errorf("pin map: %s bit index %d out of range 0-7", names[i], b)
		}
		if seen[b] {
			return fmt.Errorf("pin map: bit index %d assigned twice", b)
		}
		seen[b] = true
	}
	return nil
}

// Extract pulls the clock and frame levels and the LAD[3:0] nibble out of
// one raw sample byte. LAD0 is the least significant bit of the nibble.
func (m PinMap) Extract(sample byte) (clk, frame bool, lad uint8) {
	clk = sample&(1<<m.CLK) != 0
	frame = sample&(1<<m.Frame) != 0
	lad = (sample >> m.LAD0 & 1) |
		(sample>>m.LAD1&1)<<1 |
		(sample>>m.LAD2&1)<<2 |
		(sample>>m.LAD3&1)<<3
	return clk, frame, lad
}
