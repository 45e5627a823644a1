package lpc

import (
	"errors"
	"fmt"

	"lpcdec/common"
)

// LAD[3:0] values with a defined meaning during the START condition.
const (
	startTargetCycle = 0x0
	startAbort       = 0xf
)

// Cycle type field of the classification nibble, bits [3:2].
const (
	cycTypeIO   = 0x0
	cycTypeMem  = 0x1
	cycTypeDMA  = 0x2
	cycTypeRsvd = 0x3
)

// maxPhases bounds the phase history. The longest legal cycle is a memory
// read/write: wait, START, ADDR, DATA, TAR, SYNC, DATA, TAR - the initial
// wait state plus eight transitions.
const maxPhases = 9

// Decoder defects. These indicate a bug in the decoder rather than a bus
// condition and are fatal to the instance.
var (
	// ErrUnknownPhase is returned when the dispatcher sees a phase value
	// outside the defined set.
	ErrUnknownPhase = errors.New("lpc: dispatch on unknown phase")
	// ErrPhaseHistoryFull is returned when a cycle tries to traverse more
	// phases than any legal LPC cycle has.
	ErrPhaseHistoryFull = errors.New("lpc: phase history capacity exceeded")
)

// Decoder reconstructs LPC bus cycles from raw signal samples. It is owned
// by a single processing loop and must not be shared between goroutines.
type Decoder struct {
	pins        PinMap
	log         common.Logger
	keepHistory bool

	// phases holds the states traversed since the last reset; the last
	// entry is the current phase.
	phases []Phase

	cycleSeq  uint64 // sequence number at which the cycle's START was seen
	lastClk   bool   // previous clock level, for edge detection
	lastStart uint8  // LAD[3:0] sampled while LFRAME# was asserted

	cycleType CycleType
	dir       Direction

	addr        uint32 // address accumulator, most significant nibble first
	addrNibbles uint8  // address nibbles still to consume

	data       uint8 // data accumulator, least significant nibble first
	dataIdx    uint8 // data nibbles consumed so far
	dataCount  uint8 // data nibbles per data phase
	tarNibbles uint8 // turnaround clocks still to consume
}

// DecoderOption configures a Decoder at construction.
type DecoderOption func(*Decoder)

// WithLogger installs a logger for unsupported-cycle and defect reporting.
func WithLogger(log common.Logger) DecoderOption {
	return func(d *Decoder) { d.log = log }
}

// WithHistory makes the decoder attach the traversed phase chain to every
// emitted cycle record.
func WithHistory() DecoderOption {
	return func(d *Decoder) { d.keepHistory = true }
}

// NewDecoder creates a decoder for the given signal wiring. The pin map is
// validated once here; an invalid map is a configuration error.
func NewDecoder(pins PinMap, opts ...DecoderOption) (*Decoder, error) {
	if err := pins.Validate(); err != nil {
		return nil, err
	}

	d := &Decoder{
		pins:   pins,
		log:    common.NewNoOpLogger(),
		phases: make([]Phase, 0, maxPhases),
	}
	for _, opt := range opts {
		opt(d)
	}

	// The capture starts with a low clock.
	d.lastClk = false
	d.reset()
	return d, nil
}

// Phase returns the decoder's current phase.
func (d *Decoder) Phase() Phase {
	return d.phases[len(d.phases)-1]
}

// reset returns the state machine to idle and clears the accumulators.
// The clock edge tracker survives; cycles share one continuous clock.
func (d *Decoder) reset() {
	d.phases = d.phases[:0]
	d.phases = append(d.phases, PhaseWaitFrame)
	d.addr = 0
	d.data = 0
	d.dataIdx = 0
}

// push appends a new phase, refusing to grow past the longest legal cycle.
func (d *Decoder) push(p Phase) error {
	if len(d.phases) >= maxPhases {
		return fmt.Errorf("%w: at %s pushing %s", ErrPhaseHistoryFull, d.Phase(), p)
	}
	d.phases = append(d.phases, p)
	return nil
}

// ProcessSample feeds one capture sample to the decoder. All decoding
// happens on falling clock edges; rising edges and unchanged levels only
// refresh the edge tracker. At most one cycle record is produced per
// sample: a completed cycle, an aborted one, or - together with a non-nil
// error - a protocol-error snapshot of the in-flight state. A non-nil
// error is an internal-consistency defect and the instance must not be
// used further.
func (d *Decoder) ProcessSample(seq uint64, sample byte) (*DecodedCycle, error) {
	clk, frame, lad := d.pins.Extract(sample)
	if clk == d.lastClk {
		return nil, nil
	}
	d.lastClk = clk
	if clk {
		// Rising edge.
		return nil, nil
	}

	if !frame {
		// LFRAME# asserted: start of a new cycle, or an abort of the one
		// in flight.
		var aborted *DecodedCycle
		if cur := d.Phase(); cur != PhaseWaitFrame && cur != PhaseStart {
			aborted = d.emit(CompletionAborted)
		}
		d.lastStart = lad
		d.cycleSeq = seq
		d.reset()
		if err := d.push(PhaseStart); err != nil {
			return d.defect(err)
		}
		return aborted, nil
	}

	switch d.Phase() {
	case PhaseWaitFrame:
		// Idle, no cycle in progress.
		return nil, nil
	case PhaseStart:
		return d.decodeStart(lad)
	case PhaseAddress:
		return d.decodeAddr(lad)
	case PhaseData:
		return d.decodeData(lad)
	case PhaseTurnAround:
		return d.decodeTar()
	case PhaseSync:
		return d.decodeSync(lad)
	default:
		return d.defect(fmt.Errorf("%w: %d", ErrUnknownPhase, d.Phase()))
	}
}

// decodeStart interprets the START nibble recorded at LFRAME# assertion
// together with the classification nibble now on LAD[3:0].
func (d *Decoder) decodeStart(lad uint8) (*DecodedCycle, error) {
	switch d.lastStart {
	case startTargetCycle:
		// Bits [3:2] carry the type, bit 1 the direction (0 = read).
		typ := lad >> 2 & 0x3
		d.dir = DirectionRead
		if lad&0x2 != 0 {
			d.dir = DirectionWrite
		}
		d.addr = 0
		if err := d.push(PhaseAddress); err != nil {
			return d.defect(err)
		}
		switch typ {
		case cycTypeIO:
			d.cycleType = CycleTypeIO
			d.addrNibbles = 4
		case cycTypeMem:
			d.cycleType = CycleTypeMemory
			d.addrNibbles = 8
		case cycTypeDMA, cycTypeRsvd:
			cyc := CycleTypeDMA
			if typ == cycTypeRsvd {
				cyc = CycleTypeReserved
			}
			d.log.Logf(common.SeverityWarning,
				"unsupported cycle type %s at seq %d", cyc, d.cycleSeq)
			d.reset()
		}
	case startAbort:
		// Abort signalled while no cycle had begun; nothing to report.
		d.reset()
	default:
		// Reserved or busmaster-grant nibble; grant cycles are not
		// modelled, so hold in START.
	}
	return nil, nil
}

// decodeAddr consumes one address nibble. Nibbles arrive most significant
// first, so each lands at the position its remaining count dictates.
func (d *Decoder) decodeAddr(lad uint8) (*DecodedCycle, error) {
	d.addrNibbles--
	d.addr |= uint32(lad) << (uint32(d.addrNibbles) * 4)
	if d.addrNibbles == 0 {
		return d.advance()
	}
	return nil, nil
}

// decodeData consumes one data nibble, least significant first.
func (d *Decoder) decodeData(lad uint8) (*DecodedCycle, error) {
	d.data |= lad << (d.dataIdx * 4)
	d.dataIdx++
	if d.dataIdx == d.dataCount {
		return d.advance()
	}
	return nil, nil
}

// decodeTar counts down a turnaround phase; the sampled value is ignored.
func (d *Decoder) decodeTar() (*DecodedCycle, error) {
	d.tarNibbles--
	if d.tarNibbles == 0 {
		return d.advance()
	}
	return nil, nil
}

// decodeSync waits for the target's ready indication. Any nonzero nibble
// is a wait state and holds the phase.
func (d *Decoder) decodeSync(lad uint8) (*DecodedCycle, error) {
	if lad == 0 {
		return d.advance()
	}
	return nil, nil
}

// advance moves the state machine past a phase whose nibble count has run
// out. Writes place data before the host-to-peripheral turnaround; reads
// place a turnaround before the target supplies data. Whether a turnaround
// is the cycle-closing one is decided structurally, from the phase that
// preceded it in the history.
func (d *Decoder) advance() (*DecodedCycle, error) {
	switch d.Phase() {
	case PhaseWaitFrame:
		// Not in a target cycle.
		return nil, nil
	case PhaseAddress:
		if d.dir == DirectionWrite {
			if err := d.push(PhaseData); err != nil {
				return d.defect(err)
			}
			d.dataCount = 2
		} else {
			if err := d.push(PhaseTurnAround); err != nil {
				return d.defect(err)
			}
			d.tarNibbles = 2
		}
		return nil, nil
	case PhaseData:
		if err := d.push(PhaseTurnAround); err != nil {
			return d.defect(err)
		}
		d.tarNibbles = 2
		return nil, nil
	case PhaseTurnAround:
		prev := d.phases[len(d.phases)-2]
		if d.dir == DirectionWrite {
			if prev == PhaseData {
				if err := d.push(PhaseSync); err != nil {
					return d.defect(err)
				}
				return nil, nil
			}
		} else {
			if prev == PhaseAddress {
				if err := d.push(PhaseSync); err != nil {
					return d.defect(err)
				}
				return nil, nil
			}
		}
		// Second turnaround of the cycle; bus control is back with the
		// host and the cycle is complete.
		cyc := d.emit(CompletionCompleted)
		d.reset()
		return cyc, nil
	case PhaseSync:
		if d.dir == DirectionWrite {
			if err := d.push(PhaseTurnAround); err != nil {
				return d.defect(err)
			}
			d.tarNibbles = 2
		} else {
			if err := d.push(PhaseData); err != nil {
				return d.defect(err)
			}
			d.dataCount = 2
		}
		return nil, nil
	default:
		return d.defect(fmt.Errorf("%w: %d", ErrUnknownPhase, d.Phase()))
	}
}

// emit snapshots the current cycle state into an immutable record.
func (d *Decoder) emit(completion Completion) *DecodedCycle {
	cyc := &DecodedCycle{
		Seq:        d.cycleSeq,
		Type:       d.cycleType,
		Dir:        d.dir,
		Addr:       d.addr,
		Data:       d.data,
		Completion: completion,
	}
	if d.keepHistory {
		cyc.Phases = append([]Phase(nil), d.phases...)
	}
	return cyc
}

// defect reports an internal-consistency failure. The in-flight state is
// surfaced as a protocol-error record so the caller can see how far the
// cycle got before the decoder gave up.
func (d *Decoder) defect(err error) (*DecodedCycle, error) {
	d.log.Error(err)
	return d.emit(CompletionProtocolError), err
}
