// Package lpc reconstructs Low Pin Count bus cycles from a timestamped
// digital-signal capture. Each input sample carries the logic levels of
// LCLK, LFRAME# and the multiplexed LAD[3:0] lines in one byte; the decoder
// samples them on falling clock edges and walks the LPC phase sequence to
// rebuild complete bus transactions.
package lpc

import "fmt"

// Phase is a state of the LPC cycle state machine.
type Phase int

const (
	// PhaseWaitFrame means no cycle is in progress; waiting for LFRAME#
	// to be asserted.
	PhaseWaitFrame Phase = iota
	// PhaseStart is the START condition following LFRAME# assertion.
	PhaseStart
	// PhaseAddress is the address phase; length depends on the cycle type.
	PhaseAddress
	// PhaseData is the data phase, two nibbles.
	PhaseData
	// PhaseTurnAround is a bus ownership handoff, two clocks.
	PhaseTurnAround
	// PhaseSync is the target wait-state phase; a zero nibble signals ready.
	PhaseSync
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitFrame:
		return "WAIT_LFRAME_ASSERTED"
	case PhaseStart:
		return "START"
	case PhaseAddress:
		return "ADDR"
	case PhaseData:
		return "DATA"
	case PhaseTurnAround:
		return "TAR"
	case PhaseSync:
		return "SYNC"
	default:
		return "<UNKNOWN>"
	}
}

// CycleType is the transfer type encoded in the cycle's classification nibble.
type CycleType int

const (
	CycleTypeIO CycleType = iota
	CycleTypeMemory
	CycleTypeDMA
	CycleTypeReserved
)

func (t CycleType) String() string {
	switch t {
	case CycleTypeIO:
		return "I/O"
	case CycleTypeMemory:
		return "Mem"
	case CycleTypeDMA:
		return "DMA"
	case CycleTypeReserved:
		return "RESERVED"
	default:
		return "<INVALID>"
	}
}

// Direction is the transfer direction of a cycle.
type Direction int

const (
	DirectionRead Direction = iota
	DirectionWrite
)

func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "Read"
	case DirectionWrite:
		return "Write"
	default:
		return "<INVALID>"
	}
}

// Completion says how a cycle ended.
type Completion int

const (
	// CompletionCompleted is a cycle that ran its full phase sequence.
	CompletionCompleted Completion = iota
	// CompletionAborted is a cycle cut short by LFRAME# reassertion.
	CompletionAborted
	// CompletionProtocolError marks the in-flight state captured when the
	// decoder hit an internal-consistency defect.
	CompletionProtocolError
)

func (c Completion) String() string {
	switch c {
	case CompletionCompleted:
		return "Completed"
	case CompletionAborted:
		return "Aborted"
	case CompletionProtocolError:
		return "ProtocolError"
	default:
		return "<INVALID>"
	}
}

// DecodedCycle is the immutable record of one reconstructed bus cycle.
type DecodedCycle struct {
	// Seq is the sample sequence number at which the cycle's START was seen.
	Seq uint64
	// Type is the cycle type from the classification nibble.
	Type CycleType
	// Dir is the transfer direction.
	Dir Direction
	// Addr is the reconstructed address, most significant nibble first.
	Addr uint32
	// Data is the reconstructed data byte, least significant nibble first.
	Data uint8
	// Completion says how the cycle ended.
	Completion Completion
	// Phases is the traversed phase chain, populated only when the decoder
	// was configured to retain history.
	Phases []Phase
}

// Description returns a one-line human-readable summary of the cycle.
func (c *DecodedCycle) Description() string {
	return fmt.Sprintf("%s %s cycle; Addr=0x%04x; Data=0x%02x; %s",
		c.Type, c.Dir, c.Addr, c.Data, c.Completion)
}
