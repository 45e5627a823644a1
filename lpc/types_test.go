package lpc

import "testing"

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseWaitFrame, "WAIT_LFRAME_ASSERTED"},
		{PhaseStart, "START"},
		{PhaseAddress, "ADDR"},
		{PhaseData, "DATA"},
		{PhaseTurnAround, "TAR"},
		{PhaseSync, "SYNC"},
		{Phase(99), "<UNKNOWN>"},
	}
	for _, tc := range tests {
		assertEqual(t, tc.want, tc.phase.String(), "phase name")
	}
}

func TestCycleDescription(t *testing.T) {
	cyc := &DecodedCycle{
		Seq:        12,
		Type:       CycleTypeIO,
		Dir:        DirectionWrite,
		Addr:       0x80,
		Data:       0x42,
		Completion: CompletionCompleted,
	}
	want := "I/O Write cycle; Addr=0x0080; Data=0x42; Completed"
	assertEqual(t, want, cyc.Description(), "cycle description")
}
