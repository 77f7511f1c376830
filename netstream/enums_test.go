package netstream

import "testing"

func TestCloseReasonByIDAcceptsNamedReasonsAndMAX(t *testing.T) {
	for _, want := range []CloseReason{
		CloseDestroyed, CloseDormancy, CloseLevelUnloaded, CloseRelevancy, CloseTearOff, CloseMAX,
	} {
		got, err := CloseReasonByID(uint32(want))
		if err != nil {
			t.Errorf("CloseReasonByID(%d): unexpected error: %v", want, err)
		}
		if got != want {
			t.Errorf("CloseReasonByID(%d) = %d, want %d", want, got, want)
		}
	}
}

func TestCloseReasonByIDRejectsUnnamedValues(t *testing.T) {
	for id := uint32(5); id < uint32(CloseReasonMax); id++ {
		if id == uint32(CloseMAX) {
			continue
		}
		if _, err := CloseReasonByID(id); err == nil {
			t.Errorf("CloseReasonByID(%d) should have been rejected", id)
		}
	}
}

func TestCloseReasonByIDRejectsPastMax(t *testing.T) {
	if _, err := CloseReasonByID(uint32(CloseReasonMax)); err == nil {
		t.Error("CloseReasonByID(CloseReasonMax) should have been rejected")
	}
}

func TestCloseReasonStringMAX(t *testing.T) {
	if got := CloseMAX.String(); got != "MAX" {
		t.Errorf("CloseMAX.String() = %q, want %q", got, "MAX")
	}
}
