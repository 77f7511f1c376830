// This file contains the small fixed enumerations used by bunch and
// channel handling. ChannelName follows the teacher's "unknown falls
// back to a named zero value" idiom (repcore.Enum / UnknownEnum); unlike
// repcore's open-ended unknown-id enums, CloseReason is bounded and a
// wire value outside its accepted set is a protocol violation, not a
// shrug (spec.md §7, uetypes.rs's ChannelCloseReason::parse), so
// CloseReasonByID returns an error instead of a fallback.

package netstream

// ChannelName identifies the kind of a UChannel. Unrecognized wire
// strings resolve to ChannelNone rather than failing the parse — the
// original keeps a default variant for this reason (uetypes.rs).
type ChannelName int

const (
	ChannelNone ChannelName = iota
	ChannelControl
	ChannelVoice
	ChannelActor
)

func (n ChannelName) String() string {
	switch n {
	case ChannelControl:
		return "Control"
	case ChannelVoice:
		return "Voice"
	case ChannelActor:
		return "Actor"
	default:
		return "None"
	}
}

// ChannelNameByWireString maps the fname read off a bunch header to a
// ChannelName. An unrecognized name is not a parse error.
func ChannelNameByWireString(s string) ChannelName {
	switch s {
	case "Control":
		return ChannelControl
	case "Voice":
		return ChannelVoice
	case "Actor":
		return ChannelActor
	default:
		return ChannelNone
	}
}

// CloseReason is why a channel closed, sent as a ranged int with
// max=CloseReasonMax (exclusive) on the wire (spec.md §4.4).
type CloseReason uint32

const (
	CloseDestroyed CloseReason = iota
	CloseDormancy
	CloseLevelUnloaded
	CloseRelevancy
	CloseTearOff
	// CloseReasonMax is the exclusive upper bound read by ReadSerializedInt
	// when decoding a CloseReason off the wire; ReadSerializedInt(16)
	// yields the same [0,15] range as the original's inclusive
	// read_serialized_int(15).
	CloseReasonMax CloseReason = 16
	// CloseMAX is the enum's own MAX sentinel, pinned to 15 in the
	// original so it falls at the top of the wire range rather than
	// colliding with a future named reason.
	CloseMAX CloseReason = 15
)

func (r CloseReason) String() string {
	switch r {
	case CloseDestroyed:
		return "Destroyed"
	case CloseDormancy:
		return "Dormancy"
	case CloseLevelUnloaded:
		return "LevelUnloaded"
	case CloseRelevancy:
		return "Relevancy"
	case CloseTearOff:
		return "TearOff"
	case CloseMAX:
		return "MAX"
	default:
		return "Error"
	}
}

// CloseReasonByID validates a wire value against the reasons the
// original's ChannelCloseReason::parse accepts: the five named reasons
// plus the MAX sentinel at 15. Every other value in the wire-legal
// [0,CloseReasonMax) range — 5 through 14 — has no defined meaning and
// parse() rejects it, so this does too.
func CloseReasonByID(id uint32) (CloseReason, error) {
	switch CloseReason(id) {
	case CloseDestroyed, CloseDormancy, CloseLevelUnloaded, CloseRelevancy, CloseTearOff, CloseMAX:
		return CloseReason(id), nil
	default:
		return 0, parseErrorf("close reason %d is not a recognized value", id)
	}
}
