// This file contains the Replay type and its components, which model a
// complete battle-royale replay: build/session header, aggregate match
// telemetry, and the decoded network-replication frames.

package replay

import (
	"github.com/harrowgate/fnrep/container"
	"github.com/harrowgate/fnrep/events"
	"github.com/harrowgate/fnrep/netstream"
)

// Replay models one parsed replay file.
type Replay struct {
	// Meta is the outer file's session metadata: format version, replay
	// length, and the key used to decrypt the event and data chunks.
	Meta container.Meta

	// Header identifies the build and session this replay was recorded
	// with.
	Header *container.Header

	// MatchStats is the local player's aggregate stat line, if the replay
	// carried one.
	MatchStats *events.MatchStats

	// TeamStats is the local player's team placement line, if present.
	TeamStats *events.TeamStats

	// Eliminations is every knock/kill event recorded during the match,
	// in chunk order.
	Eliminations []events.Elimination

	// Frames holds the decoded demo frames when Config.Frames was set.
	// Decoding frames requires a working Decompressor for the replay's
	// codec (spec.md's data-chunk payload is the input to netstream);
	// replays compressed with Oodle cannot be frame-decoded without an
	// externally supplied codec (see container.OodleDecompressor).
	Frames []netstream.DemoFrame

	// Computed contains data derived from the other fields.
	Computed *Computed
}

// Computed contains computed, derived data from other parts of the
// replay.
type Computed struct {
	// Won reports whether the recording player's team finished in first
	// place, per TeamStats.Position; false if TeamStats wasn't present.
	Won bool

	// EliminationsByKiller groups eliminations by the killer's id, for
	// quick leaderboard-style summaries.
	EliminationsByKiller map[string][]events.Elimination
}
