// Package events decodes the event-chunk payloads that carry match
// telemetry: eliminations and aggregate match/team stats. These ride in
// container.Event chunks tagged by group/metadata rather than inside
// the bit-packed replication stream, so they get their own small
// byte-oriented decoders instead of going through netstream. Grounded
// on original_source/src/fnchunk.rs's Elimination, MatchStats,
// TeamStats and FNSkim::skim's group/metadata dispatch.
package events

import (
	"encoding/hex"
	"fmt"

	"github.com/harrowgate/fnrep/container"
	"github.com/harrowgate/fnrep/netstream"
)

// GroupPlayerElim is the event group name carrying Elimination payloads.
const GroupPlayerElim = "playerElim"

// Metadata tag values selecting which bincode struct a non-elimination
// event's payload decodes to.
const (
	MetadataMatchStats = "AthenaMatchStats"
	MetadataTeamStats  = "AthenaTeamMatchStats"
)

// Elimination is one knock or kill recorded during the match.
type Elimination struct {
	VictimID string
	KillerID string
	GunType  uint8
	Knocked  bool
}

// eliminationPrefixSkip is the byte count of a fixed, unparsed prefix
// preceding the two player references in an elimination payload.
const eliminationPrefixSkip = 85

// parsePlayerRef decodes one player reference: a tag byte selects
// between the literal string "Bot", a bincode-framed display name, or a
// length-prefixed account GUID rendered as hex.
func parsePlayerRef(r *netstream.ByteReader) (string, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	switch tag {
	case 0x03:
		return "Bot", nil
	case 0x10:
		n, err := r.ReadUint64()
		if err != nil {
			return "", err
		}
		if n > 1<<20 {
			return "", fmt.Errorf("events: implausible player name length %d", n)
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		size, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		guid, err := r.ReadBytes(int(size))
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(guid), nil
	}
}

// ParseElimination decodes an elimination event. e.Group must be
// GroupPlayerElim.
func ParseElimination(e container.Event) (Elimination, error) {
	if e.Group != GroupPlayerElim {
		return Elimination{}, fmt.Errorf("events: group %q is not %q", e.Group, GroupPlayerElim)
	}
	r := netstream.NewByteReader(e.Data)
	if err := r.Skip(eliminationPrefixSkip); err != nil {
		return Elimination{}, err
	}

	var elim Elimination
	var err error
	if elim.VictimID, err = parsePlayerRef(r); err != nil {
		return elim, err
	}
	if elim.KillerID, err = parsePlayerRef(r); err != nil {
		return elim, err
	}
	if elim.GunType, err = r.ReadByte(); err != nil {
		return elim, err
	}
	knocked, err := r.ReadUint32()
	if err != nil {
		return elim, err
	}
	elim.Knocked = knocked != 0
	return elim, nil
}

// MatchStats is the per-player aggregate stat line published once a
// match ends.
type MatchStats struct {
	Unknown             uint32
	Accuracy             float32
	Assists              uint32
	Eliminations         uint32
	WeaponDamage         uint32
	OtherDamage          uint32
	Revives              uint32
	DamageTaken          uint32
	DamageToStructures   uint32
	MaterialsGathered    uint32
	MaterialsUsed        uint32
	TotalTravelled       uint32
}

// ParseMatchStats decodes an AthenaMatchStats event's bincode-framed
// fixed-width struct.
func ParseMatchStats(e container.Event) (MatchStats, error) {
	r := netstream.NewByteReader(e.Data)
	var s MatchStats
	var err error
	if s.Unknown, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.Accuracy, err = r.ReadFloat32(); err != nil {
		return s, err
	}
	if s.Assists, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.Eliminations, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.WeaponDamage, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.OtherDamage, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.Revives, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.DamageTaken, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.DamageToStructures, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.MaterialsGathered, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.MaterialsUsed, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.TotalTravelled, err = r.ReadUint32(); err != nil {
		return s, err
	}
	return s, nil
}

// TeamStats is a team's aggregate placement line.
type TeamStats struct {
	Unknown      uint32
	Position     uint32
	TotalPlayers uint32
}

// ParseTeamStats decodes an AthenaTeamMatchStats event.
func ParseTeamStats(e container.Event) (TeamStats, error) {
	r := netstream.NewByteReader(e.Data)
	var s TeamStats
	var err error
	if s.Unknown, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.Position, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.TotalPlayers, err = r.ReadUint32(); err != nil {
		return s, err
	}
	return s, nil
}
