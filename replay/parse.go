// This file contains the top-level replay parser: an outer
// container.Demuxer driving the header/event/data chunk dispatch,
// wrapped in a panic-recovery boundary so a malformed replay file never
// takes the caller's process down with it. Grounded on
// repparser.parseProtected's recover-to-sentinel-error pattern and
// original_source/src/fnchunk.rs's FNSkim::skim chunk dispatch.
package replay

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/harrowgate/fnrep/container"
	"github.com/harrowgate/fnrep/events"
	"github.com/harrowgate/fnrep/netstream"
)

// ErrParsing indicates an unexpected failure while parsing a replay —
// either a corrupt/invalid file, or a decoder implementation bug caught
// by the top-level recover.
var ErrParsing = errors.New("replay: parsing")

// ErrNotReplayFile indicates the input doesn't start with the expected
// file magic.
var ErrNotReplayFile = errors.New("replay: not a replay file")

// Config controls which parts of a replay are decoded.
type Config struct {
	// Events tells whether event chunks (eliminations, match/team stats)
	// are parsed.
	Events bool

	// Frames tells whether data chunks are decompressed and run through
	// netstream to produce decoded demo frames. This is the expensive
	// path; callers that only want header/event metadata should leave it
	// off.
	Frames bool

	// Codec decompresses data chunks when Frames is set. Defaults to
	// container.ZlibDecompressor if nil.
	Codec container.Decompressor

	_ struct{} // prevent unkeyed literals
}

// Parse parses a replay from an in-memory byte slice with header and
// events enabled.
func Parse(data []byte) (*Replay, error) {
	return ParseConfig(data, Config{Events: true})
}

// ParseConfig parses a replay from an in-memory byte slice using cfg.
func ParseConfig(data []byte, cfg Config) (*Replay, error) {
	return parseProtected(data, cfg)
}

// ParseFile parses a replay file from disk with header and events
// enabled.
func ParseFile(name string) (*Replay, error) {
	return ParseFileConfig(name, Config{Events: true})
}

// ParseFileConfig parses a replay file from disk using cfg.
func ParseFileConfig(name string, cfg Config) (*Replay, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("replay: reading %s: %w", name, err)
	}
	return ParseConfig(data, cfg)
}

// parseProtected calls parse but recovers from any panic, logging it
// and returning ErrParsing — input is untrusted data, and this also
// guards against bugs in the decoder itself.
func parseProtected(data []byte, cfg Config) (r *Replay, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("replay: recovered from panic while parsing")
			err = ErrParsing
		}
	}()
	return parse(data, cfg)
}

func parse(data []byte, cfg Config) (*Replay, error) {
	dem, err := container.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReplayFile, err)
	}

	if cfg.Codec == nil {
		cfg.Codec = container.ZlibDecompressor{}
	}

	r := &Replay{
		Meta:     dem.Meta,
		Computed: &Computed{EliminationsByKiller: make(map[string][]events.Elimination)},
	}
	var parser *netstream.PacketParser
	if cfg.Frames {
		parser = netstream.NewPacketParser()
	}

	chunkIndex := 0
	for {
		chunk, err := dem.Next()
		if err != nil {
			return r, fmt.Errorf("chunk %d: %w", chunkIndex, err)
		}
		if chunk == nil {
			break
		}

		switch chunk.Variant {
		case container.ChunkHeader:
			h, err := container.ParseHeader(chunk)
			if err != nil {
				return r, fmt.Errorf("chunk %d (header): %w", chunkIndex, err)
			}
			r.Header = &h

		case container.ChunkEvent:
			if !cfg.Events {
				break
			}
			e, err := container.ParseEvent(chunk, dem.Meta.EncryptionKey)
			if err != nil {
				log.Warn().Err(err).Int("chunk", chunkIndex).Msg("replay: skipping unparseable event chunk")
				break
			}
			if err := applyEvent(r, e); err != nil {
				log.Warn().Err(err).Str("group", e.Group).Msg("replay: skipping event with unrecognized payload")
			}

		case container.ChunkData:
			if !cfg.Frames {
				break
			}
			_, data, err := container.ParseDataChunk(chunk, dem.Meta.EncryptionKey, cfg.Codec)
			if err != nil {
				return r, fmt.Errorf("chunk %d (data): %w", chunkIndex, err)
			}
			frames, err := netstream.ParseDemoChunk(data, parser)
			r.Frames = append(r.Frames, frames...)
			if err != nil {
				log.Warn().Err(err).Int("chunk", chunkIndex).Msg("replay: data chunk frame decode stopped early")
			}
		}

		chunkIndex++
	}

	computeDerived(r)
	return r, nil
}

// applyEvent routes a decrypted event chunk to the matching typed field
// based on its group/metadata tag, mirroring FNSkim::skim's dispatch.
func applyEvent(r *Replay, e container.Event) error {
	if e.Group == events.GroupPlayerElim {
		elim, err := events.ParseElimination(e)
		if err != nil {
			return err
		}
		r.Eliminations = append(r.Eliminations, elim)
		return nil
	}
	switch e.Metadata {
	case events.MetadataMatchStats:
		s, err := events.ParseMatchStats(e)
		if err != nil {
			return err
		}
		r.MatchStats = &s
	case events.MetadataTeamStats:
		s, err := events.ParseTeamStats(e)
		if err != nil {
			return err
		}
		r.TeamStats = &s
	}
	return nil
}

// computeDerived fills in Replay.Computed from the rest of the parsed
// data.
func computeDerived(r *Replay) {
	for _, e := range r.Eliminations {
		r.Computed.EliminationsByKiller[e.KillerID] = append(r.Computed.EliminationsByKiller[e.KillerID], e)
	}
	r.Computed.Won = r.TeamStats != nil && r.TeamStats.Position == 1
}
