// This file contains the header chunk: build and engine identification
// plus the level manifest, serialized with bincode's default struct
// encoding — fixed-width little-endian numbers, and a u64 length prefix
// on strings and vectors, which is a different convention from the
// sign-prefixed FString the bitstream core reads (spec.md's fname/fstring
// primitives apply only inside decrypted, decompressed data-chunk
// payloads, not to this chunk). Grounded on
// original_source/src/uchunk.rs's HeaderChunk.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/harrowgate/fnrep/netstream"
)

// LevelEntry is one (name, time) pair from a header's level manifest.
type LevelEntry struct {
	Name string
	Time uint32
}

// Header is the replay's build and session identification chunk.
type Header struct {
	NetworkMagic                uint32
	NetworkVersion               uint32
	NetworkChecksum              uint32
	EngineNetworkVersion         uint32
	GameNetworkProtocolVersion   uint32
	ID                           uuid.UUID
	Major, Minor, Patch          uint16
	Changelist                   uint32
	BranchData                   string
	LevelNamesAndTimes           []LevelEntry
	Flags                        uint32
	GameSpecificData             []string
}

// bincodeReader reads bincode's default struct encoding: fixed-width
// little-endian scalars, u64-length-prefixed strings and sequences.
type bincodeReader struct {
	*netstream.ByteReader
}

func (r bincodeReader) uint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r bincodeReader) string() (string, error) {
	n, err := r.uint64()
	if err != nil {
		return "", err
	}
	if n > maxBlobLen {
		return "", fmt.Errorf("container: implausible bincode string length %d", n)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// maxBlobLen bounds any bincode-declared length so a corrupt chunk fails
// fast rather than allocating unbounded memory.
const maxBlobLen = 64 << 20

// ParseHeader decodes a ChunkHeader's payload.
func ParseHeader(c *Chunk) (Header, error) {
	if c.Variant != ChunkHeader {
		return Header{}, fmt.Errorf("container: chunk variant %s is not a header chunk", c.Variant)
	}
	r := bincodeReader{netstream.NewByteReader(c.Data)}
	var h Header
	var err error

	if h.NetworkMagic, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.NetworkVersion, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.NetworkChecksum, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.EngineNetworkVersion, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.GameNetworkProtocolVersion, err = r.ReadUint32(); err != nil {
		return h, err
	}
	idBytes, err := r.ReadBytes(16)
	if err != nil {
		return h, err
	}
	if h.ID, err = uuid.FromBytes(idBytes); err != nil {
		return h, fmt.Errorf("container: header guid: %w", err)
	}
	if h.Major, err = r.ReadUint16(); err != nil {
		return h, err
	}
	if h.Minor, err = r.ReadUint16(); err != nil {
		return h, err
	}
	if h.Patch, err = r.ReadUint16(); err != nil {
		return h, err
	}
	if h.Changelist, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.BranchData, err = r.string(); err != nil {
		return h, err
	}

	numLevels, err := r.uint64()
	if err != nil {
		return h, err
	}
	if numLevels > maxBlobLen {
		return h, fmt.Errorf("container: implausible level count %d", numLevels)
	}
	h.LevelNamesAndTimes = make([]LevelEntry, 0, numLevels)
	for i := uint64(0); i < numLevels; i++ {
		name, err := r.string()
		if err != nil {
			return h, err
		}
		t, err := r.ReadUint32()
		if err != nil {
			return h, err
		}
		h.LevelNamesAndTimes = append(h.LevelNamesAndTimes, LevelEntry{Name: name, Time: t})
	}

	if h.Flags, err = r.ReadUint32(); err != nil {
		return h, err
	}

	numGameData, err := r.uint64()
	if err != nil {
		return h, err
	}
	if numGameData > maxBlobLen {
		return h, fmt.Errorf("container: implausible game specific data count %d", numGameData)
	}
	h.GameSpecificData = make([]string, 0, numGameData)
	for i := uint64(0); i < numGameData; i++ {
		s, err := r.string()
		if err != nil {
			return h, err
		}
		h.GameSpecificData = append(h.GameSpecificData, s)
	}

	return h, nil
}
