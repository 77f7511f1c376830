// Package container implements the outer replay file format: the magic
// and session-meta header, chunk TLV iteration, AES-ECB chunk
// decryption, and data-chunk decompression. These are the I/O and
// framing layers that sit above netstream's bitstream decoder — plain
// glue, no bit-level algorithm (spec.md's "Out of scope" list).
//
// Grounded on original_source/src/fnchunk.rs's chunk-variant dispatch,
// src/uchunk.rs's HeaderChunk/EventChunk and src/data/mod.rs's
// DataChunk, adapted to Go's binary decoding idiom (the original reads
// bincode-framed Rust structs; this package reads the equivalent fields
// with netstream's ByteReader instead of pulling in a bincode port).
package container

import (
	"fmt"

	"github.com/harrowgate/fnrep/netstream"
)

// ChunkVariant identifies which of the three chunk kinds a TLV record
// holds.
type ChunkVariant uint32

const (
	ChunkHeader ChunkVariant = 0
	ChunkData   ChunkVariant = 1
	ChunkEvent  ChunkVariant = 3
)

func (v ChunkVariant) String() string {
	switch v {
	case ChunkHeader:
		return "header"
	case ChunkData:
		return "data"
	case ChunkEvent:
		return "event"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(v))
	}
}

// Chunk is one TLV record from the chunk stream, still in its raw
// (possibly encrypted, possibly compressed) form.
type Chunk struct {
	Variant ChunkVariant
	Data    []byte
}

// Meta is the session-level header preceding the chunk stream: file
// format version plus the session's AES key, used to decrypt the event
// and data chunks (the header chunk is not encrypted).
type Meta struct {
	FileVersion    uint32
	LengthInMS     uint32
	NetworkVersion uint32
	Changelist     uint32
	FriendlyName   string
	EncryptionKey  []byte
}

// magic is the four-byte file signature every replay starts with.
const magic = 0x1CA2E27F

// Demuxer walks a replay file's magic, meta header, and chunk stream in
// order, yielding one Chunk at a time.
type Demuxer struct {
	r    *netstream.ByteReader
	Meta Meta
}

// Open validates the file magic, reads the meta header, and returns a
// Demuxer positioned at the first chunk.
func Open(data []byte) (*Demuxer, error) {
	r := netstream.NewByteReader(data)

	got, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: reading magic: %w", err)
	}
	if got != magic {
		return nil, fmt.Errorf("container: bad magic %#x", got)
	}

	d := &Demuxer{r: r}
	if d.Meta.FileVersion, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.Meta.LengthInMS, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.Meta.NetworkVersion, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.Meta.Changelist, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.Meta.FriendlyName, err = netstream.ReadFString(r); err != nil {
		return nil, err
	}
	keyLen, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if d.Meta.EncryptionKey, err = r.ReadBytes(int(keyLen)); err != nil {
		return nil, err
	}
	return d, nil
}

// Next returns the next chunk, or (Chunk{}, io.EOF)-equivalent (nil, nil)
// once the stream is exhausted.
func (d *Demuxer) Next() (*Chunk, error) {
	if d.r.AtEnd() {
		return nil, nil
	}
	variant, err := d.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	size, err := d.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	data, err := d.r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	return &Chunk{Variant: ChunkVariant(variant), Data: data}, nil
}
