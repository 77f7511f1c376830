// This file contains data-chunk decompression. The wire format prefixes
// the compressed payload with its decompressed and compressed sizes
// (original_source/src/data/mod.rs's DataChunk::parse), then hands the
// compressed bytes to the game's chosen codec. Two codecs are wired for
// real — zlib, via klauspost/compress the same way the rest of this
// module prefers a maintained third-party codec over stdlib's
// compress/zlib — and identity, for already-uncompressed payloads
// (replays recorded with `-deterministic` sometimes skip compression
// entirely). Oodle is the codec production Fortnite replays actually
// use; the original only reaches it through a Windows DLL loaded via
// FFI (src/data/decompress.rs), and no open or portable implementation
// exists anywhere in this module's dependency pool, so it stays a named,
// pluggable interface rather than a fabricated reimplementation.
package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/harrowgate/fnrep/netstream"
)

// Decompressor expands a compressed data-chunk payload to its known
// decompressed size.
type Decompressor interface {
	Decompress(compressed []byte, decompressedSize int) ([]byte, error)
}

// ZlibDecompressor decompresses zlib-framed payloads.
type ZlibDecompressor struct{}

func (ZlibDecompressor) Decompress(compressed []byte, decompressedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("container: zlib header: %w", err)
	}
	defer zr.Close()
	out := make([]byte, decompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("container: zlib decompress: %w", err)
	}
	return out, nil
}

// IdentityDecompressor passes already-uncompressed payloads through
// unchanged, validating the declared size.
type IdentityDecompressor struct{}

func (IdentityDecompressor) Decompress(compressed []byte, decompressedSize int) ([]byte, error) {
	if len(compressed) != decompressedSize {
		return nil, fmt.Errorf("container: identity payload size %d != declared %d", len(compressed), decompressedSize)
	}
	return compressed, nil
}

// ErrOodleUnavailable is returned by OodleDecompressor: Oodle is a
// licensed, closed-source codec with no portable Go (or C) binding
// available in this module's ecosystem. Callers that need to read
// Oodle-compressed replays must supply their own Decompressor backed by
// a proprietary Oodle binding; this type exists to give that seam a
// name and a clear failure message rather than silently miscompressing.
var ErrOodleUnavailable = fmt.Errorf("container: oodle decompression requires an external codec binding, none is wired in")

// OodleDecompressor is an unimplemented placeholder satisfying
// Decompressor so callers can wire a real binding behind the same
// interface without changing call sites.
type OodleDecompressor struct{}

func (OodleDecompressor) Decompress([]byte, int) ([]byte, error) {
	return nil, ErrOodleUnavailable
}

// DecompressDataChunk reads a data chunk's {decompressedSize,
// compressedSize} prefix and decompresses the remainder with codec.
func DecompressDataChunk(plaintext []byte, codec Decompressor) ([]byte, error) {
	r := netstream.NewByteReader(plaintext)
	decompressedSize, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	compressedSize, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if decompressedSize < 0 || compressedSize < 0 {
		return nil, fmt.Errorf("container: negative size in data chunk prefix")
	}
	compressed, err := r.ReadBytes(int(compressedSize))
	if err != nil {
		return nil, err
	}
	return codec.Decompress(compressed, int(decompressedSize))
}
