// This file contains data-chunk decoding: the envelope around the
// actual replicated-state bytes netstream consumes. Grounded on
// original_source/src/data/mod.rs's DataChunk::parse.
package container

import (
	"fmt"

	"github.com/harrowgate/fnrep/netstream"
)

// DataChunkEnvelope is a data chunk's bincode-framed header, preceding
// the encrypted+compressed payload.
type DataChunkEnvelope struct {
	Start            uint32
	End              uint32
	Length           uint32
	MemorySizeInBytes uint32
}

// ParseDataChunk decrypts and decompresses a data chunk's payload, using
// codec to expand the compressed bytes once decrypted.
func ParseDataChunk(c *Chunk, key []byte, codec Decompressor) (DataChunkEnvelope, []byte, error) {
	if c.Variant != ChunkData {
		return DataChunkEnvelope{}, nil, fmt.Errorf("container: chunk variant %s is not a data chunk", c.Variant)
	}
	r := bincodeReader{netstream.NewByteReader(c.Data)}
	var env DataChunkEnvelope
	var err error

	if env.Start, err = r.ReadUint32(); err != nil {
		return env, nil, err
	}
	if env.End, err = r.ReadUint32(); err != nil {
		return env, nil, err
	}
	if env.Length, err = r.ReadUint32(); err != nil {
		return env, nil, err
	}
	if env.MemorySizeInBytes, err = r.ReadUint32(); err != nil {
		return env, nil, err
	}

	encrypted, err := r.ReadBytes(int(env.Length))
	if err != nil {
		return env, nil, err
	}
	plaintext, err := DecryptECB(key, encrypted)
	if err != nil {
		return env, nil, fmt.Errorf("container: decrypting data chunk: %w", err)
	}
	data, err := DecompressDataChunk(plaintext, codec)
	if err != nil {
		return env, nil, fmt.Errorf("container: decompressing data chunk: %w", err)
	}
	return env, data, nil
}
