// This file contains event-chunk decoding: the envelope around
// eliminations and match/team stats, decrypted with the session's AES
// key before its payload is handed to the events package. Grounded on
// original_source/src/uchunk.rs's EventChunk.
package container

import (
	"fmt"

	"github.com/harrowgate/fnrep/netstream"
)

// Event is a decrypted event chunk: metadata identifying what kind of
// event it carries, plus its decrypted payload bytes.
type Event struct {
	ID         string
	Group      string
	Metadata   string
	StartTime  uint32
	EndTime    uint32
	Data       []byte
}

// ParseEvent decodes an event chunk's bincode-framed envelope and
// decrypts its payload with key.
func ParseEvent(c *Chunk, key []byte) (Event, error) {
	if c.Variant != ChunkEvent {
		return Event{}, fmt.Errorf("container: chunk variant %s is not an event chunk", c.Variant)
	}
	r := bincodeReader{netstream.NewByteReader(c.Data)}
	var e Event
	var err error

	if e.ID, err = r.string(); err != nil {
		return e, err
	}
	if e.Group, err = r.string(); err != nil {
		return e, err
	}
	if e.Metadata, err = r.string(); err != nil {
		return e, err
	}
	if e.StartTime, err = r.ReadUint32(); err != nil {
		return e, err
	}
	if e.EndTime, err = r.ReadUint32(); err != nil {
		return e, err
	}
	n, err := r.uint64()
	if err != nil {
		return e, err
	}
	if n > maxBlobLen {
		return e, fmt.Errorf("container: implausible event payload length %d", n)
	}
	encrypted, err := r.ReadBytes(int(n))
	if err != nil {
		return e, err
	}

	e.Data, err = DecryptECB(key, encrypted)
	if err != nil {
		return e, fmt.Errorf("container: decrypting event %q: %w", e.Group, err)
	}
	return e, nil
}
