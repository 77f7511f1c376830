// This file contains a byte-granular cursor over a byte slice, the
// byte-oriented twin of BitReader. It aids reading data from a byte slice
// the same way the container and frame-splitting layers consume it.

package netstream

import "encoding/binary"

// ByteReader aids reading data from a byte slice at byte granularity.
// It is the byte-granular counterpart of BitReader: both implement the
// cursor interface so the primitive codecs in primitives.go can be shared.
type ByteReader struct {
	// b is the byte slice to read from
	b []byte

	// pos is the index of the next byte to read
	pos int
}

// NewByteReader returns a ByteReader over the given byte slice.
func NewByteReader(b []byte) *ByteReader {
	return &ByteReader{b: b}
}

// ErrEOF indicates a read past the end of the underlying byte slice.
var ErrEOF = &ParseError{Msg: "read past end of data"}

// ReadByte returns the next byte. It implements the cursor interface.
func (br *ByteReader) ReadByte() (byte, error) {
	if br.pos >= len(br.b) {
		return 0, ErrEOF
	}
	b := br.b[br.pos]
	br.pos++
	return b, nil
}

// AtEnd tells if there's no more data to read.
func (br *ByteReader) AtEnd() bool {
	return br.pos >= len(br.b)
}

// Remaining returns the number of unread bytes.
func (br *ByteReader) Remaining() int {
	return len(br.b) - br.pos
}

// Pos returns the current byte offset.
func (br *ByteReader) Pos() int {
	return br.pos
}

// ReadBytes returns the next n bytes as a freshly allocated slice.
func (br *ByteReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || br.pos+n > len(br.b) {
		return nil, ErrEOF
	}
	r := make([]byte, n)
	copy(r, br.b[br.pos:br.pos+n])
	br.pos += n
	return r, nil
}

// Skip advances the cursor by n bytes without returning them.
func (br *ByteReader) Skip(n int) error {
	if n < 0 || br.pos+n > len(br.b) {
		return ErrEOF
	}
	br.pos += n
	return nil
}

// ReadUint16 reads a little-endian uint16.
func (br *ByteReader) ReadUint16() (uint16, error) {
	if br.pos+2 > len(br.b) {
		return 0, ErrEOF
	}
	v := binary.LittleEndian.Uint16(br.b[br.pos:])
	br.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (br *ByteReader) ReadUint32() (uint32, error) {
	if br.pos+4 > len(br.b) {
		return 0, ErrEOF
	}
	v := binary.LittleEndian.Uint32(br.b[br.pos:])
	br.pos += 4
	return v, nil
}

// ReadInt32 reads a little-endian int32.
func (br *ByteReader) ReadInt32() (int32, error) {
	v, err := br.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a little-endian uint64.
func (br *ByteReader) ReadUint64() (uint64, error) {
	if br.pos+8 > len(br.b) {
		return 0, ErrEOF
	}
	v := binary.LittleEndian.Uint64(br.b[br.pos:])
	br.pos += 8
	return v, nil
}

// ReadFloat32 reads a little-endian f32.
func (br *ByteReader) ReadFloat32() (float32, error) {
	return readFloat32(br)
}
