// This file contains free-standing primitive codecs shared by the
// byte-granular ByteReader and the bit-granular BitReader: packed varints,
// length-prefixed strings, and "fname" values. Factoring them as free
// functions over a small cursor interface avoids duplicating the decode
// logic for each granularity (spec §9, "shared reader over byte cursor and
// bit cursor").

package netstream

import (
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// cursor is the minimal capability both ByteReader and BitReader provide:
// pulling the next byte off the stream, each at its own granularity.
type cursor interface {
	ReadByte() (byte, error)
}

// ReadIntPacked decodes a 7-bits-per-byte continuation varint: the LSB of
// each source byte is the "more follows" flag, the upper 7 bits contribute
// value bits, least-significant chunk first.
func ReadIntPacked(c cursor) (uint32, error) {
	var value uint32
	var count uint
	for {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		more := b&1 != 0
		value += uint32(b>>1) << (7 * count)
		count++
		if !more {
			break
		}
		if count >= 5 {
			return 0, parseErrorf("int-packed varint exceeds 5 bytes")
		}
	}
	return value, nil
}

// ReadU16 reads a little-endian uint16, one byte at a time off the cursor.
func ReadU16(c cursor) (uint16, error) {
	lo, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadU32 reads a little-endian uint32, one byte at a time off the cursor.
func ReadU32(c cursor) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

// ReadI32 reads a little-endian int32.
func ReadI32(c cursor) (int32, error) {
	v, err := ReadU32(c)
	return int32(v), err
}

// readFloat32 reads a little-endian f32 off the cursor.
func readFloat32(c cursor) (float32, error) {
	v, err := ReadU32(c)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// utf16leDecoder decodes UTF-16LE code units, the same way the teacher
// decodes replay header text it suspects of being in a non-UTF8 codepage
// (golang.org/x/text/encoding/korean.EUCKR) — here the wire format itself
// tells us the codepage via the sign of the length prefix, so no sniffing
// is needed, just the matching x/text decoder.
var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// ReadFString reads a length-prefixed string: a little-endian i32 prefix;
// if negative, the magnitude is the count of UTF-16LE code units, if
// positive, the count of UTF-8 bytes. Content is NUL- and U+0020-trimmed
// on both ends.
func ReadFString(c cursor) (string, error) {
	n, err := ReadI32(c)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	unicode16 := n < 0
	count := int(n)
	if unicode16 {
		count = -count
	}
	if count < 0 || count > 1<<20 {
		return "", parseErrorf("implausible fstring length: %d", n)
	}

	if unicode16 {
		raw := make([]byte, count*2)
		for i := range raw {
			b, err := c.ReadByte()
			if err != nil {
				return "", err
			}
			raw[i] = b
		}
		decoded, err := utf16leDecoder.Bytes(raw)
		if err != nil {
			return "", parseErrorf("invalid utf-16le fstring: %v", err)
		}
		return trimFString(string(decoded)), nil
	}

	raw := make([]byte, count)
	for i := range raw {
		b, err := c.ReadByte()
		if err != nil {
			return "", err
		}
		raw[i] = b
	}
	return trimFString(string(raw)), nil
}

// trimFString strips NUL terminators and padding spaces from both ends.
func trimFString(s string) string {
	return strings.Trim(s, "\x00 ")
}

// ReadFName reads a byte-oriented fname: a full flag byte, then either an
// int-packed hardcoded id (looked up in the engine name table) or an
// inline (string, discarded number) pair. Used by byte-granular readers
// (the demo-frame net-field-export records); BitReader uses the
// bit-granular twin, ReadBitFName.
func ReadFName(c cursor) (string, error) {
	flag, err := c.ReadByte()
	if err != nil {
		return "", err
	}
	if flag != 0 {
		id, err := ReadIntPacked(c)
		if err != nil {
			return "", err
		}
		name, ok := HardcodedNameByID(int32(id))
		if !ok {
			return "", parseErrorf("unknown hardcoded fname id: %d", id)
		}
		return name, nil
	}
	s, err := ReadFString(c)
	if err != nil {
		return "", err
	}
	if _, err := ReadU32(c); err != nil { // trailing "number", discarded
		return "", err
	}
	return s, nil
}
