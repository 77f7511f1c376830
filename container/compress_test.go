package container

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func TestZlibDecompressorRoundTrip(t *testing.T) {
	want := []byte("decoded demo frame payload, repeated repeated repeated for compressibility")

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(want); err != nil {
		t.Fatalf("writing zlib fixture: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zlib fixture: %v", err)
	}

	got, err := ZlibDecompressor{}.Decompress(buf.Bytes(), len(want))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Decompress() = %q, want %q", got, want)
	}
}

func TestIdentityDecompressorValidatesSize(t *testing.T) {
	data := []byte("already uncompressed")
	if got, err := (IdentityDecompressor{}).Decompress(data, len(data)); err != nil || string(got) != string(data) {
		t.Errorf("Decompress() = %q, %v, want %q, nil", got, err, data)
	}
	if _, err := (IdentityDecompressor{}).Decompress(data, len(data)+1); err == nil {
		t.Error("Decompress should reject a size mismatch")
	}
}

func TestOodleDecompressorReturnsErrOodleUnavailable(t *testing.T) {
	if _, err := (OodleDecompressor{}).Decompress(nil, 0); err != ErrOodleUnavailable {
		t.Errorf("Decompress() error = %v, want ErrOodleUnavailable", err)
	}
}

func TestDecompressDataChunk(t *testing.T) {
	want := []byte("frame bytes")
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(want)
	zw.Close()

	var plaintext bytes.Buffer
	binary.Write(&plaintext, binary.LittleEndian, int32(len(want)))
	binary.Write(&plaintext, binary.LittleEndian, int32(compressed.Len()))
	plaintext.Write(compressed.Bytes())

	got, err := DecompressDataChunk(plaintext.Bytes(), ZlibDecompressor{})
	if err != nil {
		t.Fatalf("DecompressDataChunk: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("DecompressDataChunk() = %q, want %q", got, want)
	}
}
