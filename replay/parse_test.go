package replay

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/harrowgate/fnrep/container"
)

func fstring(s string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(s)+1))
	buf.WriteString(s)
	buf.WriteByte(0)
	return buf.Bytes()
}

func bincodeString(s string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(len(s)))
	buf.WriteString(s)
	return buf.Bytes()
}

const testMagic = 0x1CA2E27F

func buildHeaderChunkPayload() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(1))               // NetworkMagic
	binary.Write(&buf, binary.LittleEndian, uint32(1))               // NetworkVersion
	binary.Write(&buf, binary.LittleEndian, uint32(1))               // NetworkChecksum
	binary.Write(&buf, binary.LittleEndian, uint32(1))               // EngineNetworkVersion
	binary.Write(&buf, binary.LittleEndian, uint32(1))               // GameNetworkProtocolVersion
	buf.Write(bytes.Repeat([]byte{0xAB}, 16))                        // ID (uuid)
	binary.Write(&buf, binary.LittleEndian, uint16(20))               // Major
	binary.Write(&buf, binary.LittleEndian, uint16(10))               // Minor
	binary.Write(&buf, binary.LittleEndian, uint16(1))                // Patch
	binary.Write(&buf, binary.LittleEndian, uint32(12345678))         // Changelist
	buf.Write(bincodeString("++Fortnite+Release"))                   // BranchData
	binary.Write(&buf, binary.LittleEndian, uint64(0))                // numLevels
	binary.Write(&buf, binary.LittleEndian, uint32(0))                // Flags
	binary.Write(&buf, binary.LittleEndian, uint64(0))                // numGameData
	return buf.Bytes()
}

// buildReplay assembles a minimal in-memory replay: magic, meta header,
// and a single header chunk. It gives parse() something real to read
// without needing a fixture file on disk.
func buildReplay() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(testMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(1))   // FileVersion
	binary.Write(&buf, binary.LittleEndian, uint32(9000)) // LengthInMS
	binary.Write(&buf, binary.LittleEndian, uint32(2))   // NetworkVersion
	binary.Write(&buf, binary.LittleEndian, uint32(3))   // Changelist
	buf.Write(fstring("victory royale"))
	key := bytes.Repeat([]byte{0x01}, 32)
	binary.Write(&buf, binary.LittleEndian, uint32(len(key)))
	buf.Write(key)

	header := buildHeaderChunkPayload()
	binary.Write(&buf, binary.LittleEndian, uint32(container.ChunkHeader))
	binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
	buf.Write(header)

	return buf.Bytes()
}

func TestParseHeaderOnlyReplay(t *testing.T) {
	r, err := Parse(buildReplay())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Meta.FriendlyName != "victory royale" {
		t.Errorf("Meta.FriendlyName = %q, want %q", r.Meta.FriendlyName, "victory royale")
	}
	if r.Header == nil {
		t.Fatal("Header should have been populated")
	}
	if r.Header.Major != 20 || r.Header.Changelist != 12345678 {
		t.Errorf("Header = %+v", r.Header)
	}
	if r.Computed == nil {
		t.Fatal("Computed should always be populated")
	}
	if r.Computed.Won {
		t.Error("Computed.Won should be false with no team stats")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse(make([]byte, 32)); err == nil {
		t.Error("Parse should reject a file without the expected magic")
	}
}
