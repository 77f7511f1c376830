package netstream

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func packedInt(id uint32) []byte {
	var out []byte
	for {
		b := byte((id & 0x7f) << 1)
		id >>= 7
		if id != 0 {
			b |= 1
		}
		out = append(out, b)
		if id == 0 {
			break
		}
	}
	return out
}

func fstringBytes(s string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(s)+1))
	buf.WriteString(s)
	buf.WriteByte(0)
	return buf.Bytes()
}

// buildNestedExport assembles a guid whose outer object also has a path:
// guid -> flags(hasPath) -> outerGuid -> flags(hasPath) -> outerPath -> path.
func buildNestedExport(guid, outerGuid uint32, path, outerPath string) []byte {
	var buf bytes.Buffer
	buf.Write(packedInt(guid))
	buf.WriteByte(1) // flags: hasPath
	buf.Write(packedInt(outerGuid))
	buf.WriteByte(1)        // outer flags: hasPath
	buf.Write(packedInt(0)) // outer's own outer guid: invalid, stops recursion immediately
	buf.Write(fstringBytes(outerPath))
	buf.Write(fstringBytes(path))
	return buf.Bytes()
}

func TestLoadInternalObjectCachesOnlyTopLevelEntry(t *testing.T) {
	blob := buildNestedExport(4, 6, "Inner.Object", "Outer.Thing")
	cache := NewGuidCache()
	r := NewByteReader(blob)

	guid, err := loadInternalObject(r, cache, true, 0)
	if err != nil {
		t.Fatalf("loadInternalObject: %v", err)
	}
	if guid != 4 {
		t.Errorf("guid = %d, want 4", guid)
	}

	if p, ok := cache.PathFor(4); !ok || p != "Object" {
		t.Errorf("PathFor(4) = %q, %v, want %q, true", p, ok, "Object")
	}
	if _, ok := cache.PathFor(6); ok {
		t.Error("PathFor(6) should not be cached: only the top-level call should insert")
	}
	if len(cache.paths) != 1 {
		t.Errorf("cache has %d entries, want exactly 1", len(cache.paths))
	}
}
