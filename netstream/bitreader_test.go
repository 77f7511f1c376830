package netstream

import "testing"

func TestBitReaderReadBit(t *testing.T) {
	r := NewBitReader([]byte{0x23}, 8)
	want := []bool{true, true, false, false, false, true, false, false}
	for i, w := range want {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != w {
			t.Errorf("bit %d = %v, want %v", i, got, w)
		}
	}
}

func TestBitReaderReadByte(t *testing.T) {
	r := NewBitReader([]byte{0x01, 0x02, 0x03}, 24)
	for i, want := range []byte{0x01, 0x02, 0x03} {
		got, err := r.ReadByte()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if got != want {
			t.Errorf("byte %d = %#x, want %#x", i, got, want)
		}
	}
}

func TestBitReaderReadIntPacked(t *testing.T) {
	if got, err := NewBitReader([]byte{0xCC}, 8).ReadIntPacked(); err != nil || got != 102 {
		t.Errorf("ReadIntPacked(0xCC) = %d, %v, want 102, nil", got, err)
	}
	if got, err := NewBitReader([]byte{0x24, 0x40}, 16).ReadIntPacked(); err != nil || got != 18 {
		t.Errorf("ReadIntPacked(0x24,0x40) = %d, %v, want 18, nil", got, err)
	}
}

func TestBitReaderReadSerializedInt(t *testing.T) {
	if got, err := NewBitReader([]byte{0x64}, 8).ReadSerializedInt(3); err != nil || got != 0 {
		t.Errorf("ReadSerializedInt(3) = %d, %v, want 0, nil", got, err)
	}
	if got, err := NewBitReader([]byte{0x01}, 8).ReadSerializedInt(2); err != nil || got != 1 {
		t.Errorf("ReadSerializedInt(2) = %d, %v, want 1, nil", got, err)
	}
}

func TestBitReaderReadBitFName(t *testing.T) {
	r := NewBitReader([]byte{0x99, 0xF1}, 16)
	got, err := r.ReadBitFName()
	if err != nil {
		t.Fatalf("ReadBitFName: %v", err)
	}
	if got != "Actor" {
		t.Errorf("ReadBitFName() = %q, want %q", got, "Actor")
	}
	if r.Pos() != 9 {
		t.Errorf("Pos() after fname = %d, want 9", r.Pos())
	}
}

func TestBitReaderReadBits(t *testing.T) {
	r := NewBitReader([]byte{0x23, 0x01}, 16)
	got, err := r.ReadBits(7)
	if err != nil {
		t.Fatalf("ReadBits(7): %v", err)
	}
	if len(got) != 1 || got[0] != 0x23 {
		t.Errorf("ReadBits(7) = %v, want [0x23]", got)
	}
	if r.Remaining() != 9 {
		t.Errorf("Remaining() = %d, want 9", r.Remaining())
	}
	if _, err := r.ReadBit(); err != nil {
		t.Fatalf("ReadBit: %v", err)
	}
	if got, err := r.ReadByte(); err != nil || got != 0x01 {
		t.Errorf("ReadByte() = %#x, %v, want 0x01, nil", got, err)
	}
}

func TestBitReaderReadVector(t *testing.T) {
	b1 := NewBitReader([]byte{0x70, 0x99, 0x7F, 0x3F, 0x00, 0x00, 0x80, 0x3F, 0x00, 0x00, 0x80, 0x3F}, 12*8)
	got, err := b1.ReadVector()
	if err != nil {
		t.Fatalf("ReadVector: %v", err)
	}
	want := Vec3{X: 0.998435020446777, Y: 1, Z: 1}
	if !almostEqual(got.X, want.X) || got.Y != want.Y || got.Z != want.Z {
		t.Errorf("ReadVector() = %+v, want %+v", got, want)
	}
}

func TestBitReaderReadPackedVector(t *testing.T) {
	cases := []struct {
		data          []byte
		scale, maxBits uint32
		want          Vec3
	}{
		{[]byte{0xB4, 0xC5, 0x5C, 0xEF, 0x81, 0x33, 0x76, 0x33, 0x3F}, 10, 24, Vec3{176286, -167520, -2618}},
		{[]byte{0x74, 0xF3, 0x74, 0xC7, 0xB4, 0x2D, 0x62, 0x51, 0x3F}, 10, 24, Vec3{181237, -172272, -2235}},
		{[]byte{0x98, 0xE4, 0x52, 0x62, 0x07, 0x9A, 0x75, 0x70, 0x4F, 0xF9, 0x03}, 100, 30, Vec3{179955, -181401, -2192}},
		{[]byte{0x98, 0x5A, 0xF6, 0x63, 0x8C, 0x4B, 0x7A, 0x46, 0x08, 0xF8, 0x03}, 100, 30, Vec3{188546, -175249, -2610}},
		{[]byte{0x40, 0x05}, 1, 24, Vec3{0, 0, 0}},
	}
	for i, c := range cases {
		r := NewBitReader(c.data, len(c.data)*8)
		got, err := r.ReadPackedVector(c.scale, c.maxBits)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if got != c.want {
			t.Errorf("case %d: ReadPackedVector() = %+v, want %+v", i, got, c.want)
		}
	}
}

func almostEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
