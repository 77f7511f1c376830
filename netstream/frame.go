// This file contains demo-frame splitting: the top-level loop that
// walks a decompressed data chunk's byte stream, carving it into demo
// frames and, within each frame, the raw packets that PacketParser
// consumes. Grounded on original_source/src/data/net.rs's DemoFrame.

package netstream

// NetFieldExport names one replicated property handle within a net
// field export group.
type NetFieldExport struct {
	Handle              uint32
	CompatibleChecksum  uint32
	Name                string
}

// NetFieldExportGroup associates a path name with the property handles
// exported under it for this frame.
type NetFieldExportGroup struct {
	PathNameIndex uint32
	IsExported    bool
	PathName      string
	NumExports    uint32
	Export        *NetFieldExport
}

// DemoFrame is one tick's worth of replicated state: the simulation
// time it represents, the net field exports introduced at that time,
// and the raw packets recorded for it.
type DemoFrame struct {
	CurrentLevelIndex uint32
	TimeSeconds       float32
	ExportData        []NetFieldExportGroup
	Packets           [][]byte
}

// maxBlobSize bounds a malformed length/size prefix the same way
// ReadFString already bounds its own string length, applied here to the
// frame loop's own size-prefixed blobs (NetGUID export entries, game
// specific data) so a corrupt chunk fails fast instead of allocating
// gigabytes.
const maxBlobSize = 64 << 20

// parseNetFieldExport reads one optional NetFieldExport: a flag byte,
// and if set, its handle/checksum/fname.
func parseNetFieldExport(r *ByteReader) (*NetFieldExport, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if flag == 0 {
		return nil, nil
	}
	handle, err := ReadIntPacked(r)
	if err != nil {
		return nil, err
	}
	checksum, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	name, err := ReadFName(r)
	if err != nil {
		return nil, err
	}
	return &NetFieldExport{Handle: handle, CompatibleChecksum: checksum, Name: name}, nil
}

// parseNetFieldExportGroups reads the int-packed-counted list of export
// groups a demo frame carries.
func parseNetFieldExportGroups(r *ByteReader) ([]NetFieldExportGroup, error) {
	count, err := ReadIntPacked(r)
	if err != nil {
		return nil, err
	}
	groups := make([]NetFieldExportGroup, 0, count)
	for i := uint32(0); i < count; i++ {
		pathNameIndex, err := ReadIntPacked(r)
		if err != nil {
			return nil, err
		}
		isExportedFlag, err := ReadIntPacked(r)
		if err != nil {
			return nil, err
		}
		group := NetFieldExportGroup{PathNameIndex: pathNameIndex, IsExported: isExportedFlag != 0}
		if group.IsExported {
			if group.PathName, err = ReadFString(r); err != nil {
				return nil, err
			}
			if group.NumExports, err = ReadIntPacked(r); err != nil {
				return nil, err
			}
		}
		if group.Export, err = parseNetFieldExport(r); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// ParseDemoFrame decodes one demo frame from r, feeding every raw packet
// it carries to parser as soon as it's read (matching the original's
// interleaved parse/dispatch order, which lets a malformed later packet
// in the same frame still leave earlier packets processed).
func ParseDemoFrame(r *ByteReader, parser *PacketParser) (DemoFrame, error) {
	var frame DemoFrame
	var err error

	if frame.CurrentLevelIndex, err = r.ReadUint32(); err != nil {
		return frame, err
	}
	if frame.TimeSeconds, err = r.ReadFloat32(); err != nil {
		return frame, err
	}
	if frame.ExportData, err = parseNetFieldExportGroups(r); err != nil {
		return frame, err
	}

	numGUIDs, err := ReadIntPacked(r)
	if err != nil {
		return frame, err
	}
	for i := uint32(0); i < numGUIDs; i++ {
		size, err := r.ReadInt32()
		if err != nil {
			return frame, err
		}
		if size < 0 || size > maxBlobSize {
			return frame, parseErrorf("implausible net guid export size: %d", size)
		}
		blob, err := r.ReadBytes(int(size))
		if err != nil {
			return frame, err
		}
		if _, err := loadInternalObject(NewByteReader(blob), parser.GuidCache, true, 0); err != nil {
			return frame, err
		}
	}

	numStreamingLevels, err := ReadIntPacked(r)
	if err != nil {
		return frame, err
	}
	for i := uint32(0); i < numStreamingLevels; i++ {
		if _, err := ReadFString(r); err != nil {
			return frame, err
		}
	}

	if _, err := r.ReadUint64(); err != nil { // external data offset, unused
		return frame, err
	}
	for {
		externalDataBits, err := ReadIntPacked(r)
		if err != nil {
			return frame, err
		}
		if externalDataBits == 0 {
			break
		}
		if _, err := ReadIntPacked(r); err != nil { // net guid, unused here
			return frame, err
		}
		byteLen := int((externalDataBits + 7) >> 3)
		if err := r.Skip(byteLen); err != nil {
			return frame, err
		}
	}

	gameSpecificSize, err := r.ReadUint64()
	if err != nil {
		return frame, err
	}
	if gameSpecificSize > maxBlobSize {
		return frame, parseErrorf("implausible game specific data size: %d", gameSpecificSize)
	}
	if err := r.Skip(int(gameSpecificSize)); err != nil {
		return frame, err
	}

	for {
		if _, err := ReadIntPacked(r); err != nil { // seen level index, unused
			return frame, err
		}
		size, err := r.ReadInt32()
		if err != nil {
			return frame, err
		}
		if size <= 0 {
			break
		}
		packet, err := r.ReadBytes(int(size))
		if err != nil {
			return frame, err
		}
		frame.Packets = append(frame.Packets, packet)
		if err := parser.ReceivedRawPacket(packet); err != nil {
			return frame, err
		}
	}

	return frame, nil
}

// ParseDemoChunk splits decompressed data-chunk bytes into consecutive
// demo frames until the buffer is exhausted.
func ParseDemoChunk(data []byte, parser *PacketParser) ([]DemoFrame, error) {
	r := NewByteReader(data)
	var frames []DemoFrame
	for !r.AtEnd() {
		frame, err := ParseDemoFrame(r, parser)
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
