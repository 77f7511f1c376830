// This file contains packet framing and bunch sequencing: splitting a
// raw packet into bunches, tracking per-channel reliable sequence state,
// and reassembling bunches split across multiple partial fragments.
// Grounded on original_source/src/data/packet.rs's PacketParser,
// received_raw_packet, received_packet, parse_bunch and
// received_next_bunch.

package netstream

// maxChannels bounds the channel index space, matching the engine's
// fixed channel table size.
const maxChannels = 32767

// maxBunchDataBits caps a single bunch's payload size: 2 KiB of data,
// expressed in bits, matching the wire's own ranged-int upper bound.
const maxBunchDataBits = 1024 * 2 * 8

// DataBunch is one frame of a replicated channel's byte stream: either a
// complete message, or one fragment of a message split across several
// partial bunches.
type DataBunch struct {
	PacketID               int32
	ChIndex                uint32
	ChName                 ChannelName
	ChSeq                  int32
	BOpen                  bool
	BClose                 bool
	BIsReplicationPaused   bool
	BIsReliable            bool
	BPartial               bool
	BPartialInitial        bool
	BPartialFinal          bool
	BHasPackageMapExports  bool
	BHasMustBeMappedGUIDs  bool
	BIgnoreRPCs            bool
	BDormant               bool
	CloseReason            CloseReason
	Data                   []byte
	DataBitSize            int
}

func (b DataBunch) clone() DataBunch {
	c := b
	c.Data = append([]byte(nil), b.Data...)
	return c
}

// UChannel is a replicated channel's persistent state: its kind and,
// once opened, the actor it carries.
type UChannel struct {
	Name  ChannelName
	Index uint32
	Actor *Actor
}

// PacketParser holds the per-connection state needed to decode a
// sequence of raw packets into actor updates: the reliable-sequence
// counter, the fixed channel table, any bunch awaiting more partial
// fragments, and the NetGUID cache shared with frame-level parsing.
type PacketParser struct {
	packetIndex  int32
	inReliable   int32
	channels     [maxChannels]*UChannel
	partialBunch *DataBunch

	GuidCache *GuidCache

	// OnActorBunch, if set, is invoked with every completed bunch's
	// content blocks as they're decoded, keyed by channel index.
	OnActorBunch func(channel uint32, blocks []ContentBlock)
}

// NewPacketParser returns a parser with a fresh GUID cache.
func NewPacketParser() *PacketParser {
	return &PacketParser{GuidCache: NewGuidCache()}
}

// ReceivedRawPacket locates the packet's trailing stop bit (the
// highest-order set bit of the last byte marks the true end of the bit
// stream; a packet whose last byte is zero is rejected as malformed) and
// decodes the resulting bit range as a sequence of bunches.
func (p *PacketParser) ReceivedRawPacket(data []byte) error {
	if len(data) == 0 {
		return parseErrorf("malformed packet: empty")
	}
	lastByte := data[len(data)-1]
	if lastByte == 0 {
		return parseErrorf("malformed packet: zero trailing byte")
	}
	bitSize := len(data)*8 - 1
	for lastByte&0x80 == 0 {
		lastByte *= 2
		bitSize--
	}
	return p.receivedPacket(NewBitReader(data, bitSize))
}

// receivedPacket reads consecutive bunch headers off reader until the
// bit stream is exhausted, dispatching each to parseBunch.
func (p *PacketParser) receivedPacket(reader *BitReader) error {
	p.packetIndex++
	for !reader.AtEnd() {
		bunch := DataBunch{PacketID: p.packetIndex}

		bControl, err := reader.ReadBit()
		if err != nil {
			return err
		}
		if bControl {
			if bunch.BOpen, err = reader.ReadBit(); err != nil {
				return err
			}
			if bunch.BClose, err = reader.ReadBit(); err != nil {
				return err
			}
		}

		if bunch.BClose {
			id, err := reader.ReadSerializedInt(uint32(CloseReasonMax))
			if err != nil {
				return err
			}
			reason, err := CloseReasonByID(id)
			if err != nil {
				return err
			}
			bunch.CloseReason = reason
		} else {
			bunch.CloseReason = CloseDestroyed
		}
		bunch.BDormant = bunch.CloseReason == CloseDormancy

		if bunch.BIsReplicationPaused, err = reader.ReadBit(); err != nil {
			return err
		}
		if bunch.BIsReliable, err = reader.ReadBit(); err != nil {
			return err
		}
		chIndex, err := reader.ReadIntPacked()
		if err != nil {
			return err
		}
		if chIndex >= maxChannels {
			return parseErrorf("channel index %d out of range", chIndex)
		}
		bunch.ChIndex = chIndex
		if bunch.BHasPackageMapExports, err = reader.ReadBit(); err != nil {
			return err
		}
		if bunch.BHasMustBeMappedGUIDs, err = reader.ReadBit(); err != nil {
			return err
		}
		if bunch.BPartial, err = reader.ReadBit(); err != nil {
			return err
		}

		switch {
		case bunch.BIsReliable:
			bunch.ChSeq = p.inReliable + 1
		case bunch.BPartial:
			bunch.ChSeq = p.packetIndex
		default:
			bunch.ChSeq = 0
		}

		if bunch.BPartial {
			if bunch.BPartialInitial, err = reader.ReadBit(); err != nil {
				return err
			}
			if bunch.BPartialFinal, err = reader.ReadBit(); err != nil {
				return err
			}
		}

		if bunch.BIsReliable || bunch.BOpen {
			name, err := reader.ReadBitFName()
			if err != nil {
				return err
			}
			bunch.ChName = ChannelNameByWireString(name)
		}

		bunchDataBits, err := reader.ReadSerializedInt(maxBunchDataBits)
		if err != nil {
			return err
		}
		bunch.DataBitSize = int(bunchDataBits)
		bunch.Data, err = reader.ReadBits(int(bunchDataBits))
		if err != nil {
			return err
		}

		if err := p.parseBunch(bunch); err != nil {
			return err
		}
	}
	return nil
}

// parseBunch applies the channel-existence and sequencing gate before a
// bunch is allowed to affect channel state: already-processed reliable
// bunches are dropped, and an unreliable bunch on a channel that doesn't
// exist yet is only accepted if it both opens and (closes or starts a
// partial sequence).
func (p *PacketParser) parseBunch(bunch DataBunch) error {
	channelExists := p.channels[bunch.ChIndex] != nil

	if bunch.BIsReliable && bunch.ChSeq <= p.inReliable {
		return nil // already processed
	}
	if !channelExists && !bunch.BIsReliable {
		if !(bunch.BOpen && (bunch.BClose || bunch.BPartial)) {
			return nil
		}
	}
	if !channelExists {
		p.channels[bunch.ChIndex] = &UChannel{Name: bunch.ChName, Index: bunch.ChIndex}
	}
	return p.receivedNextBunch(bunch)
}

// receivedNextBunch folds a partial fragment into the in-flight partial
// bunch, or — for non-partial bunches, and for a continuation fragment
// that arrives with no partial bunch open — hands the bunch straight to
// receivedSequencedBunch. This mirrors the original's state machine,
// including its dropped branch where an initial fragment arrives while a
// prior, unfinished reliable partial is still open (both the "bunch is
// also reliable" and "bunch is not reliable" cases drop it identically)
// and the fact that a completed partial's accumulator (p.partialBunch)
// is not explicitly cleared after being sequenced — a new
// BPartialInitial bunch on the same channel simply overwrites it.
func (p *PacketParser) receivedNextBunch(bunch DataBunch) error {
	if bunch.BIsReliable {
		p.inReliable = bunch.ChSeq
	}

	if bunch.BPartial {
		if bunch.BPartialInitial {
			if p.partialBunch != nil {
				prior := p.partialBunch
				if !prior.BPartialFinal && prior.BIsReliable {
					// an unfinished reliable partial is still open; both the
					// "bunch is also reliable" and "bunch is not reliable"
					// cases drop the new fragment identically here
					return nil
				}
				p.partialBunch = nil
			}
			stored := bunch.clone()
			p.partialBunch = &stored
			return nil
		}

		if p.partialBunch == nil {
			// no partial bunch is open to continue; the original falls
			// through to received_sequenced_bunch in this case rather than
			// dropping the fragment
			return p.receivedSequencedBunch(bunch)
		}
		partial := p.partialBunch
		reliableSeqMatches := bunch.ChSeq == partial.ChSeq+1
		unreliableSeqMatches := reliableSeqMatches || bunch.ChSeq == partial.ChSeq
		var seqMatches bool
		if partial.BIsReliable {
			seqMatches = reliableSeqMatches
		} else {
			seqMatches = unreliableSeqMatches
		}
		if partial.BPartialFinal || !seqMatches || partial.BIsReliable != bunch.BIsReliable {
			return nil
		}

		if !bunch.BHasPackageMapExports && len(bunch.Data) > 0 {
			partial.Data = append(partial.Data, bunch.Data...)
			partial.DataBitSize += bunch.DataBitSize
		}
		if !bunch.BHasPackageMapExports && !bunch.BPartialFinal && bunch.DataBitSize%8 != 0 {
			return nil // not byte aligned
		}
		partial.ChSeq = bunch.ChSeq
		if bunch.BPartialFinal {
			if bunch.BHasPackageMapExports {
				return nil
			}
			partial.BPartialFinal = true
			partial.BClose = bunch.BClose
			partial.BDormant = bunch.BDormant
			partial.CloseReason = bunch.CloseReason
			partial.BIsReplicationPaused = bunch.BIsReplicationPaused
			partial.BHasMustBeMappedGUIDs = bunch.BHasMustBeMappedGUIDs
			complete := partial.clone()
			return p.receivedSequencedBunch(complete)
		}
		return nil
	}

	return p.receivedSequencedBunch(bunch)
}
