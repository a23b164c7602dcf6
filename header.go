package extent

import (
	"encoding/binary"
	"fmt"
)

// headerMagic is the 16-bit constant every node header must carry.
const headerMagic = 0xf30a

// headerSize and recordSize are fixed by the on-disk layout: a 12-byte
// header followed by 12-byte leaf or index records.
const (
	headerSize = 12
	recordSize = 12
)

// header is the decoded 12-byte node header common to the root region and
// every disk-block node.
type header struct {
	magic      uint16
	entries    uint16
	max        uint16
	depth      uint16
	generation uint32
}

// decodeHeader reads a header from the first 12 bytes of buf.
func decodeHeader(buf []byte) header {
	return header{
		magic:      binary.LittleEndian.Uint16(buf[0:2]),
		entries:    binary.LittleEndian.Uint16(buf[2:4]),
		max:        binary.LittleEndian.Uint16(buf[4:6]),
		depth:      binary.LittleEndian.Uint16(buf[6:8]),
		generation: binary.LittleEndian.Uint32(buf[8:12]),
	}
}

// encodeHeader writes h into the first 12 bytes of buf.
func encodeHeader(buf []byte, h header) {
	binary.LittleEndian.PutUint16(buf[0:2], h.magic)
	binary.LittleEndian.PutUint16(buf[2:4], h.entries)
	binary.LittleEndian.PutUint16(buf[4:6], h.max)
	binary.LittleEndian.PutUint16(buf[6:8], h.depth)
	binary.LittleEndian.PutUint32(buf[8:12], h.generation)
}

// setEntries rewrites only the entries field of the header embedded in buf,
// avoiding a full re-encode of the header for a single-field update.
func setEntries(buf []byte, entries uint16) {
	binary.LittleEndian.PutUint16(buf[2:4], entries)
}

// verifyHeader validates a freshly-read node header against the capacity
// of the region it lives in (either the 60-byte inode root or a full
// filesystem block). regionSize is the size in bytes of that region.
//
// The record size is 12 at both leaves and interior nodes; the capacity
// check tolerates up to two records of tail slack, reserved for a future
// checksum record.
func verifyHeader(h header, regionSize int) error {
	if h.magic != headerMagic {
		return fmt.Errorf("%w: magic %#x", ErrHeaderBad, h.magic)
	}
	if h.entries > h.max {
		return fmt.Errorf("%w: entries %d > max %d", ErrHeaderBad, h.entries, h.max)
	}

	capacity := (regionSize - headerSize) / recordSize
	if int(h.max) > capacity || int(h.max) < capacity-2 {
		return fmt.Errorf("%w: max %d outside capacity %d (-2 slack)", ErrHeaderBad, h.max, capacity)
	}
	return nil
}
