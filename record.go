package extent

import "encoding/binary"

// extentRec is the decoded 12-byte leaf record (ext3_extent).
type extentRec struct {
	block   uint32 // ee_block
	length  uint16 // ee_len
	startHi uint16 // ee_start_hi
	start   uint32 // ee_start
}

func decodeExtentRec(buf []byte) extentRec {
	return extentRec{
		block:   binary.LittleEndian.Uint32(buf[0:4]),
		length:  binary.LittleEndian.Uint16(buf[4:6]),
		startHi: binary.LittleEndian.Uint16(buf[6:8]),
		start:   binary.LittleEndian.Uint32(buf[8:12]),
	}
}

func encodeExtentRec(buf []byte, r extentRec) {
	binary.LittleEndian.PutUint32(buf[0:4], r.block)
	binary.LittleEndian.PutUint16(buf[4:6], r.length)
	binary.LittleEndian.PutUint16(buf[6:8], r.startHi)
	binary.LittleEndian.PutUint32(buf[8:12], r.start)
}

// physical returns the 48-bit little-endian physical start block.
func (r extentRec) physical() uint64 {
	return uint64(r.start) | uint64(r.startHi)<<32
}

// indexRec is the decoded 12-byte interior record (ext3_extent_idx).
type indexRec struct {
	block  uint32 // ei_block
	leaf   uint32 // ei_leaf
	leafHi uint16 // ei_leaf_hi
	// ei_unused must be zero on write; not retained on decode.
}

func decodeIndexRec(buf []byte) indexRec {
	return indexRec{
		block:  binary.LittleEndian.Uint32(buf[0:4]),
		leaf:   binary.LittleEndian.Uint32(buf[4:8]),
		leafHi: binary.LittleEndian.Uint16(buf[8:10]),
	}
}

func encodeIndexRec(buf []byte, r indexRec) {
	binary.LittleEndian.PutUint32(buf[0:4], r.block)
	binary.LittleEndian.PutUint32(buf[4:8], r.leaf)
	binary.LittleEndian.PutUint16(buf[8:10], r.leafHi)
	binary.LittleEndian.PutUint16(buf[10:12], 0) // ei_unused
}

// child returns the 48-bit little-endian child block address.
func (r indexRec) child() uint64 {
	return uint64(r.leaf) | uint64(r.leafHi)<<32
}

// recordOffset returns the byte offset of the i-th record within a node
// buffer (i is 0-based, counted from the first record after the header).
func recordOffset(i int) int {
	return headerSize + i*recordSize
}
