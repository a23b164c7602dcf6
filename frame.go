package extent

// noCurr marks a pathFrame with no positioned record.
const noCurr = -1

// pathFrame is the per-level cursor state of a Handle's traversal stack. buf is the
// raw bytes of the node: for level 0 it aliases the region inside the
// handle's owned inode copy (achieved by ordinary Go slice aliasing, no
// separate view type needed); for level >= 1 it is a heap buffer sized to
// one filesystem block, allocated lazily on first descent.
type pathFrame struct {
	buf        []byte
	entries    int
	maxEntries int
	left       int
	curr       int // 0-based record index, or noCurr
	visitNum   int
	endBlk     uint64
}

// resetFromHeader reseeds entries/maxEntries from the node's header and
// clears the cursor, used both when opening a handle and after a fresh
// descent.
func (p *pathFrame) resetFromHeader(h header) {
	p.entries = int(h.entries)
	p.maxEntries = int(h.max)
	p.left = p.entries
	p.curr = noCurr
}

// header returns the frame's current header, re-decoded from buf so that
// mutations already applied to buf are reflected.
func (p *pathFrame) header() header {
	return decodeHeader(p.buf)
}

// recordBytes returns the byte slice for the i-th record (0-based) in buf.
func (p *pathFrame) recordBytes(i int) []byte {
	off := recordOffset(i)
	return p.buf[off : off+recordSize]
}

// currBytes returns the byte slice for the currently positioned record.
// The caller must have checked curr != noCurr.
func (p *pathFrame) currBytes() []byte {
	return p.recordBytes(p.curr)
}

// setEntryCount updates both the in-memory mirror and the in-buffer header
// entries field, keeping the invariant "header entries == frame entries".
func (p *pathFrame) setEntryCount(n int) {
	p.entries = n
	setEntries(p.buf, uint16(n))
}
