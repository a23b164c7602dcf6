package extent

// Info reports the cursor's position within its frame and the tree's
// global geometry limits.
type Info struct {
	CurrEntry  int
	NumEntries int
	MaxEntries int
	BytesAvail int

	CurrLevel int
	MaxDepth  int

	MaxLblk      uint64
	MaxPblk      uint64
	MaxLen       uint64
	MaxUninitLen uint64
}

// GetInfo reports the current frame's entry index and capacity, the
// tree's current and maximum depth, and the format's fixed geometry limits.
func (h *Handle) GetInfo() Info {
	p := h.curFrame()
	hdr := p.header() // re-decoded from buf: reflects any mutation already applied

	currEntry := 0
	if p.curr != noCurr {
		currEntry = p.curr
	}

	return Info{
		CurrEntry:  currEntry,
		NumEntries: int(hdr.entries),
		MaxEntries: int(hdr.max),
		BytesAvail: (int(hdr.max) - int(hdr.entries)) * recordSize,

		CurrLevel: h.level,
		MaxDepth:  h.maxDepth,

		MaxLblk:      MaxLogicalBlock,
		MaxPblk:      MaxPhysicalBlock,
		MaxLen:       MaxInitializedLength,
		MaxUninitLen: MaxUninitializedLength,
	}
}
