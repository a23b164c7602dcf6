package extent

import "fmt"

// InsertAfter, when passed to Handle.Insert, positions the new record
// after the cursor instead of before it.
const InsertAfter uint32 = 1 << 0

// Replace overwrites the cursor's record in place and writes the owning
// frame back. At a leaf the full (lblk, pblk, len) tuple is written; at an
// interior node only (lblk, pblk) are written and ei_unused is zeroed. No
// reordering or range checking is performed against sibling records.
func (h *Handle) Replace(e Extent) error {
	if !h.fs.Writable() {
		return ErrReadOnly
	}
	if h.curFrame().curr == noCurr {
		return ErrNoCurrentNode
	}
	h.applyReplace(e)
	if err := h.writeBack(); err != nil {
		return err
	}
	traceExtent(h.log, "extent: replace", e)
	return nil
}

// applyReplace edits the current frame's record bytes without touching
// the header or issuing any I/O.
func (h *Handle) applyReplace(e Extent) {
	p := h.curFrame()
	if h.level == h.maxDepth {
		encodeExtentRec(p.currBytes(), extentRec{
			block:   uint32(e.ELblk),
			length:  uint16(e.ELen),
			start:   uint32(e.EPblk & 0xFFFFFFFF),
			startHi: uint16(e.EPblk >> 32),
		})
	} else {
		encodeIndexRec(p.currBytes(), indexRec{
			block:  uint32(e.ELblk),
			leaf:   uint32(e.EPblk & 0xFFFFFFFF),
			leafHi: uint16(e.EPblk >> 32),
		})
	}
}

// Insert inserts one record before (or, with InsertAfter, after) the
// cursor, shifting the tail of the frame right by one slot. On write-back
// failure the insert is rolled back by calling Delete; Delete's own error
// from that rollback is discarded and the original write-back error is
// returned, mirroring the classic ext2fs_extent_insert rollback path.
func (h *Handle) Insert(flags uint32, e Extent) error {
	if !h.fs.Writable() {
		return ErrReadOnly
	}

	p := h.curFrame()
	if p.entries >= p.maxEntries {
		return ErrCantInsert
	}

	newIdx := 0
	if p.curr != noCurr {
		newIdx = p.curr
		if flags&InsertAfter != 0 {
			newIdx++
			p.left--
		}
	}
	p.curr = newIdx

	for i := p.curr + p.left; i >= p.curr; i-- {
		copy(p.recordBytes(i+1), p.recordBytes(i))
	}
	p.left++
	p.setEntryCount(p.entries + 1)

	h.applyReplace(e)

	if err := h.writeBack(); err != nil {
		_ = h.Delete()
		return err
	}

	traceExtent(h.log, "extent: insert", e)
	return nil
}

// Delete removes the cursor's record, shifting the tail left by one slot,
// and writes the owning frame back.
func (h *Handle) Delete() error {
	if !h.fs.Writable() {
		return ErrReadOnly
	}

	p := h.curFrame()
	if p.curr == noCurr {
		return ErrNoCurrentNode
	}

	if p.left > 0 {
		for i := p.curr; i < p.curr+p.left; i++ {
			copy(p.recordBytes(i), p.recordBytes(i+1))
		}
		p.left--
	} else {
		p.curr--
	}

	p.setEntryCount(p.entries - 1)
	if p.entries == 0 {
		p.curr = noCurr
	}

	if err := h.writeBack(); err != nil {
		return err
	}
	h.log.Debug("extent: delete")
	return nil
}

// writeBack persists the current frame: the whole inode when at the root,
// or one filesystem block otherwise, using the parent frame's current
// index record to supply the block address.
func (h *Handle) writeBack() error {
	if h.level == 0 {
		if err := h.fs.WriteInodeFull(h.ino, h.inodeBuf); err != nil {
			return fmt.Errorf("extent: write inode %d: %w", h.ino, err)
		}
		return nil
	}

	parent := &h.frames[h.level-1]
	idx := decodeIndexRec(parent.currBytes())
	blk := idx.child()
	if err := h.fs.WriteBlock(blk, h.curFrame().buf); err != nil {
		return fmt.Errorf("extent: write block %d: %w", blk, err)
	}
	return nil
}
