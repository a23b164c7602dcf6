package extent

import "fmt"

// Op is a cursor operation code accepted by Handle.Get.
type Op int

const (
	OpCurrent Op = iota
	OpRoot
	OpFirstSib
	OpLastSib
	OpNextSib
	OpPrevSib
	OpUp
	OpDown
	OpDownAndLast
	OpNext
	OpPrev
	OpNextLeaf
	OpPrevLeaf
	OpLastLeaf
)

var opNames = [...]string{
	OpCurrent:     "current",
	OpRoot:        "root",
	OpFirstSib:    "first_sib",
	OpLastSib:     "last_sib",
	OpNextSib:     "next_sib",
	OpPrevSib:     "prev_sib",
	OpUp:          "up",
	OpDown:        "down",
	OpDownAndLast: "down_and_last",
	OpNext:        "next",
	OpPrev:        "prev",
	OpNextLeaf:    "next_leaf",
	OpPrevLeaf:    "prev_leaf",
	OpLastLeaf:    "last_leaf",
}

func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// Get is the single traversal entry point: it accepts a cursor operation
// and returns the extent record at the new cursor position. NEXT, PREV,
// NEXT_LEAF, PREV_LEAF and LAST_LEAF are compound moves resolved by
// retrying against the atomic ops (sibling step, descend, ascend) until
// the retry condition for that op is satisfied.
func (h *Handle) Get(origOp Op) (Extent, error) {
	op := origOp

	for {
		p := h.curFrame()

		switch origOp {
		case OpNext, OpNextLeaf:
			if h.level < h.maxDepth {
				switch {
				case p.visitNum == 0:
					p.visitNum++
					op = OpDown
				case p.left > 0:
					op = OpNextSib
				case h.level > 0:
					op = OpUp
				default:
					return Extent{}, ErrNoNext
				}
			} else {
				switch {
				case p.left > 0:
					op = OpNextSib
				case h.level > 0:
					op = OpUp
				default:
					return Extent{}, ErrNoNext
				}
			}
		case OpPrev, OpPrevLeaf:
			if h.level < h.maxDepth {
				switch {
				case p.visitNum > 0:
					op = OpDownAndLast
				case p.left < p.entries-1:
					op = OpPrevSib
				case h.level > 0:
					op = OpUp
				default:
					return Extent{}, ErrNoPrev
				}
			} else {
				switch {
				case p.left < p.entries-1:
					op = OpPrevSib
				case h.level > 0:
					op = OpUp
				default:
					return Extent{}, ErrNoPrev
				}
			}
		case OpLastLeaf:
			if h.level < h.maxDepth && p.left == 0 {
				op = OpDown
			} else {
				op = OpLastSib
			}
		default:
			op = origOp
		}

		traceOp(h.log, origOp, op, h.level)

		if err := h.dispatch(op, origOp); err != nil {
			return Extent{}, err
		}

		ext, err := h.decodeCurrent()
		if err != nil {
			return Extent{}, err
		}

		p = h.curFrame()

		if (origOp == OpNextLeaf || origOp == OpPrevLeaf) && h.level != h.maxDepth {
			continue
		}
		if origOp == OpLastLeaf && (h.level != h.maxDepth || p.left != 0) {
			continue
		}

		return ext, nil
	}
}

// dispatch performs one atomic frame transition. The ROOT/FIRST_SIB/
// NEXT_SIB cases intentionally fall through into one another: ROOT resets
// the level and reseeds frame 0, FIRST_SIB clears the cursor so the shared
// NEXT_SIB step lands it on the first record.
func (h *Handle) dispatch(op, origOp Op) error {
	switch op {
	case OpCurrent:
		return nil
	case OpRoot:
		h.level = 0
		fallthrough
	case OpFirstSib:
		h.doFirstSibSetup()
		fallthrough
	case OpNextSib:
		return h.doNextSib()
	case OpPrevSib:
		return h.doPrevSib()
	case OpLastSib:
		return h.doLastSib()
	case OpUp:
		return h.doUp(origOp)
	case OpDown:
		return h.doDown(false)
	case OpDownAndLast:
		return h.doDown(true)
	default:
		return fmt.Errorf("%w: %v", ErrOpNotSupported, op)
	}
}

func (h *Handle) doFirstSibSetup() {
	p := h.curFrame()
	p.left = p.entries
	p.curr = noCurr
}

func (h *Handle) doNextSib() error {
	p := h.curFrame()
	if p.left <= 0 {
		return ErrNoNext
	}
	if p.curr != noCurr {
		p.curr++
	} else {
		p.curr = 0
	}
	p.left--
	p.visitNum = 0
	return nil
}

func (h *Handle) doPrevSib() error {
	p := h.curFrame()
	if p.curr == noCurr || p.left+1 >= p.entries {
		return ErrNoPrev
	}
	p.curr--
	p.left++
	if h.level < h.maxDepth {
		p.visitNum = 1
	}
	return nil
}

func (h *Handle) doLastSib() error {
	p := h.curFrame()
	if p.entries == 0 {
		return ErrNoCurrentNode
	}
	p.curr = p.entries - 1
	p.left = 0
	p.visitNum = 0
	return nil
}

func (h *Handle) doUp(origOp Op) error {
	if h.level <= 0 {
		return ErrNoUp
	}
	h.level--
	if origOp == OpPrev || origOp == OpPrevLeaf {
		h.curFrame().visitNum = 0
	}
	return nil
}

// doDown descends one level through the current index record, lazily
// allocating and reading the child node. last selects DOWN_AND_LAST
// (position the child at its last record) over DOWN (first record).
func (h *Handle) doDown(last bool) error {
	p := h.curFrame()
	if p.curr == noCurr || h.level >= h.maxDepth {
		return ErrNoDown
	}

	idx := decodeIndexRec(p.currBytes())
	child := idx.child()

	newLevel := h.level + 1
	np := &h.frames[newLevel]
	if np.buf == nil {
		np.buf = make([]byte, h.fs.BlockSize())
	}

	if h.fs.ImageMode() {
		for i := range np.buf {
			np.buf[i] = 0
		}
	} else if err := h.fs.ReadBlock(child, np.buf); err != nil {
		return fmt.Errorf("extent: read block %d: %w", child, err)
	}

	hdr := decodeHeader(np.buf)
	if err := verifyHeader(hdr, int(h.fs.BlockSize())); err != nil {
		return err
	}
	np.resetFromHeader(hdr)

	if p.left > 0 {
		next := decodeIndexRec(p.recordBytes(p.curr + 1))
		np.endBlk = uint64(next.block)
	} else {
		np.endBlk = p.endBlk
	}

	h.level = newLevel
	traceHeader(h.log, hdr)

	if !last {
		np.curr = 0
		np.left = np.entries - 1
		np.visitNum = 0
	} else {
		np.curr = np.entries - 1
		np.left = 0
		if h.level < h.maxDepth {
			np.visitNum = 1
		}
	}
	return nil
}

// decodeCurrent decodes the record at the current cursor position into the
// caller-facing Extent shape.
func (h *Handle) decodeCurrent() (Extent, error) {
	p := h.curFrame()
	if p.curr == noCurr {
		return Extent{}, ErrNoCurrentNode
	}

	var e Extent
	if h.level == h.maxDepth {
		r := decodeExtentRec(p.currBytes())
		e.EPblk = r.physical()
		e.ELblk = uint64(r.block)
		e.ELen = uint64(r.length)
		e.Flags |= FlagLeaf
		if e.ELen > extInitMaxLen {
			e.ELen -= extInitMaxLen
			e.Flags |= FlagUninit
		}
	} else {
		idx := decodeIndexRec(p.currBytes())
		e.EPblk = idx.child()
		e.ELblk = uint64(idx.block)

		var endBlk uint64
		if p.left > 0 {
			next := decodeIndexRec(p.recordBytes(p.curr + 1))
			endBlk = uint64(next.block)
		} else {
			endBlk = p.endBlk
		}
		e.ELen = endBlk - e.ELblk
	}

	if p.visitNum != 0 {
		e.Flags |= FlagSecondVisit
	}

	traceExtent(h.log, "extent: get", e)
	return e, nil
}
