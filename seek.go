package extent

import "errors"

// Goto positions the cursor on the leaf containing logical block blk, or,
// if blk falls in a hole, on the nearest preceding leaf while reporting
// ErrNotFound. On the hole path it issues a PREV_SIB purely for that
// positional side effect and discards its error, matching classic
// ext2fs_extent_goto's behavior on a hole.
func (h *Handle) Goto(blk uint64) error {
	ext, err := h.Get(OpRoot)
	if err != nil {
		return err
	}

	for {
		if h.level == h.maxDepth {
			if blk >= ext.ELblk && blk < ext.End() {
				return nil
			}
			if blk < ext.ELblk {
				_, _ = h.Get(OpPrevSib)
				return ErrNotFound
			}
			ext, err = h.Get(OpNextSib)
			if err != nil {
				if errors.Is(err, ErrNoNext) {
					return ErrNotFound
				}
				return err
			}
			continue
		}

		descend := false
		next, err := h.Get(OpNextSib)
		switch {
		case err == nil:
			ext = next
			switch {
			case blk == ext.ELblk:
				descend = true
			case blk > ext.ELblk:
				continue
			default:
				ext, err = h.Get(OpPrevSib)
				if err != nil {
					return err
				}
				descend = true
			}
		case errors.Is(err, ErrNoNext):
			descend = true
		default:
			return err
		}

		if descend {
			ext, err = h.Get(OpDown)
			if err != nil {
				return err
			}
		}
	}
}
