package extent

import (
	"fmt"

	"go.uber.org/zap"
)

// rootRegionSize is the size in bytes of the inode's i_block extent-tree
// root region.
const rootRegionSize = 60

// Handle is a tree-level cursor over one inode's extent tree: it owns the
// inode copy, a path frame per depth level, the current level, and the
// tree's maximum depth. Frame 0's buf aliases the inode copy's i_block
// region via ordinary Go slice aliasing, so writes through frame 0 are
// writes into the inode buffer without a separate view type.
type Handle struct {
	fs       Filesystem
	ino      uint64
	inodeBuf []byte

	magic    uint16
	maxDepth int
	level    int
	frames   []pathFrame

	log *zap.Logger
}

// Open opens a handle on ino's extent tree, per the handle-open sequence:
// range-check ino, read the full inode, verify the extents flag, verify
// the root header, and seed frame 0.
func Open(fs Filesystem, ino uint64, opts ...OpenOption) (*Handle, error) {
	if ino == 0 || ino > fs.InodeCount() {
		return nil, fmt.Errorf("%w: %d", ErrBadInodeNum, ino)
	}

	inodeBuf := make([]byte, fs.InodeSize())
	if err := fs.ReadInodeFull(ino, inodeBuf); err != nil {
		return nil, fmt.Errorf("extent: read inode %d: %w", ino, err)
	}

	if inodeFlags(inodeBuf)&InodeFlagExtents == 0 {
		return nil, fmt.Errorf("%w: inode %d", ErrInodeNotExtent, ino)
	}

	rootBuf := inodeBlockRegion(inodeBuf)
	rootHdr := decodeHeader(rootBuf)
	if err := verifyHeader(rootHdr, rootRegionSize); err != nil {
		return nil, err
	}

	h := &Handle{
		fs:       fs,
		ino:      ino,
		inodeBuf: inodeBuf,
		magic:    rootHdr.magic,
		maxDepth: int(rootHdr.depth),
		level:    0,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.frames = make([]pathFrame, h.maxDepth+1)
	root := &h.frames[0]
	root.buf = rootBuf
	root.resetFromHeader(rootHdr)
	root.visitNum = 1
	root.endBlk = inodeSizeBlocks(inodeBuf, fs.BlockSize())

	traceHeader(h.log, rootHdr)

	return h, nil
}

// Free releases the handle's non-root frame buffers. It is a no-op beyond
// dropping references: there is no external resource to close.
func (h *Handle) Free() {
	h.frames = nil
	h.inodeBuf = nil
}

func (h *Handle) curFrame() *pathFrame { return &h.frames[h.level] }

func (h *Handle) atRoot() bool { return h.level == 0 }

func (h *Handle) atMaxDepth() bool { return h.level == h.maxDepth }
