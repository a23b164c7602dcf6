// Package imagefs provides a minimal, self-contained ext4-style block and
// inode store: enough superblock, inode-table and bump-pointer block
// allocation to give the extent-tree engine (package extent) a real
// Filesystem to run against in the extentctl CLI. It does not
// implement directories, extended attributes, or any other extN feature —
// those are out of scope for exercising the extent engine.
package imagefs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	defaultBlockSize  = 4096
	defaultInodeSize  = 128
	defaultInodeCount = 64
	sbMagic           = 0x5458_4e1a // imagefs's own superblock magic
	sbBlockNo         = 0
)

// onDiskSuperblock is the block-0 layout, encoded/decoded as one struct via
// binary.Write/Read, the way the original image builder wrote its
// superblock in one shot.
type onDiskSuperblock struct {
	Magic          uint32
	BlockSize      uint32
	InodeSize      uint32
	InodeCount     uint32
	InodeTableBlk  uint32
	InodeTableLen  uint32
	FirstDataBlock uint32
	NextFreeBlock  uint32
	TotalBlocks    uint32
	CreatedAt      uint32
}

// Image is a bump-allocated ext4-style block/inode store. It implements
// extent.Filesystem, so a *extent.Handle can be opened directly against it.
type Image struct {
	backend diskBackend

	blockSize  uint32
	inodeSize  uint32
	inodeCount uint32
	sizeBytes  uint64
	createdAt  uint32
	readOnly   bool
	imageMode  bool

	inodeTableBlk uint32
	inodeTableLen uint32
	firstDataBlk  uint32
	nextFreeBlock uint32
	totalBlocks   uint32
}

// Open creates and formats a fresh image, applying opts in order. It always
// starts from a zeroed backend: there is no notion of opening a previously
// formatted image, matching the original builder's PrepareFilesystem model.
func Open(opts ...ImageOption) (*Image, error) {
	img := &Image{
		blockSize:  defaultBlockSize,
		inodeSize:  defaultInodeSize,
		inodeCount: defaultInodeCount,
		sizeBytes:  16 * 1024 * 1024,
	}
	for _, opt := range opts {
		if err := opt(img); err != nil {
			return nil, err
		}
	}
	if img.backend == nil {
		img.backend = &memoryBackend{}
	}
	if err := img.format(); err != nil {
		return nil, fmt.Errorf("imagefs: format: %w", err)
	}
	return img, nil
}

func (img *Image) format() error {
	if err := img.backend.truncate(int64(img.sizeBytes)); err != nil {
		return err
	}

	inodeTableBytes := uint64(img.inodeCount) * uint64(img.inodeSize)
	inodeTableBlocks := (inodeTableBytes + uint64(img.blockSize) - 1) / uint64(img.blockSize)

	img.inodeTableBlk = 1
	img.inodeTableLen = uint32(inodeTableBlocks)
	img.firstDataBlk = img.inodeTableBlk + img.inodeTableLen
	img.nextFreeBlock = img.firstDataBlk
	img.totalBlocks = uint32(img.sizeBytes / uint64(img.blockSize))

	if img.firstDataBlk >= img.totalBlocks {
		return fmt.Errorf("image too small: %d blocks, need at least %d for inode table", img.totalBlocks, img.firstDataBlk+1)
	}

	zero := make([]byte, img.blockSize)
	for b := uint32(0); b < img.totalBlocks; b++ {
		if err := img.backend.writeAt(zero, int64(b)*int64(img.blockSize)); err != nil {
			return err
		}
	}

	return img.writeSuperblock()
}

func (img *Image) writeSuperblock() error {
	sb := onDiskSuperblock{
		Magic:          sbMagic,
		BlockSize:      img.blockSize,
		InodeSize:      img.inodeSize,
		InodeCount:     img.inodeCount,
		InodeTableBlk:  img.inodeTableBlk,
		InodeTableLen:  img.inodeTableLen,
		FirstDataBlock: img.firstDataBlk,
		NextFreeBlock:  img.nextFreeBlock,
		TotalBlocks:    img.totalBlocks,
		CreatedAt:      img.createdAt,
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, sb); err != nil {
		return fmt.Errorf("encode superblock: %w", err)
	}

	block := make([]byte, img.blockSize)
	copy(block, buf.Bytes())
	return img.backend.writeAt(block, sbBlockNo*int64(img.blockSize))
}

func (img *Image) readSuperblock() (onDiskSuperblock, error) {
	block := make([]byte, img.blockSize)
	if err := img.backend.readAt(block, sbBlockNo*int64(img.blockSize)); err != nil {
		return onDiskSuperblock{}, err
	}
	var sb onDiskSuperblock
	if err := binary.Read(bytes.NewReader(block), binary.LittleEndian, &sb); err != nil {
		return onDiskSuperblock{}, fmt.Errorf("decode superblock: %w", err)
	}
	if sb.Magic != sbMagic {
		return onDiskSuperblock{}, fmt.Errorf("bad superblock magic %#x", sb.Magic)
	}
	return sb, nil
}

// AllocateBlock hands out the next free block by bumping a pointer kept in
// the superblock, the same freeRun-less fast path the original builder's
// allocateFreshBlocks fell back to once its free list was exhausted. There
// is no free-list reuse: freed blocks are never reclaimed, which is fine
// for the short-lived images tests and extentctl build.
func (img *Image) AllocateBlock() (uint32, error) {
	if img.readOnly {
		return 0, fmt.Errorf("imagefs: image is read-only")
	}
	if img.nextFreeBlock >= img.totalBlocks {
		return 0, fmt.Errorf("imagefs: out of space (%d blocks)", img.totalBlocks)
	}
	blk := img.nextFreeBlock
	img.nextFreeBlock++
	if err := img.writeSuperblock(); err != nil {
		return 0, err
	}
	return blk, nil
}

// --- extent.Filesystem ---

func (img *Image) BlockSize() uint32 { return img.blockSize }

func (img *Image) ReadBlock(blockNo uint64, buf []byte) error {
	if uint32(len(buf)) != img.blockSize {
		return fmt.Errorf("imagefs: ReadBlock buffer size %d != block size %d", len(buf), img.blockSize)
	}
	if blockNo >= uint64(img.totalBlocks) {
		return fmt.Errorf("imagefs: block %d out of range (%d total)", blockNo, img.totalBlocks)
	}
	return img.backend.readAt(buf, int64(blockNo)*int64(img.blockSize))
}

func (img *Image) WriteBlock(blockNo uint64, buf []byte) error {
	if img.readOnly {
		return fmt.Errorf("imagefs: image is read-only")
	}
	if uint32(len(buf)) != img.blockSize {
		return fmt.Errorf("imagefs: WriteBlock buffer size %d != block size %d", len(buf), img.blockSize)
	}
	if blockNo >= uint64(img.totalBlocks) {
		return fmt.Errorf("imagefs: block %d out of range (%d total)", blockNo, img.totalBlocks)
	}
	return img.backend.writeAt(buf, int64(blockNo)*int64(img.blockSize))
}

func (img *Image) InodeSize() uint32 { return img.inodeSize }

func (img *Image) InodeCount() uint64 { return uint64(img.inodeCount) }

func (img *Image) inodeOffset(ino uint64) (int64, error) {
	if ino == 0 || ino > uint64(img.inodeCount) {
		return 0, fmt.Errorf("imagefs: inode %d out of range (1..%d)", ino, img.inodeCount)
	}
	tableOff := int64(img.inodeTableBlk) * int64(img.blockSize)
	return tableOff + int64(ino-1)*int64(img.inodeSize), nil
}

func (img *Image) ReadInodeFull(ino uint64, buf []byte) error {
	if uint32(len(buf)) != img.inodeSize {
		return fmt.Errorf("imagefs: ReadInodeFull buffer size %d != inode size %d", len(buf), img.inodeSize)
	}
	off, err := img.inodeOffset(ino)
	if err != nil {
		return err
	}
	return img.backend.readAt(buf, off)
}

func (img *Image) WriteInodeFull(ino uint64, buf []byte) error {
	if img.readOnly {
		return fmt.Errorf("imagefs: image is read-only")
	}
	if uint32(len(buf)) != img.inodeSize {
		return fmt.Errorf("imagefs: WriteInodeFull buffer size %d != inode size %d", len(buf), img.inodeSize)
	}
	off, err := img.inodeOffset(ino)
	if err != nil {
		return err
	}
	return img.backend.writeAt(buf, off)
}

func (img *Image) Writable() bool { return !img.readOnly }

func (img *Image) ImageMode() bool { return img.imageMode }

// Close releases the underlying backend.
func (img *Image) Close() error { return img.backend.close() }

// Sync flushes the backend, when it supports it.
func (img *Image) Sync() error { return img.backend.sync() }
