package extent

import (
	"encoding/binary"
	"fmt"
)

// fakeFS is a minimal in-memory Filesystem used to exercise the engine
// without imagefs: a fixed block size, a map of inode number to inode
// bytes, and a plain map of block number to bytes.
type fakeFS struct {
	blockSize  uint32
	inodeSize  uint32
	inodeCount uint64
	writable   bool
	imageMode  bool

	inodes map[uint64][]byte
	blocks map[uint64][]byte
}

func newFakeFS(blockSize, inodeSize uint32) *fakeFS {
	return &fakeFS{
		blockSize:  blockSize,
		inodeSize:  inodeSize,
		inodeCount: 16,
		writable:   true,
		inodes:     make(map[uint64][]byte),
		blocks:     make(map[uint64][]byte),
	}
}

func (f *fakeFS) BlockSize() uint32 { return f.blockSize }

func (f *fakeFS) ReadBlock(blockNo uint64, buf []byte) error {
	b, ok := f.blocks[blockNo]
	if !ok {
		return fmt.Errorf("fakeFS: block %d not written", blockNo)
	}
	copy(buf, b)
	return nil
}

func (f *fakeFS) WriteBlock(blockNo uint64, buf []byte) error {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.blocks[blockNo] = cp
	return nil
}

func (f *fakeFS) InodeSize() uint32 { return f.inodeSize }

func (f *fakeFS) InodeCount() uint64 { return f.inodeCount }

func (f *fakeFS) ReadInodeFull(ino uint64, buf []byte) error {
	b, ok := f.inodes[ino]
	if !ok {
		return fmt.Errorf("fakeFS: inode %d not written", ino)
	}
	copy(buf, b)
	return nil
}

func (f *fakeFS) WriteInodeFull(ino uint64, buf []byte) error {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.inodes[ino] = cp
	return nil
}

func (f *fakeFS) Writable() bool { return f.writable }

func (f *fakeFS) ImageMode() bool { return f.imageMode }

func putHeader(buf []byte, entries, max, depth uint16) {
	encodeHeader(buf, header{magic: headerMagic, entries: entries, max: max, depth: depth})
}

func putLeaf(buf []byte, i int, lblk uint32, pblk uint64, length uint16) {
	encodeExtentRec(buf[recordOffset(i):], extentRec{
		block:   lblk,
		length:  length,
		startHi: uint16(pblk >> 32),
		start:   uint32(pblk),
	})
}

func putIndex(buf []byte, i int, lblk uint32, child uint64) {
	encodeIndexRec(buf[recordOffset(i):], indexRec{
		block:  lblk,
		leaf:   uint32(child),
		leafHi: uint16(child >> 32),
	})
}

// newSingleLeafFS builds a fakeFS with inode 1 holding a depth-0 root tree
// with one leaf extent (0, 100, 8).
func newSingleLeafFS() (*fakeFS, uint64) {
	fs := newFakeFS(1024, 160)
	inodeBuf := make([]byte, fs.inodeSize)
	binary.LittleEndian.PutUint32(inodeBuf[inodeOffFlags:], InodeFlagExtents)
	binary.LittleEndian.PutUint32(inodeBuf[inodeOffSizeLo:], 8*fs.blockSize)

	root := inodeBlockRegion(inodeBuf)
	putHeader(root, 1, 4, 0)
	putLeaf(root, 0, 0, 100, 8)

	fs.inodes[1] = inodeBuf
	return fs, 1
}

// newTwoLevelFS builds inode 1 with a depth-1 root over two leaf blocks,
// matching scenario 3: leaves at lblk 0,4,16,24 with lengths 4,8,8,8,
// leaving a real hole at [12,16).
func newTwoLevelFS() (*fakeFS, uint64) {
	fs := newFakeFS(1024, 160)
	inodeBuf := make([]byte, fs.inodeSize)
	binary.LittleEndian.PutUint32(inodeBuf[inodeOffFlags:], InodeFlagExtents)
	binary.LittleEndian.PutUint32(inodeBuf[inodeOffSizeLo:], 32*fs.blockSize)

	leafCap := (int(fs.blockSize) - headerSize) / recordSize

	leafA := make([]byte, fs.blockSize)
	putHeader(leafA, 2, uint16(leafCap), 0)
	putLeaf(leafA, 0, 0, 500, 4)
	putLeaf(leafA, 1, 4, 504, 8)
	fs.blocks[10] = leafA

	leafB := make([]byte, fs.blockSize)
	putHeader(leafB, 2, uint16(leafCap), 0)
	putLeaf(leafB, 0, 16, 600, 8)
	putLeaf(leafB, 1, 24, 608, 8)
	fs.blocks[20] = leafB

	root := inodeBlockRegion(inodeBuf)
	putHeader(root, 2, 4, 1)
	putIndex(root, 0, 0, 10)
	putIndex(root, 1, 16, 20)

	fs.inodes[1] = inodeBuf
	return fs, 1
}
