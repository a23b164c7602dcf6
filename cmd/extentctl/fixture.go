package main

import (
	"encoding/binary"
	"fmt"

	"github.com/gofs/ext4extent/internal/imagefs"
)

const (
	demoInode   = 1
	extHdrMagic = 0xf30a
	extentsFlag = 0x00080000
)

func putHeader(buf []byte, entries, max, depth uint16) {
	binary.LittleEndian.PutUint16(buf[0:2], extHdrMagic)
	binary.LittleEndian.PutUint16(buf[2:4], entries)
	binary.LittleEndian.PutUint16(buf[4:6], max)
	binary.LittleEndian.PutUint16(buf[6:8], depth)
	binary.LittleEndian.PutUint32(buf[8:12], 0)
}

func putLeafRecord(buf []byte, off int, lblk uint32, pblk uint64, length uint16) {
	binary.LittleEndian.PutUint32(buf[off:off+4], lblk)
	binary.LittleEndian.PutUint16(buf[off+4:off+6], length)
	binary.LittleEndian.PutUint16(buf[off+6:off+8], uint16(pblk>>32))
	binary.LittleEndian.PutUint32(buf[off+8:off+12], uint32(pblk))
}

func putIndexRecord(buf []byte, off int, lblk uint32, child uint64) {
	binary.LittleEndian.PutUint32(buf[off:off+4], lblk)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], uint32(child))
	binary.LittleEndian.PutUint16(buf[off+8:off+10], uint16(child>>32))
	binary.LittleEndian.PutUint16(buf[off+10:off+12], 0)
}

// buildDemoImage formats a fresh in-memory image and writes inode 1 with a
// hand-crafted extent tree: a single leaf when twoLevel is false, or a
// depth-1 tree with two index records over two leaf blocks when true.
func buildDemoImage(twoLevel bool) (*imagefs.Image, error) {
	img, err := imagefs.Open(imagefs.WithMemoryBackend(), imagefs.WithSizeInMB(4))
	if err != nil {
		return nil, fmt.Errorf("format demo image: %w", err)
	}

	inode := make([]byte, img.InodeSize())
	binary.LittleEndian.PutUint32(inode[32:36], extentsFlag) // i_flags
	binary.LittleEndian.PutUint32(inode[4:8], 32*4096)        // i_size_lo

	root := inode[40:100] // i_block, 60 bytes

	if !twoLevel {
		putHeader(root, 1, 4, 0)
		putLeafRecord(root, 12, 0, 100, 8)
	} else {
		blkA, err := img.AllocateBlock()
		if err != nil {
			return nil, err
		}
		blkB, err := img.AllocateBlock()
		if err != nil {
			return nil, err
		}

		leafA := make([]byte, img.BlockSize())
		putHeader(leafA, 2, uint16((img.BlockSize()-12)/12), 0)
		putLeafRecord(leafA, 12, 0, 200, 4)
		putLeafRecord(leafA, 24, 4, 204, 12)
		if err := img.WriteBlock(uint64(blkA), leafA); err != nil {
			return nil, err
		}

		leafB := make([]byte, img.BlockSize())
		putHeader(leafB, 2, uint16((img.BlockSize()-12)/12), 0)
		putLeafRecord(leafB, 12, 16, 300, 8)
		putLeafRecord(leafB, 24, 24, 308, 8)
		if err := img.WriteBlock(uint64(blkB), leafB); err != nil {
			return nil, err
		}

		putHeader(root, 2, 4, 1)
		putIndexRecord(root, 12, 0, uint64(blkA))
		putIndexRecord(root, 24, 16, uint64(blkB))
	}

	if err := img.WriteInodeFull(demoInode, inode); err != nil {
		return nil, err
	}
	return img, nil
}
