package extent

import "encoding/binary"

// Fixed byte offsets within an on-disk ext4 inode record, matching the
// layout used across the pack (masahiro331-go-ext4-filesystem's Inode
// struct, pilat-ext4's Inode struct field order). Only the fields the
// extent engine needs are named here; the rest of the inode is opaque to
// this package.
const (
	inodeOffFlags     = 32 // i_flags, 32-bit
	inodeOffBlock     = 40 // i_block, 60 bytes: the extent tree root region
	inodeOffSizeHigh  = 108
	inodeOffSizeLo    = 4
	inodeBlockRegionLen = 60
)

// InodeFlagExtents is EXT4_EXTENTS_FL: set when the inode's i_block region
// holds an extent tree root rather than direct/indirect block pointers.
const InodeFlagExtents uint32 = 0x00080000

func inodeFlags(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[inodeOffFlags : inodeOffFlags+4])
}

func inodeBlockRegion(buf []byte) []byte {
	return buf[inodeOffBlock : inodeOffBlock+inodeBlockRegionLen]
}

// inodeSizeBlocks returns ceil(i_size / blockSize), the exclusive upper
// bound on logical blocks used to seed the root frame's end_blk.
func inodeSizeBlocks(buf []byte, blockSize uint32) uint64 {
	sizeLo := binary.LittleEndian.Uint32(buf[inodeOffSizeLo : inodeOffSizeLo+4])
	sizeHigh := binary.LittleEndian.Uint32(buf[inodeOffSizeHigh : inodeOffSizeHigh+4])
	size := uint64(sizeHigh)<<32 | uint64(sizeLo)
	return (size + uint64(blockSize) - 1) / uint64(blockSize)
}
