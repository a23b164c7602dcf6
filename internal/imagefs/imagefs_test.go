package imagefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDefaultsFormatMemoryImage(t *testing.T) {
	img, err := Open()
	require.NoError(t, err)

	assert.Equal(t, uint32(defaultBlockSize), img.BlockSize())
	assert.Equal(t, uint32(defaultInodeSize), img.InodeSize())
	assert.Equal(t, uint64(defaultInodeCount), img.InodeCount())
	assert.True(t, img.Writable())
	assert.False(t, img.ImageMode())

	sb, err := img.readSuperblock()
	require.NoError(t, err)
	assert.Equal(t, uint32(sbMagic), sb.Magic)
	assert.Equal(t, img.firstDataBlk, sb.NextFreeBlock)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	img, err := Open(
		WithMemoryBackend(),
		WithBlockSize(1024),
		WithInodeCount(8),
		WithSizeInMB(1),
		WithCreatedAt(12345),
	)
	require.NoError(t, err)

	assert.Equal(t, uint32(1024), img.BlockSize())
	assert.Equal(t, uint64(8), img.InodeCount())
	assert.Equal(t, uint32(12345), img.createdAt)
}

func TestWithBlockSizeRejectsNonPowerOfTwo(t *testing.T) {
	_, err := Open(WithBlockSize(1000))
	assert.Error(t, err)
}

func TestInodeReadWriteRoundTrip(t *testing.T) {
	img, err := Open(WithMemoryBackend())
	require.NoError(t, err)

	want := make([]byte, img.InodeSize())
	for i := range want {
		want[i] = byte(i)
	}
	require.NoError(t, img.WriteInodeFull(1, want))

	got := make([]byte, img.InodeSize())
	require.NoError(t, img.ReadInodeFull(1, got))
	assert.Equal(t, want, got)
}

func TestInodeOffsetRejectsOutOfRange(t *testing.T) {
	img, err := Open(WithMemoryBackend(), WithInodeCount(4))
	require.NoError(t, err)

	_, err = img.inodeOffset(0)
	assert.Error(t, err)
	_, err = img.inodeOffset(5)
	assert.Error(t, err)

	off, err := img.inodeOffset(1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, off, int64(0))
}

func TestBlockReadWriteRoundTrip(t *testing.T) {
	img, err := Open(WithMemoryBackend())
	require.NoError(t, err)

	blk, err := img.AllocateBlock()
	require.NoError(t, err)

	want := make([]byte, img.BlockSize())
	for i := range want {
		want[i] = byte(i % 251)
	}
	require.NoError(t, img.WriteBlock(uint64(blk), want))

	got := make([]byte, img.BlockSize())
	require.NoError(t, img.ReadBlock(uint64(blk), got))
	assert.Equal(t, want, got)
}

func TestAllocateBlockAdvancesAndPersists(t *testing.T) {
	img, err := Open(WithMemoryBackend())
	require.NoError(t, err)

	first, err := img.AllocateBlock()
	require.NoError(t, err)
	second, err := img.AllocateBlock()
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	sb, err := img.readSuperblock()
	require.NoError(t, err)
	assert.Equal(t, second+1, sb.NextFreeBlock)
}

func TestAllocateBlockFailsWhenOutOfSpace(t *testing.T) {
	img, err := Open(WithMemoryBackend(), WithBlockSize(512), WithInodeCount(1))
	require.NoError(t, err)

	img.nextFreeBlock = img.totalBlocks

	_, err = img.AllocateBlock()
	assert.Error(t, err)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	img, err := Open(WithMemoryBackend(), ReadOnly())
	require.NoError(t, err)

	assert.False(t, img.Writable())
	_, err = img.AllocateBlock()
	assert.Error(t, err)
	assert.Error(t, img.WriteInodeFull(1, make([]byte, img.InodeSize())))
	assert.Error(t, img.WriteBlock(0, make([]byte, img.BlockSize())))
}

func TestFilePathBacksImageWithRealFile(t *testing.T) {
	dir := t.TempDir()
	img, err := Open(WithFilePath(dir+"/image.bin"), WithSizeInMB(1))
	require.NoError(t, err)
	defer img.Close()

	blk, err := img.AllocateBlock()
	require.NoError(t, err)
	assert.Greater(t, blk, uint32(0))

	require.NoError(t, img.Sync())
}

func TestSyncOnMemoryBackendIsNoop(t *testing.T) {
	img, err := Open(WithMemoryBackend())
	require.NoError(t, err)
	assert.NoError(t, img.Sync())
}

func TestAsImageModeSetsFlag(t *testing.T) {
	img, err := Open(WithMemoryBackend(), AsImageMode())
	require.NoError(t, err)
	assert.True(t, img.ImageMode())
}
