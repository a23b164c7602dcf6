package imagefs

import (
	"fmt"
	"os"
)

// ImageOption is a functional option for configuring Image creation,
// mirroring the shape of the original ext4 image builder's ImageOption.
type ImageOption func(*Image) error

// WithFilePath backs the image with a regular file, created/truncated at
// Open time.
func WithFilePath(path string) ImageOption {
	return func(img *Image) error {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("imagefs: open image file %s: %w", path, err)
		}
		img.backend = &fileBackend{f: f}
		return nil
	}
}

// WithMemoryBackend backs the image with an in-memory buffer. Useful for
// tests and benchmarks that want to avoid disk I/O.
func WithMemoryBackend() ImageOption {
	return func(img *Image) error {
		img.backend = &memoryBackend{}
		return nil
	}
}

// WithSizeInMB sets the total image size in megabytes.
func WithSizeInMB(sizeMB int) ImageOption {
	return func(img *Image) error {
		img.sizeBytes = uint64(sizeMB) * 1024 * 1024
		return nil
	}
}

// WithCreatedAt sets the superblock creation timestamp (seconds since the
// epoch), recorded but not otherwise interpreted.
func WithCreatedAt(createdAt uint32) ImageOption {
	return func(img *Image) error {
		img.createdAt = createdAt
		return nil
	}
}

// WithBlockSize overrides the default 4096-byte block size. Must be a
// power of two.
func WithBlockSize(size uint32) ImageOption {
	return func(img *Image) error {
		if size == 0 || size&(size-1) != 0 {
			return fmt.Errorf("imagefs: block size %d is not a power of two", size)
		}
		img.blockSize = size
		return nil
	}
}

// WithInodeCount overrides the default inode table size.
func WithInodeCount(count uint32) ImageOption {
	return func(img *Image) error {
		img.inodeCount = count
		return nil
	}
}

// ReadOnly opens the image for metadata reads only; Writable() reports
// false and mutation operations are rejected upstream.
func ReadOnly() ImageOption {
	return func(img *Image) error {
		img.readOnly = true
		return nil
	}
}

// AsImageMode marks the handle as operating in image mode: descents that
// would read through the data channel instead synthesize a zero-filled
// child buffer.
func AsImageMode() ImageOption {
	return func(img *Image) error {
		img.imageMode = true
		return nil
	}
}
