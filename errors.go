package extent

import "errors"

// Sentinel errors signaled by the engine, matching the error kinds an
// ext2fs-family implementation must surface. Wrap with fmt.Errorf("...: %w", ...)
// for context; test with errors.Is.
var (
	ErrBadInodeNum    = errors.New("extent: inode number out of range")
	ErrInodeNotExtent = errors.New("extent: inode does not use extents")
	ErrHeaderBad      = errors.New("extent: header magic, entry count, or capacity invalid")
	ErrNoCurrentNode  = errors.New("extent: no current node")
	ErrNoNext         = errors.New("extent: no next entry")
	ErrNoPrev         = errors.New("extent: no previous entry")
	ErrNoUp           = errors.New("extent: already at root")
	ErrNoDown         = errors.New("extent: cannot descend")
	ErrNotFound       = errors.New("extent: logical block not found")
	ErrCantInsert     = errors.New("extent: node is full")
	ErrReadOnly       = errors.New("extent: filesystem is read-only")
	ErrOpNotSupported = errors.New("extent: unsupported operation code")
)
