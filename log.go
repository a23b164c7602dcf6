package extent

import "go.uber.org/zap"

// Structured-logging replacement for the classic ext2fs debugfs build's
// #ifdef DEBUG dbg_printf/dbg_show_header/dbg_show_index/dbg_show_extent
// family: every place that narrated header/record/operation state now
// emits a zap.Debug with structured fields. A Handle with no logger
// configured uses a no-op logger, so these calls cost a level check and
// nothing else.

func traceHeader(log *zap.Logger, h header) {
	log.Debug("extent: header",
		zap.Uint16("magic", h.magic),
		zap.Uint16("entries", h.entries),
		zap.Uint16("max", h.max),
		zap.Uint16("depth", h.depth),
		zap.Uint32("generation", h.generation),
	)
}

func traceOp(log *zap.Logger, orig, dispatched Op, level int) {
	log.Debug("extent: dispatch",
		zap.Stringer("requested", orig),
		zap.Stringer("op", dispatched),
		zap.Int("level", level),
	)
}

func traceExtent(log *zap.Logger, desc string, e Extent) {
	log.Debug(desc,
		zap.Uint64("lblk", e.ELblk),
		zap.Uint64("pblk", e.EPblk),
		zap.Uint64("len", e.ELen),
		zap.Bool("leaf", e.IsLeaf()),
		zap.Bool("uninit", e.IsUninit()),
		zap.Bool("second_visit", e.IsSecondVisit()),
	)
}
