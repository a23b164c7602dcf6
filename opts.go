package extent

import "go.uber.org/zap"

// OpenOption is a functional option for Open, following the same pattern
// the image builder uses for its own ImageOption.
type OpenOption func(*Handle)

// WithLogger attaches a structured logger to the handle. Traversal and
// mutation steps are traced at zap.DebugLevel. The default is a no-op
// logger.
func WithLogger(log *zap.Logger) OpenOption {
	return func(h *Handle) {
		if log != nil {
			h.log = log
		}
	}
}
