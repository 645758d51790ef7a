package safe

import (
	"context"
	"io"

	"github.com/civic-lab/partes/pkg/utils/logging"
)

// Close closes the closer and logs a failure instead of returning it,
// for deferred cleanup where the error has nowhere to go. A nil closer
// is a no-op.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err)
	}
}
