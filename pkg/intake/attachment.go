package intake

import (
	"errors"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/model"
)

// MaxAttachmentSize is the upper bound for a single attached file
const MaxAttachmentSize = 5 << 20 // 5 MiB

// ErrAttachmentTooLarge is returned for files over MaxAttachmentSize
var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

// NewAttachment validates an uploaded file's metadata and assigns it a
// collision-free stored reference. The original filename is kept for
// display; the extension carries over to the stored reference.
func NewAttachment(filename string, size int64) (*model.Attachment, error) {
	if filename == "" {
		return nil, goerr.New("attachment filename is required")
	}
	if size < 0 {
		return nil, goerr.New("attachment size is negative", goerr.V("size", size))
	}
	if size > MaxAttachmentSize {
		return nil, goerr.Wrap(ErrAttachmentTooLarge, "attachment rejected",
			goerr.V("filename", filename),
			goerr.V("size", size),
			goerr.V("limit", MaxAttachmentSize))
	}

	return &model.Attachment{
		Filename:  filename,
		StoredRef: uuid.NewString() + filepath.Ext(filename),
		Size:      size,
	}, nil
}
