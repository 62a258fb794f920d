package attachment

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Upload is the raw intake shape accepted by the lifecycle manager. It
// covers both structured form uploads and in-memory buffers. Size is the
// declared length; the staged byte count is authoritative after Assign.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FromMultipart adapts a parsed multipart file part. The returned upload
// owns the opened part; Assign closes it after staging.
func FromMultipart(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open multipart file: %w", err)
	}
	return Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}

// FromBytes wraps an in-memory buffer.
func FromBytes(filename, contentType string, data []byte) Upload {
	return Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
}
