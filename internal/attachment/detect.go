package attachment

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// genericContentType is the declared type browsers send when they have no
// better idea. It triggers detection.
const genericContentType = "application/octet-stream"

// sniffLen is how many leading bytes are kept for signature detection.
const sniffLen = 3072

// ResolveContentType returns the effective content type of an upload. A
// specific declared type wins. When the declared type is empty or the
// generic octet-stream, the filename extension is consulted first and the
// payload signature second.
func ResolveContentType(declared, filename string, head []byte) string {
	ct := strings.TrimSpace(declared)
	if ct != "" && ct != genericContentType {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
		return ct
	}

	if ext := path.Ext(filename); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			if mt, _, err := mime.ParseMediaType(byExt); err == nil {
				return mt
			}
			return byExt
		}
	}

	if len(head) > 0 {
		return mimetype.Detect(head).String()
	}

	return genericContentType
}
