package attachment

import (
	"fmt"
	"strings"
)

// ContentTypeImage is the shorthand that expands to ImageContentTypes.
const ContentTypeImage = "image"

// ImageContentTypes is the fixed set of known image MIME types behind the
// "image" shorthand, including the legacy aliases older browsers send.
var ImageContentTypes = []string{
	"image/jpeg",
	"image/pjpeg",
	"image/jpg",
	"image/gif",
	"image/png",
	"image/x-png",
}

// Default size bounds used when no explicit range is configured.
const (
	DefaultMinSize = int64(1)
	DefaultMaxSize = int64(1 << 20) // 1 MiB
)

// SizeRange is an inclusive byte range.
type SizeRange struct {
	Min int64
	Max int64
}

// Constraints is the per-model constraint set applied before persistence.
// An explicitly configured Size range takes precedence over MinSize/MaxSize;
// otherwise the range is [MinSize, MaxSize] with defaults of 1 byte and
// 1 MiB for unset bounds.
type Constraints struct {
	// ContentTypes is the allowed set. Empty means any type is accepted.
	// The entry "image" expands to ImageContentTypes.
	ContentTypes []string

	MinSize int64
	MaxSize int64
	Size    *SizeRange
}

func (c Constraints) sizeRange() SizeRange {
	if c.Size != nil {
		return *c.Size
	}
	r := SizeRange{Min: c.MinSize, Max: c.MaxSize}
	if r.Min <= 0 {
		r.Min = DefaultMinSize
	}
	if r.Max <= 0 {
		r.Max = DefaultMaxSize
	}
	return r
}

// AllowedContentTypes returns the expanded allowed set, nil when
// unrestricted.
func (c Constraints) AllowedContentTypes() []string {
	if len(c.ContentTypes) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.ContentTypes))
	for _, ct := range c.ContentTypes {
		if ct == ContentTypeImage {
			out = append(out, ImageContentTypes...)
			continue
		}
		out = append(out, ct)
	}
	return out
}

// FieldError names the offending attribute so the caller can re-prompt.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-level failures. It implements error so
// Save can fail closed with it, but callers should treat it as data.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + " " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the record's size and content type against the constraint
// set. A nil result means the record may be persisted.
func (c Constraints) Validate(a *Attachment) ValidationErrors {
	var errs ValidationErrors

	r := c.sizeRange()
	if a.Size < r.Min || a.Size > r.Max {
		errs = append(errs, FieldError{
			Field:   "size",
			Message: fmt.Sprintf("must be between %d and %d bytes, got %d", r.Min, r.Max, a.Size),
		})
	}

	if allowed := c.AllowedContentTypes(); len(allowed) > 0 {
		found := false
		for _, ct := range allowed {
			if ct == a.ContentType {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{
				Field:   "content_type",
				Message: "must be one of: " + strings.Join(allowed, ", "),
			})
		}
	}

	return errs
}
