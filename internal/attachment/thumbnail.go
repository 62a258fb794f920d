package attachment

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

type geometry struct {
	w int
	h int
}

// parseGeometry accepts "WxH" with positive integer bounds.
func parseGeometry(s string) (geometry, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return geometry{}, fmt.Errorf("invalid geometry %q, want WxH", s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return geometry{}, fmt.Errorf("invalid geometry %q, want WxH", s)
	}
	return geometry{w: w, h: h}, nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// thumbnailKey derives a variant key from the parent storage key:
// "p/uuid/cat.png" + "thumb" → "p/uuid/cat_thumb.png".
func thumbnailKey(key, name string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_" + name + ext
}

// renderThumbnail decodes src, scales it to fit within the geometry while
// preserving aspect ratio (never upscaling), and re-encodes it in the
// source format. Supported formats are jpeg, png and gif.
func renderThumbnail(src io.Reader, g geometry) ([]byte, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), g)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, nil)
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// fitWithin shrinks (never grows) the source dimensions to fit the box.
func fitWithin(srcW, srcH int, g geometry) (int, int) {
	if srcW <= g.w && srcH <= g.h {
		return srcW, srcH
	}

	scaleW := float64(g.w) / float64(srcW)
	scaleH := float64(g.h) / float64(srcH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
