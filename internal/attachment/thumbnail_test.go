package attachment

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeometry(t *testing.T) {
	g, err := parseGeometry("100x50")
	require.NoError(t, err)
	assert.Equal(t, geometry{w: 100, h: 50}, g)

	g, err = parseGeometry(" 32X32 ")
	require.NoError(t, err)
	assert.Equal(t, geometry{w: 32, h: 32}, g)

	for _, bad := range []string{"", "100", "x", "0x10", "10x-5", "axb"} {
		_, err := parseGeometry(bad)
		assert.Error(t, err, "geometry %q", bad)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		srcW, srcH int
		g          geometry
		wantW      int
		wantH      int
	}{
		{100, 50, geometry{40, 40}, 40, 20},
		{50, 100, geometry{40, 40}, 20, 40},
		{10, 10, geometry{40, 40}, 10, 10}, // never upscale
		{4000, 2, geometry{40, 40}, 40, 1},
	}
	for _, tc := range tests {
		w, h := fitWithin(tc.srcW, tc.srcH, tc.g)
		assert.Equal(t, tc.wantW, w)
		assert.Equal(t, tc.wantH, h)
	}
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "p/uuid/cat_thumb.png", thumbnailKey("p/uuid/cat.png", "thumb"))
	assert.Equal(t, "p/uuid/blob_small", thumbnailKey("p/uuid/blob", "small"))
}

func TestRenderThumbnail_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 40))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := renderThumbnail(&buf, geometry{w: 50, h: 50})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestRenderThumbnail_JPEGKeepsFormat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 80, 80))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	out, err := renderThumbnail(&buf, geometry{w: 20, h: 20})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestRenderThumbnail_GarbageInput(t *testing.T) {
	_, err := renderThumbnail(bytes.NewReader([]byte("definitely not an image")), geometry{w: 10, h: 10})
	require.Error(t, err)
}
