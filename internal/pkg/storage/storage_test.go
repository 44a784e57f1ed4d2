package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "media/ab/poster.jpg", strings.NewReader("poster")))

	rc, err := s.Get(ctx, "media/ab/poster.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "poster", string(data))

	require.NoError(t, s.Delete(ctx, "media/ab/poster.jpg"))
	require.NoError(t, s.Delete(ctx, "media/ab/poster.jpg"), "deleting twice is fine")

	_, err = s.Get(ctx, "media/ab/poster.jpg")
	assert.Error(t, err)

	assert.ErrorIs(t, s.Save(ctx, "../escape.txt", strings.NewReader("x")), ErrInvalidPath)
	_, err = s.Get(ctx, "media/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestGenerateThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 900))
	for x := 0; x < 600; x++ {
		src.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	p := NewImageProcessor(200, 300)
	out, err := p.GenerateThumbnail(&buf)
	require.NoError(t, err)

	img, format, err := image.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 50, 40))
	buf.Reset()
	require.NoError(t, png.Encode(&buf, small))
	out, err = p.GenerateThumbnail(&buf)
	require.NoError(t, err)
	img, _, err = image.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx(), "small images are not upscaled")

	_, err = p.GenerateThumbnail(strings.NewReader("not an image"))
	assert.Error(t, err)
}
