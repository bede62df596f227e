package iconextract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sergeymakinen/go-ico"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tc-hib/winres"

	"github.com/bnema/iconscope/internal/domain/entity"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func icoBytes(t *testing.T, images ...image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ico.EncodeAll(&buf, images))
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func assertKind(t *testing.T, err error, kind entity.ExtractionErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, &entity.ExtractionError{Kind: kind})
}

func TestExtract_ICOPicksNearestPreferringLarger(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "C:/App/app.ico", icoBytes(t, solid(16, 16, red), solid(48, 48, blue)), 0o644))

	img, err := New(fsys).Extract(context.Background(), "C:/App/app.ico", 32)
	require.NoError(t, err)

	assert.Equal(t, entity.IconFormatPNG, img.Format)
	assert.Equal(t, 32, img.Size)
	assert.Equal(t, "C:/App/app.ico", img.Source)

	decoded := decodePNG(t, img.Data)
	assert.Equal(t, 32, decoded.Bounds().Dx())
	r, _, b, _ := decoded.At(16, 16).RGBA()
	assert.Zero(t, r>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestExtract_ICOExactSizeWins(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/icons/app.ICO", icoBytes(t, solid(16, 16, red), solid(32, 32, blue), solid(48, 48, red)), 0o644))

	img, err := New(fsys).Extract(context.Background(), "/icons/app.ICO", 32)
	require.NoError(t, err)

	_, _, b, _ := decodePNG(t, img.Data).At(0, 0).RGBA()
	assert.Equal(t, uint32(255), b>>8)
}

func TestExtract_RasterPassthroughAndScale(t *testing.T) {
	fsys := afero.NewMemMapFs()
	exact := pngBytes(t, solid(32, 32, red))
	require.NoError(t, afero.WriteFile(fsys, "/icons/exact.png", exact, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/icons/wide.png", pngBytes(t, solid(64, 32, red)), 0o644))
	e := New(fsys)

	img, err := e.Extract(context.Background(), "/icons/exact.png", 32)
	require.NoError(t, err)
	assert.Equal(t, exact, img.Data)

	img, err = e.Extract(context.Background(), "/icons/wide.png", 16)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Size)
	b := decodePNG(t, img.Data).Bounds()
	assert.Equal(t, 16, b.Dx())
	assert.Equal(t, 16, b.Dy())
}

func TestExtract_SVGPassesThrough(t *testing.T) {
	fsys := afero.NewMemMapFs()
	doc := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"/>`)
	require.NoError(t, afero.WriteFile(fsys, "/icons/app.svg", doc, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/icons/fake.svg", []byte("<html></html>"), 0o644))
	e := New(fsys)

	img, err := e.Extract(context.Background(), "/icons/app.svg", 48)
	require.NoError(t, err)
	assert.Equal(t, entity.IconFormatSVG, img.Format)
	assert.Equal(t, doc, img.Data)

	_, err = e.Extract(context.Background(), "/icons/fake.svg", 48)
	assertKind(t, err, entity.ExtractionCorruptResource)
}

func TestExtract_ErrorKinds(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bin/broken.ico", []byte("definitely not an icon"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/bin/broken.exe", []byte("MZ this is not a PE image"), 0o644))
	e := New(fsys)
	ctx := context.Background()

	_, err := e.Extract(ctx, "/bin/readme.txt", 32)
	assertKind(t, err, entity.ExtractionUnsupportedFormat)

	_, err = e.Extract(ctx, "/bin/missing.ico", 32)
	assertKind(t, err, entity.ExtractionFileUnreadable)

	_, err = e.Extract(ctx, "/bin/broken.ico", 32)
	assertKind(t, err, entity.ExtractionCorruptResource)

	_, err = e.Extract(ctx, "/bin/broken.exe", 32)
	assertKind(t, err, entity.ExtractionCorruptResource)

	var extractErr *entity.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "/bin/broken.exe", extractErr.Path)
}

func TestFromResourceSet(t *testing.T) {
	icon, err := winres.NewIconFromImages([]image.Image{solid(16, 16, red), solid(48, 48, blue)})
	require.NoError(t, err)

	rs := &winres.ResourceSet{}
	require.NoError(t, rs.SetIcon(winres.ID(1), icon))

	img, err := fromResourceSet(rs, 48)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Size)
	_, _, b, _ := decodePNG(t, img.Data).At(10, 10).RGBA()
	assert.Equal(t, uint32(255), b>>8)

	_, err = fromResourceSet(&winres.ResourceSet{}, 32)
	assertKind(t, err, entity.ExtractionNoEmbeddedIcon)
}

func TestNearest(t *testing.T) {
	small, mid, large := solid(16, 16, red), solid(24, 24, red), solid(32, 32, red)
	assert.Same(t, large, Nearest([]image.Image{small, large}, 24))
	assert.Same(t, mid, Nearest([]image.Image{small, mid, large}, 24))
	assert.Same(t, small, Nearest([]image.Image{small, large}, 8))
	assert.Nil(t, Nearest(nil, 32))
}

func TestSniff(t *testing.T) {
	f, ok := Sniff(pngBytes(t, solid(2, 2, red)))
	require.True(t, ok)
	assert.Equal(t, entity.IconFormatPNG, f)

	f, ok = Sniff([]byte("\xEF\xBB\xBF<!-- logo --><svg viewBox='0 0 1 1'/>"))
	require.True(t, ok)
	assert.Equal(t, entity.IconFormatSVG, f)

	_, ok = Sniff([]byte("<!DOCTYPE html><html><body>404</body></html>"))
	assert.False(t, ok)

	assert.True(t, Supported(`C:\Windows\explorer.EXE`))
	assert.False(t, Supported("notes.txt"))
}

func TestExtractBytes_DetectsByContent(t *testing.T) {
	e := New(afero.NewMemMapFs())
	ctx := context.Background()

	img, err := e.ExtractBytes(ctx, icoBytes(t, solid(16, 16, red), solid(64, 64, blue)), 48, "custom:App")
	require.NoError(t, err)
	assert.Equal(t, entity.IconFormatPNG, img.Format)
	assert.Equal(t, 48, img.Size)
	assert.Equal(t, "custom:App", img.Source)

	doc := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	img, err = e.ExtractBytes(ctx, doc, 48, "custom:App")
	require.NoError(t, err)
	assert.Equal(t, entity.IconFormatSVG, img.Format)
	assert.Equal(t, doc, img.Data)

	_, err = e.ExtractBytes(ctx, []byte("plain text"), 48, "custom:App")
	assertKind(t, err, entity.ExtractionUnsupportedFormat)

	_, err = e.ExtractBytes(ctx, []byte("MZ not really"), 48, "custom:App")
	assertKind(t, err, entity.ExtractionCorruptResource)
}
