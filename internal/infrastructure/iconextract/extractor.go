// Package iconextract decodes icons from image files and from the resources
// embedded in Windows executables and libraries.
package iconextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/sergeymakinen/go-ico"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconpath"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	// DefaultIconSize is used when the caller passes a non-positive size.
	DefaultIconSize = 32
	// maxFileSize caps how much of a file is read. Large installers embed
	// their icons near the start of the resource section, but the PE loader
	// needs the whole image.
	maxFileSize = 64 << 20
)

type kind int

const (
	kindUnsupported kind = iota
	kindICO
	kindRaster
	kindSVG
	kindPE
)

var kindsByExt = map[string]kind{
	".ico":  kindICO,
	".png":  kindRaster,
	".bmp":  kindRaster,
	".jpg":  kindRaster,
	".jpeg": kindRaster,
	".gif":  kindRaster,
	".webp": kindRaster,
	".svg":  kindSVG,
	".exe":  kindPE,
	".dll":  kindPE,
	".ocx":  kindPE,
	".cpl":  kindPE,
	".scr":  kindPE,
	".mun":  kindPE,
}

// Supported reports whether Extract recognizes the extension of path.
func Supported(path string) bool {
	return kindsByExt[iconpath.Ext(path)] != kindUnsupported
}

// Extractor implements port.IconExtractor.
type Extractor struct {
	fs afero.Fs
}

// New creates an Extractor reading from fsys.
func New(fsys afero.Fs) *Extractor {
	return &Extractor{fs: fsys}
}

// Extract decodes the icon in path and returns it as PNG at preferredSize,
// or as the original SVG document.
func (e *Extractor) Extract(ctx context.Context, path string, preferredSize int) (entity.IconImage, error) {
	k := kindsByExt[iconpath.Ext(path)]
	if k == kindUnsupported {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionUnsupportedFormat, path, nil)
	}
	if preferredSize <= 0 {
		preferredSize = DefaultIconSize
	}

	data, err := e.readFile(path)
	if err != nil {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionFileUnreadable, path, err)
	}
	if err := ctx.Err(); err != nil {
		return entity.IconImage{}, err
	}

	log := logging.FromContext(ctx)
	log.Trace().Str("path", path).Int("bytes", len(data)).Int("size", preferredSize).Msg("extracting icon")

	img, err := decode(k, data, preferredSize, path)
	if err != nil {
		return entity.IconImage{}, err
	}
	img.Source = path
	return img, nil
}

// ExtractBytes decodes an in-memory payload, identified by its content
// rather than a file extension. source is recorded on the result.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, preferredSize int, source string) (entity.IconImage, error) {
	if preferredSize <= 0 {
		preferredSize = DefaultIconSize
	}
	if err := ctx.Err(); err != nil {
		return entity.IconImage{}, err
	}
	k := kindOf(data)
	if k == kindUnsupported {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionUnsupportedFormat, source, nil)
	}
	img, err := decode(k, data, preferredSize, source)
	if err != nil {
		return entity.IconImage{}, err
	}
	img.Source = source
	return img, nil
}

func kindOf(data []byte) kind {
	if bytes.HasPrefix(data, []byte("MZ")) {
		return kindPE
	}
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return kindRaster
	}
	format, ok := Sniff(data)
	if !ok {
		return kindUnsupported
	}
	switch format {
	case entity.IconFormatSVG:
		return kindSVG
	case entity.IconFormatICO:
		return kindICO
	default:
		return kindRaster
	}
}

func decode(k kind, data []byte, size int, path string) (entity.IconImage, error) {
	var (
		img entity.IconImage
		err error
	)
	switch k {
	case kindSVG:
		img, err = svgImage(data, size)
	case kindICO:
		img, err = fromICO(data, size)
	case kindRaster:
		img, err = fromRaster(data, size)
	case kindPE:
		img, err = fromPE(data, size)
	default:
		err = entity.NewExtractionError(entity.ExtractionUnsupportedFormat, path, nil)
	}
	if err != nil {
		var extractErr *entity.ExtractionError
		if errors.As(err, &extractErr) {
			extractErr.Path = path
			return entity.IconImage{}, extractErr
		}
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionCorruptResource, path, err)
	}
	return img, nil
}

func (e *Extractor) readFile(path string) ([]byte, error) {
	f, err := e.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file larger than %d bytes", maxFileSize)
	}
	return data, nil
}

func svgImage(data []byte, size int) (entity.IconImage, error) {
	if !LooksLikeSVG(data) {
		return entity.IconImage{}, errors.New("no <svg> root element")
	}
	return entity.IconImage{Data: data, Format: entity.IconFormatSVG, Size: size}, nil
}

func fromICO(data []byte, size int) (entity.IconImage, error) {
	images, err := ico.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return entity.IconImage{}, fmt.Errorf("decode ico: %w", err)
	}
	if len(images) == 0 {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionNoEmbeddedIcon, "", nil)
	}
	return encodePNG(Nearest(images, size), size)
}

func fromRaster(data []byte, size int) (entity.IconImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.IconImage{}, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if format == "png" && b.Dx() == size && b.Dy() == size {
		return entity.IconImage{Data: data, Format: entity.IconFormatPNG, Size: size}, nil
	}
	return encodePNG(img, size)
}

var _ port.IconExtractor = (*Extractor)(nil)
