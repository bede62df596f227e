package iconextract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/bnema/iconscope/internal/domain/entity"
)

// Nearest picks the image whose larger side is closest to size. Ties go to
// the larger image, which scales down better than a small one scales up.
func Nearest(images []image.Image, size int) image.Image {
	var best image.Image
	bestDist, bestSide := -1, 0
	for _, img := range images {
		side := max(img.Bounds().Dx(), img.Bounds().Dy())
		dist := side - size
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist || (dist == bestDist && side > bestSide) {
			best, bestDist, bestSide = img, dist, side
		}
	}
	return best
}

// Square center-crops src to a square and scales it to size x size with
// CatmullRom interpolation. Images that already match are returned as is.
func Square(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}

	crop := b
	switch w, h := b.Dx(), b.Dy(); {
	case w > h:
		offset := (w - h) / 2
		crop = image.Rect(b.Min.X+offset, b.Min.Y, b.Min.X+offset+h, b.Max.Y)
	case h > w:
		offset := (h - w) / 2
		crop = image.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Min.Y+offset+w)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image, size int) (entity.IconImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Square(img, size)); err != nil {
		return entity.IconImage{}, fmt.Errorf("encode png: %w", err)
	}
	return entity.IconImage{Data: buf.Bytes(), Format: entity.IconFormatPNG, Size: size}, nil
}
