package iconextract

import (
	"bytes"

	"github.com/bnema/iconscope/internal/domain/entity"
)

var signatures = []struct {
	format entity.IconFormat
	magic  []byte
}{
	{entity.IconFormatPNG, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{entity.IconFormatJPEG, []byte{0xFF, 0xD8, 0xFF}},
	{entity.IconFormatGIF, []byte("GIF8")},
	{entity.IconFormatBMP, []byte("BM")},
	{entity.IconFormatICO, []byte{0x00, 0x00, 0x01, 0x00}},
}

// Sniff identifies an icon payload by its leading bytes.
func Sniff(data []byte) (entity.IconFormat, bool) {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format, true
		}
	}
	if LooksLikeSVG(data) {
		return entity.IconFormatSVG, true
	}
	return "", false
}

// LooksLikeSVG reports whether data starts (after an optional BOM, XML
// prolog, comments and whitespace) with an <svg element.
func LooksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	head = bytes.TrimPrefix(head, []byte("\xEF\xBB\xBF"))
	head = bytes.ToLower(head)
	idx := bytes.Index(head, []byte("<svg"))
	if idx < 0 {
		return false
	}
	// anything markup-like before <svg must be prolog, doctype or comment
	prefix := bytes.TrimSpace(head[:idx])
	for len(prefix) > 0 {
		if !bytes.HasPrefix(prefix, []byte("<")) {
			return false
		}
		end := bytes.IndexByte(prefix, '>')
		if end < 0 {
			return false
		}
		switch {
		case bytes.HasPrefix(prefix, []byte("<?xml")), bytes.HasPrefix(prefix, []byte("<!--")), bytes.HasPrefix(prefix, []byte("<!doctype")):
		default:
			return false
		}
		prefix = bytes.TrimSpace(prefix[end+1:])
	}
	return true
}
