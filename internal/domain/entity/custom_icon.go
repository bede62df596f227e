package entity

import (
	"strings"
	"time"
)

// CustomIcon is an icon assigned to a program by the user.
type CustomIcon struct {
	ProgramName string     `json:"program_name"`
	IconPath    string     `json:"icon_path,omitempty"`
	Data        []byte     `json:"icon_data"`
	Format      IconFormat `json:"format"`
	Size        int        `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Image returns the icon as an IconImage.
func (c CustomIcon) Image() IconImage {
	src := c.IconPath
	if src == "" {
		src = "custom:" + c.ProgramName
	}
	return IconImage{Data: c.Data, Format: c.Format, Size: c.Size, Source: src}
}

// SanitizeIconName maps a program name to a file-safe identifier: letters,
// digits, '-' and '_' are kept, everything else becomes '_'.
func SanitizeIconName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
