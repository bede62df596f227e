// Package genericicon serves the built-in icons used when nothing better
// can be found for a program.
package genericicon

import (
	"embed"
	"fmt"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
)

//go:embed icons/*.svg
var iconFS embed.FS

var fileByType = map[entity.ProgramType]string{
	entity.ProgramTypeApplication:     "application.svg",
	entity.ProgramTypeSystemComponent: "system.svg",
	entity.ProgramTypeUpdate:          "update.svg",
	entity.ProgramTypePortable:        "portable.svg",
	entity.ProgramTypeUnknown:         "unknown.svg",
}

// Provider implements port.GenericIconProvider. Icons are read once at
// construction, so IconFor cannot fail.
type Provider struct {
	size  int
	icons map[entity.ProgramType][]byte
}

// NewProvider loads the embedded icons. size is reported as the pixel size of
// the vector icons.
func NewProvider(size int) (*Provider, error) {
	if size <= 0 {
		size = 32
	}
	p := &Provider{size: size, icons: make(map[entity.ProgramType][]byte, len(fileByType))}
	for t, name := range fileByType {
		data, err := iconFS.ReadFile("icons/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin icon %s: %w", name, err)
		}
		p.icons[t] = data
	}
	return p, nil
}

// MustNewProvider is NewProvider for wiring code; the icons are compiled in.
func MustNewProvider(size int) *Provider {
	p, err := NewProvider(size)
	if err != nil {
		panic(err)
	}
	return p
}

// IconFor returns the icon for programType. Unrecognized types get the
// Unknown icon.
func (p *Provider) IconFor(programType entity.ProgramType) entity.IconImage {
	data, ok := p.icons[programType]
	if !ok {
		programType = entity.ProgramTypeUnknown
		data = p.icons[programType]
	}
	return entity.IconImage{
		Data:   data,
		Format: entity.IconFormatSVG,
		Size:   p.size,
		Source: "builtin:" + fileByType[programType],
	}
}

var _ port.GenericIconProvider = (*Provider)(nil)
