package iconextract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sergeymakinen/go-ico"
	"github.com/tc-hib/winres"

	"github.com/bnema/iconscope/internal/domain/entity"
)

// fromPE pulls the first icon group out of a PE image. Windows shows the
// group with the lowest identifier as the file's icon.
func fromPE(data []byte, size int) (entity.IconImage, error) {
	rs, err := winres.LoadFromEXESingleType(bytes.NewReader(data), winres.RT_GROUP_ICON)
	if err != nil {
		if errors.Is(err, winres.ErrNoResources) {
			return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionNoEmbeddedIcon, "", err)
		}
		return entity.IconImage{}, fmt.Errorf("load pe resources: %w", err)
	}
	return fromResourceSet(rs, size)
}

func fromResourceSet(rs *winres.ResourceSet, size int) (entity.IconImage, error) {
	var groupID winres.Identifier
	rs.WalkType(winres.RT_GROUP_ICON, func(resID winres.Identifier, _ uint16, _ []byte) bool {
		groupID = resID
		return false
	})
	if groupID == nil {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionNoEmbeddedIcon, "", nil)
	}

	icon, err := rs.GetIcon(groupID)
	if err != nil {
		return entity.IconImage{}, fmt.Errorf("read icon group %v: %w", groupID, err)
	}

	var buf bytes.Buffer
	if err := icon.SaveICO(&buf); err != nil {
		return entity.IconImage{}, fmt.Errorf("rebuild ico: %w", err)
	}

	images, err := ico.DecodeAll(&buf)
	if err != nil {
		return entity.IconImage{}, fmt.Errorf("decode icon group: %w", err)
	}
	if len(images) == 0 {
		return entity.IconImage{}, entity.NewExtractionError(entity.ExtractionNoEmbeddedIcon, "", nil)
	}
	return encodePNG(Nearest(images, size), size)
}
