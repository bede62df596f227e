package entity

import (
	"strings"
	"time"
)

// ProgramType classifies an installed program the way the inventory scanner does.
type ProgramType string

const (
	ProgramTypeApplication     ProgramType = "Application"
	ProgramTypeSystemComponent ProgramType = "SystemComponent"
	ProgramTypeUpdate          ProgramType = "Update"
	ProgramTypePortable        ProgramType = "Portable"
	ProgramTypeUnknown         ProgramType = "Unknown"
)

// ParseProgramType maps a free-form classification to a ProgramType.
// Unrecognized values map to ProgramTypeUnknown.
func ParseProgramType(s string) ProgramType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "application", "app":
		return ProgramTypeApplication
	case "systemcomponent", "system_component", "system":
		return ProgramTypeSystemComponent
	case "update", "hotfix":
		return ProgramTypeUpdate
	case "portable":
		return ProgramTypePortable
	default:
		return ProgramTypeUnknown
	}
}

// IconRequest identifies the program an icon is wanted for.
// Name is required; every other field may be empty.
type IconRequest struct {
	Name          string      `json:"name"`
	Publisher     string      `json:"publisher,omitempty"`
	StoredPath    string      `json:"icon_path,omitempty"`
	VendorManaged bool        `json:"is_vendor_managed,omitempty"`
	ProgramType   ProgramType `json:"program_type,omitempty"`
}

// Validate reports ErrInvalidRequest when the request has no usable name.
func (r IconRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// IconFormat is the encoding of an icon payload.
type IconFormat string

const (
	IconFormatPNG  IconFormat = "png"
	IconFormatSVG  IconFormat = "svg"
	IconFormatICO  IconFormat = "ico"
	IconFormatBMP  IconFormat = "bmp"
	IconFormatJPEG IconFormat = "jpeg"
	IconFormatGIF  IconFormat = "gif"
)

// MIMEType returns the media type of the format.
func (f IconFormat) MIMEType() string {
	switch f {
	case IconFormatSVG:
		return "image/svg+xml"
	case IconFormatICO:
		return "image/x-icon"
	case IconFormatBMP:
		return "image/bmp"
	case IconFormatJPEG:
		return "image/jpeg"
	case IconFormatGIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

// Provenance tells which strategy produced an icon.
type Provenance string

const (
	ProvenanceCustom          Provenance = "Custom"
	ProvenanceLocalExtraction Provenance = "LocalExtraction"
	ProvenanceVendorTreeScan  Provenance = "VendorTreeScan"
	ProvenanceRemoteFallback  Provenance = "RemoteFallback"
	ProvenanceGeneric         Provenance = "Generic"
)

// Tier returns the cache tier an icon of this provenance belongs to.
func (p Provenance) Tier() CacheTier {
	switch p {
	case ProvenanceRemoteFallback, ProvenanceGeneric:
		return CacheTierFallback
	default:
		return CacheTierLocal
	}
}

// IconImage is a decoded icon as produced by extractors and providers.
type IconImage struct {
	Data   []byte
	Format IconFormat
	Size   int
	Source string // path, URL or builtin id the image came from
}

// ResolvedIcon is the final result handed to callers.
type ResolvedIcon struct {
	Data       []byte     `json:"-"`
	Format     IconFormat `json:"format"`
	Size       int        `json:"size"`
	Provenance Provenance `json:"provenance"`
	Source     string     `json:"source,omitempty"`
}

// NewResolvedIcon tags an image with its provenance. The payload is copied.
func NewResolvedIcon(img IconImage, provenance Provenance) ResolvedIcon {
	return ResolvedIcon{
		Data:       cloneBytes(img.Data),
		Format:     img.Format,
		Size:       img.Size,
		Provenance: provenance,
		Source:     img.Source,
	}
}

// Clone returns a copy that shares no memory with the receiver.
func (r ResolvedIcon) Clone() ResolvedIcon {
	r.Data = cloneBytes(r.Data)
	return r
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// CacheTier selects one of the two cache maps.
type CacheTier string

const (
	CacheTierLocal    CacheTier = "local"
	CacheTierFallback CacheTier = "fallback"
	CacheTierBoth     CacheTier = "both"
)

// ParseCacheTier parses a tier name. The empty string means both tiers.
func ParseCacheTier(s string) (CacheTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return CacheTierLocal, true
	case "fallback":
		return CacheTierFallback, true
	case "", "both", "all":
		return CacheTierBoth, true
	default:
		return "", false
	}
}

// Tiers expands CacheTierBoth into the concrete tiers.
func (t CacheTier) Tiers() []CacheTier {
	if t == CacheTierBoth {
		return []CacheTier{CacheTierLocal, CacheTierFallback}
	}
	return []CacheTier{t}
}

// CacheEntry is a resolved icon stored in a tier.
type CacheEntry struct {
	Key        CacheKey
	Icon       ResolvedIcon
	InsertedAt time.Time
	Tier       CacheTier
}

// ValidAt reports whether the entry is still live at now for the given ttl.
func (e CacheEntry) ValidAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.InsertedAt) < ttl
}

// CacheStats is the TTL-aware view of one tier (or both, summed).
type CacheStats struct {
	Tier           CacheTier `json:"tier"`
	TotalEntries   int       `json:"total_entries"`
	ValidEntries   int       `json:"valid_entries"`
	ExpiredEntries int       `json:"expired_entries"`
}
