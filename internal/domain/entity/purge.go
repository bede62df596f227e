package entity

// PurgeTargetType identifies what kind of purgeable item this is.
type PurgeTargetType int

const (
	PurgeTargetConfig PurgeTargetType = iota
	PurgeTargetCustomIcons
	PurgeTargetCacheDatabase
	PurgeTargetLogs
)

// String returns the CLI name of the target type.
func (t PurgeTargetType) String() string {
	switch t {
	case PurgeTargetConfig:
		return "config"
	case PurgeTargetCustomIcons:
		return "custom"
	case PurgeTargetCacheDatabase:
		return "cache"
	case PurgeTargetLogs:
		return "logs"
	default:
		return "unknown"
	}
}

// ParsePurgeTargetType maps a CLI name back to its type.
func ParsePurgeTargetType(s string) (PurgeTargetType, bool) {
	for _, t := range []PurgeTargetType{PurgeTargetConfig, PurgeTargetCustomIcons, PurgeTargetCacheDatabase, PurgeTargetLogs} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// PurgeTarget represents something that can be purged.
type PurgeTarget struct {
	Type        PurgeTargetType
	Path        string
	Description string
	Size        int64
	Exists      bool
}

// PurgeResult represents the outcome of purging a single target.
type PurgeResult struct {
	Target  PurgeTarget
	Success bool
	Error   error
}
