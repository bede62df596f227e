package entity

import "strings"

// CacheKey identifies a resolution outcome in the cache store.
type CacheKey string

const keySeparator = "\x1f"

// NewCacheKey derives the key for a request. normalizedPath is the stored path
// after placeholder expansion and separator normalization; pass "" when the
// request has none. Names and publishers are case-folded with whitespace
// collapsed, so cosmetic differences in inventory data share one entry. The
// path is case-folded only when it is a drive-letter or UNC path; POSIX paths
// keep their case.
func NewCacheKey(req IconRequest, normalizedPath string) CacheKey {
	parts := []string{
		foldIdentity(req.Name),
		foldIdentity(req.Publisher),
		foldPath(normalizedPath),
	}
	return CacheKey(strings.Join(parts, keySeparator))
}

// String renders the key in a log friendly form.
func (k CacheKey) String() string {
	return strings.ReplaceAll(string(k), keySeparator, "|")
}

func foldIdentity(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func foldPath(p string) string {
	if isWindowsPath(p) {
		return strings.ToLower(p)
	}
	return p
}

func isWindowsPath(p string) bool {
	if strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return true
	}
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}
