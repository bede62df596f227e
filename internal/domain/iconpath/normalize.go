// Package iconpath normalizes icon locations as they are stored in
// installation metadata ("C:\Foo\app.exe,0", "%ProgramFiles%\Foo\app.ico", ...).
package iconpath

import (
	"path"
	"regexp"
	"strings"
)

// LookupEnv resolves an environment variable. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

var (
	// trailing resource index: "app.exe,0" or "app.dll, -101"
	iconIndexSuffix = regexp.MustCompile(`,\s*-?\d+\s*$`)
	percentVar      = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)
	dollarVar       = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
	driveLetter     = regexp.MustCompile(`^[A-Za-z]:/`)
)

// Clean strips quotes and a trailing icon index, then normalizes separators
// to forward slashes and removes "." and ".." segments. It does not touch
// environment placeholders.
func Clean(raw string) string {
	p := strings.TrimSpace(raw)
	p = iconIndexSuffix.ReplaceAllString(p, "")
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = strings.ReplaceAll(p, `\`, "/")
	unc := strings.HasPrefix(p, "//")
	p = path.Clean(p)
	if unc {
		p = "/" + p
	}
	return p
}

// Expand replaces %VAR%, $VAR and ${VAR} placeholders. Unknown variables are
// left untouched so the caller ends up with a path that simply does not exist.
func Expand(raw string, lookup LookupEnv) string {
	if lookup == nil {
		return raw
	}
	out := percentVar.ReplaceAllStringFunc(raw, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := lookupFold(lookup, name); ok {
			return v
		}
		return m
	})
	return dollarVar.ReplaceAllStringFunc(out, func(m string) string {
		name := strings.TrimPrefix(m, "$")
		name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
		if v, ok := lookup(name); ok {
			return v
		}
		return m
	})
}

// Normalize expands placeholders and cleans the result.
func Normalize(raw string, lookup LookupEnv) string {
	return Clean(Expand(strings.TrimSpace(raw), lookup))
}

// IsAbs reports whether p is absolute on either a POSIX or a Windows layout.
// p is expected to be Clean'ed.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/") || driveLetter.MatchString(p)
}

// Base returns the last element of a cleaned path.
func Base(p string) string {
	return path.Base(p)
}

// Ext returns the lower-cased extension of p including the dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// Windows variables are case-insensitive; environments copied to POSIX hosts
// are not, so try the exact name, then upper case.
func lookupFold(lookup LookupEnv, name string) (string, bool) {
	if v, ok := lookup(name); ok {
		return v, true
	}
	return lookup(strings.ToUpper(name))
}
