// Package vendorscan locates executables of programs installed by vendor
// deployment tools, which often leave no icon path in the uninstall metadata.
package vendorscan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconmatch"
	"github.com/bnema/iconscope/internal/domain/iconpath"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	defaultMaxDepth          = 2
	defaultMaxEntriesPerDir  = 512
	defaultMaxMatchedFolders = 8
)

// installerWords mark helper executables that rarely carry the product icon.
var installerWords = []string{"uninstall", "unins", "setup", "install", "update", "crashreport", "helper"}

// Options bounds the scan.
type Options struct {
	// Roots overrides the architecture-derived installation roots.
	Roots             []string
	MaxDepth          int
	MaxEntriesPerDir  int
	MaxMatchedFolders int
	LookupEnv         iconpath.LookupEnv
}

// Scanner implements port.VendorScanner.
type Scanner struct {
	fs   afero.Fs
	opts Options
}

// New creates a Scanner. Zero option values are replaced by defaults.
func New(fsys afero.Fs, opts Options) *Scanner {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.MaxEntriesPerDir <= 0 {
		opts.MaxEntriesPerDir = defaultMaxEntriesPerDir
	}
	if opts.MaxMatchedFolders <= 0 {
		opts.MaxMatchedFolders = defaultMaxMatchedFolders
	}
	return &Scanner{fs: fsys, opts: opts}
}

// RootsFor returns the installation roots to search for an architecture, in
// search order. 32-bit programs live under "Program Files (x86)" on 64-bit
// Windows, so that root goes first for 386.
func (s *Scanner) RootsFor(arch string) []string {
	if len(s.opts.Roots) > 0 {
		return s.opts.Roots
	}
	if arch == "" {
		arch = runtime.GOARCH
	}
	native := s.envRoot("%ProgramFiles%", "C:/Program Files")
	wow := s.envRoot("%ProgramFiles(x86)%", "C:/Program Files (x86)")
	if arch == "386" {
		return []string{wow, native}
	}
	return []string{native, wow}
}

func (s *Scanner) envRoot(placeholder, fallback string) string {
	p := iconpath.Normalize(placeholder, s.opts.LookupEnv)
	if !iconpath.IsAbs(p) {
		return fallback
	}
	return p
}

// FindExecutable returns the most plausible executable for the program, or
// entity.ErrNotFound once the bounded search is exhausted.
func (s *Scanner) FindExecutable(ctx context.Context, programName, publisher, archHint string) (string, error) {
	log := logging.FromContext(ctx)
	if iconmatch.Normalize(programName) == "" {
		return "", entity.ErrNotFound
	}

	folders, err := s.matchFolders(ctx, programName, publisher, archHint)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("program", programName).
		Int("folders", len(folders)).
		Msg("vendor scan matched folders")

	for _, dir := range folders {
		exe, err := s.bestExecutable(ctx, dir, programName)
		if err != nil {
			return "", err
		}
		if exe != "" {
			return exe, nil
		}
	}
	return "", entity.ErrNotFound
}

// matchFolders returns folders matching the program name, then folders
// matching the publisher.
func (s *Scanner) matchFolders(ctx context.Context, name, publisher, arch string) ([]string, error) {
	var byName, byPublisher []string
	seen := make(map[string]bool)

	for _, root := range s.RootsFor(arch) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, entry := range s.readDir(root) {
			if !entry.IsDir() {
				continue
			}
			p := path.Join(root, entry.Name())
			if seen[strings.ToLower(p)] {
				continue
			}
			switch {
			case iconmatch.Contains(entry.Name(), name):
				byName = append(byName, p)
				seen[strings.ToLower(p)] = true
			case publisher != "" && iconmatch.Contains(entry.Name(), publisher):
				byPublisher = append(byPublisher, p)
				seen[strings.ToLower(p)] = true
			}
		}
	}

	folders := append(byName, byPublisher...)
	if len(folders) > s.opts.MaxMatchedFolders {
		folders = folders[:s.opts.MaxMatchedFolders]
	}
	return folders, nil
}

type candidate struct {
	path string
	rank int
}

const (
	rankExact = iota
	rankContains
	rankOther
)

// bestExecutable walks dir breadth first up to MaxDepth and returns the
// highest ranked executable, shallower first on equal rank.
func (s *Scanner) bestExecutable(ctx context.Context, dir, programName string) (string, error) {
	want := iconmatch.Normalize(programName)
	var best *candidate

	level := []string{dir}
	for depth := 0; depth <= s.opts.MaxDepth && len(level) > 0; depth++ {
		var next []string
		for _, d := range level {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			for _, entry := range s.readDir(d) {
				p := path.Join(d, entry.Name())
				if entry.IsDir() {
					next = append(next, p)
					continue
				}
				if !strings.EqualFold(path.Ext(entry.Name()), ".exe") {
					continue
				}
				c, ok := rankExecutable(entry.Name(), want, programName)
				if !ok {
					continue
				}
				c.path = p
				if best == nil || c.rank < best.rank {
					best = &c
				}
			}
		}
		if best != nil && best.rank == rankExact {
			break
		}
		level = next
	}
	if best == nil {
		return "", nil
	}
	return best.path, nil
}

func rankExecutable(fileName, want, programName string) (candidate, bool) {
	stem := strings.TrimSuffix(fileName, path.Ext(fileName))
	norm := iconmatch.Normalize(stem)
	switch {
	case norm == want:
		return candidate{rank: rankExact}, true
	case iconmatch.Contains(stem, programName):
		return candidate{rank: rankContains}, true
	case isInstallerLike(norm):
		return candidate{}, false
	default:
		return candidate{rank: rankOther}, true
	}
}

func isInstallerLike(norm string) bool {
	for _, w := range installerWords {
		if strings.Contains(norm, w) {
			return true
		}
	}
	return false
}

// readDir lists at most MaxEntriesPerDir entries of dir in name order.
// Unreadable directories yield nothing.
func (s *Scanner) readDir(dir string) []fs.FileInfo {
	f, err := s.fs.Open(dir)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	entries, err := f.Readdir(s.opts.MaxEntriesPerDir)
	if err != nil && len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries
}

var _ port.VendorScanner = (*Scanner)(nil)
