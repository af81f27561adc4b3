package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExcludeDirs is the directory-name skip list applied when the
// config does not override it.
var DefaultExcludeDirs = []string{
	"build", "cmake-build-*",
	".git", ".svn", ".hg",
	"node_modules", "vendor", "third_party", "external", "deps",
	"__pycache__", ".pytest_cache", ".tox",
}

// Options controls file discovery and include extraction.
type Options struct {
	ExcludeDirs    []string // glob patterns matched against directory basenames
	ExcludeFiles   []string // glob patterns matched against file basenames
	IncludeSystem  bool     // keep system (angle-bracket) includes
	SystemPrefixes []string // overrides DefaultSystemPrefixes when non-empty
}

// Scanner discovers C/C++ files under a root and records per-file
// metadata plus raw includes. Unreadable files are skipped with a
// warning and contribute nothing.
type Scanner struct {
	root         string
	opts         Options
	dirGlobs     []glob.Glob
	fileGlobs    []glob.Glob
	sysPrefixes  []string
	excludeNames []string
}

// New validates the root and compiles exclusion patterns. A root that is
// not a directory is the one fatal configuration error: it aborts before
// any scanning begins.
func New(root string, opts Options) (*Scanner, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %q is not a directory", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %q: %w", root, err)
	}

	excludeDirs := opts.ExcludeDirs
	if len(excludeDirs) == 0 {
		excludeDirs = DefaultExcludeDirs
	}

	s := &Scanner{root: abs, opts: opts}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, pattern := range opts.ExcludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	s.sysPrefixes = opts.SystemPrefixes
	if len(s.sysPrefixes) == 0 {
		s.sysPrefixes = DefaultSystemPrefixes
	}

	return s, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the root and returns the discovered file set. Files are
// registered in walk order; a file that cannot be read is logged and
// left out entirely so no partial entities ever surface downstream.
func (s *Scanner) Scan() (*FileSet, error) {
	set := &FileSet{
		Root:  s.root,
		Files: make(map[string]*File),
	}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Only a failure on the root itself is fatal; an
			// unreadable entry further down loses that subtree, not
			// the scan.
			if d == nil {
				return err
			}
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != s.root && s.excludedDir(base) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := lowerExt(base)
		if !isSourceExt(ext) {
			return nil
		}
		for _, g := range s.fileGlobs {
			if g.Match(base) {
				return nil
			}
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		file, readErr := s.readFile(path, rel, base, ext)
		if readErr != nil {
			slog.Warn("skipping unreadable file", "path", rel, "error", readErr)
			return nil
		}

		set.Files[rel] = file
		set.Order = append(set.Order, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", s.root, err)
	}

	return set, nil
}

func (s *Scanner) readFile(absPath, relPath, base, ext string) (*File, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	raw := string(data)

	return &File{
		Path:      relPath,
		AbsPath:   absPath,
		Name:      base,
		Ext:       ext,
		Directory: relDirectory(relPath),
		IsHeader:  headerExtensions[ext],
		LineCount: strings.Count(raw, "\n") + 1,
		Includes:  parseIncludes(raw, s.opts.IncludeSystem, s.sysPrefixes),
	}, nil
}

func (s *Scanner) excludedDir(base string) bool {
	for _, g := range s.dirGlobs {
		if g.Match(base) {
			return true
		}
	}
	return false
}
