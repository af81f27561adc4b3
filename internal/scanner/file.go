package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// Extensions recognized by the scanner. Resolution and all downstream
// analysis only ever see files from this set.
var (
	cExtensions   = map[string]bool{".c": true, ".h": true}
	cppExtensions = map[string]bool{
		".cpp": true, ".hpp": true, ".cc": true, ".hh": true,
		".cxx": true, ".hxx": true, ".c++": true, ".h++": true,
	}
	headerExtensions = map[string]bool{
		".h": true, ".hpp": true, ".hh": true, ".hxx": true, ".h++": true,
	}
)

// Include is one #include directive as written in a file.
type Include struct {
	Path   string // path between the brackets, untouched
	System bool   // angle brackets rather than quotes
}

// File is an immutable record of one discovered source or header file.
// Path is relative to the scan root and serves as the file's identity
// everywhere downstream.
type File struct {
	Path      string
	AbsPath   string
	Name      string
	Ext       string
	Directory string // relative directory, "." at the root
	IsHeader  bool
	LineCount int
	Includes  []Include
}

// ReadRaw returns the file's content as written on disk.
func (f *File) ReadRaw() (string, error) {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadClean returns the file's content with comments and string/char
// literals blanked out, suitable for pattern matching.
func (f *File) ReadClean() (string, error) {
	raw, err := f.ReadRaw()
	if err != nil {
		return "", err
	}
	return Strip(raw), nil
}

// FileSet holds every file discovered during a scan. Order preserves
// discovery order, which downstream ties are broken by.
type FileSet struct {
	Root  string
	Files map[string]*File
	Order []string
}

// Get returns the file registered under the given relative path.
func (fs *FileSet) Get(path string) (*File, bool) {
	f, ok := fs.Files[path]
	return f, ok
}

// Headers counts header files in the set.
func (fs *FileSet) Headers() int {
	n := 0
	for _, f := range fs.Files {
		if f.IsHeader {
			n++
		}
	}
	return n
}

// Sources counts non-header files in the set.
func (fs *FileSet) Sources() int {
	return len(fs.Files) - fs.Headers()
}

// TotalLines sums line counts across the set.
func (fs *FileSet) TotalLines() int {
	n := 0
	for _, f := range fs.Files {
		n += f.LineCount
	}
	return n
}

func isSourceExt(ext string) bool {
	return cExtensions[ext] || cppExtensions[ext]
}

// IsSourcePath reports whether the file name carries a recognized C or
// C++ extension. The watcher uses it to ignore unrelated churn.
func IsSourcePath(name string) bool {
	return isSourceExt(lowerExt(name))
}

func relDirectory(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "" {
		return "."
	}
	return dir
}

func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
