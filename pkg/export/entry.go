package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is a read-only view of a file-system node. The engine only consumes
// this interface; it never mutates the underlying node. Implementations must
// be safe for use from multiple goroutines.
type Entry interface {
	// Name returns the base name of the entry.
	Name() string
	// Path returns the absolute, cleaned path identifying the entry.
	Path() string
	// IsDir reports whether the entry is a directory.
	IsDir() bool
	// Exists reports whether the entry could be resolved on disk.
	Exists() bool
	// Regular reports whether the entry is a regular file.
	Regular() bool
	// Size returns the length in bytes, or 0 when unknown.
	Size() int64
	// ModTime returns the last modification time, or the zero time when unknown.
	ModTime() time.Time
	// Extension returns the lowercased file extension without the leading dot.
	Extension() string
	// Children lists a directory's entries in name order. It returns an error
	// for non-directories or unreadable directories.
	Children() ([]Entry, error)
	// Open returns a reader over the entry's bytes.
	Open() (io.ReadCloser, error)
}

// osEntry backs Entry with the local filesystem. A nil info marks an entry
// that could not be resolved; such entries report Exists() == false and are
// skipped by the traversal.
type osEntry struct {
	path string
	info os.FileInfo
}

// NewEntry resolves path into an Entry rooted at its absolute location.
// Resolution failures are not errors here: the returned entry simply does
// not exist, and the traversal skips it.
func NewEntry(path string) Entry {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return &osEntry{path: abs}
	}
	return &osEntry{path: abs, info: info}
}

func (e *osEntry) Name() string { return filepath.Base(e.path) }

func (e *osEntry) Path() string { return e.path }

func (e *osEntry) IsDir() bool { return e.info != nil && e.info.IsDir() }

func (e *osEntry) Exists() bool { return e.info != nil }

func (e *osEntry) Regular() bool { return e.info != nil && e.info.Mode().IsRegular() }

func (e *osEntry) Size() int64 {
	if e.info == nil {
		return 0
	}
	return e.info.Size()
}

func (e *osEntry) ModTime() time.Time {
	if e.info == nil {
		return time.Time{}
	}
	return e.info.ModTime()
}

func (e *osEntry) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(e.path), "."))
}

// Children lists the directory in the name order returned by os.ReadDir,
// which is already sorted; the traversal relies on that for deterministic
// visiting. Entries whose metadata cannot be read are returned as
// non-existent so the caller can skip them without failing the directory.
func (e *osEntry) Children() ([]Entry, error) {
	dirEntries, err := os.ReadDir(e.path)
	if err != nil {
		return nil, err
	}
	children := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		childPath := filepath.Join(e.path, de.Name())
		info, err := de.Info()
		if err != nil {
			children = append(children, &osEntry{path: childPath})
			continue
		}
		children = append(children, &osEntry{path: childPath, info: info})
	}
	return children, nil
}

func (e *osEntry) Open() (io.ReadCloser, error) {
	return os.Open(e.path)
}
