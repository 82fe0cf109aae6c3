package export

import (
	"bytes"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errPermission = errors.New("permission denied")

// fakeEntry is an in-memory Entry for tests needing precise control over
// file metadata and content without touching the file system.
type fakeEntry struct {
	path      string
	dir       bool
	missing   bool
	irregular bool
	size      int64
	modTime   time.Time
	content   []byte
	children  []Entry
	openErr   error
	opens     int
}

func newFakeFile(p string, content []byte) *fakeEntry {
	return &fakeEntry{path: p, content: content, size: int64(len(content))}
}

func newFakeDir(p string, children ...Entry) *fakeEntry {
	return &fakeEntry{path: p, dir: true, children: children}
}

func (e *fakeEntry) Name() string       { return path.Base(e.path) }
func (e *fakeEntry) Path() string       { return e.path }
func (e *fakeEntry) IsDir() bool        { return e.dir }
func (e *fakeEntry) Exists() bool       { return !e.missing }
func (e *fakeEntry) Regular() bool      { return !e.dir && !e.missing && !e.irregular }
func (e *fakeEntry) Size() int64        { return e.size }
func (e *fakeEntry) ModTime() time.Time { return e.modTime }

func (e *fakeEntry) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(e.path), "."))
}

func (e *fakeEntry) Children() ([]Entry, error) {
	if !e.dir {
		return nil, errors.New("not a directory")
	}
	return e.children, nil
}

func (e *fakeEntry) Open() (io.ReadCloser, error) {
	e.opens++
	if e.openErr != nil {
		return nil, e.openErr
	}
	return io.NopCloser(bytes.NewReader(e.content)), nil
}

// predicateFunc adapts a function to the IgnorePredicate interface.
type predicateFunc func(path string, isDir bool) bool

func (f predicateFunc) IsIgnored(path string, isDir bool) bool { return f(path, isDir) }

// newTestExporter builds an Exporter with its run state initialized, so the
// pipeline can be exercised without a full Export call.
func newTestExporter(t *testing.T, settings Settings, predicate IgnorePredicate) *Exporter {
	t.Helper()
	ex, err := New(settings, predicate, zap.NewNop())
	require.NoError(t, err)
	ex.visited = &visitedSet{}
	ex.counters = &exclusionCounters{}
	return ex
}
