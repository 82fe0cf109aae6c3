package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAcceptsPlainFile(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/main.go", []byte("package main\n"))

	content, ok := ex.evaluate(context.Background(), e, "src/main.go", false)
	require.True(t, ok)
	assert.Equal(t, "// filename: src/main.go\npackage main\n", content)
	assert.Equal(t, Exclusions{}, ex.counters.snapshot())
}

func TestEvaluateIgnoredName(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/.DS_Store", []byte("junk"))

	_, ok := ex.evaluate(context.Background(), e, ".DS_Store", false)
	require.False(t, ok)
	assert.Equal(t, int64(1), ex.counters.snapshot().ByIgnoredName)
}

func TestEvaluateIgnorePredicate(t *testing.T) {
	ignoreAll := predicateFunc(func(string, bool) bool { return true })
	ex := newTestExporter(t, NewSettings(), ignoreAll)
	e := newFakeFile("/src/secret.txt", []byte("text"))

	_, ok := ex.evaluate(context.Background(), e, "secret.txt", false)
	require.False(t, ok)
	assert.Equal(t, int64(1), ex.counters.snapshot().ByGitignore)

	// the same file accepted when selected explicitly
	content, ok := ex.evaluate(context.Background(), e, "secret.txt", true)
	require.True(t, ok)
	assert.Contains(t, content, "text")
}

func TestEvaluatePredicatePanicFailsOpen(t *testing.T) {
	panicky := predicateFunc(func(string, bool) bool { panic("boom") })
	ex := newTestExporter(t, NewSettings(), panicky)
	e := newFakeFile("/src/a.go", []byte("package a\n"))

	_, ok := ex.evaluate(context.Background(), e, "a.go", false)
	assert.True(t, ok)
	assert.Equal(t, int64(0), ex.counters.snapshot().ByGitignore)
}

func TestEvaluateBinaryExtensionSkipsContent(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/assets/logo.png", []byte("not even read"))

	_, ok := ex.evaluate(context.Background(), e, "assets/logo.png", false)
	require.False(t, ok)
	assert.Equal(t, int64(1), ex.counters.snapshot().ByBinaryContent)
	assert.Equal(t, 0, e.opens, "denylisted extensions must not be opened")
}

func TestEvaluateSizeLimit(t *testing.T) {
	settings := NewSettings()
	settings.MaxFileSizeBytes = 10
	ex := newTestExporter(t, settings, nil)
	e := newFakeFile("/src/big.go", []byte("x"))
	e.size = 11

	_, ok := ex.evaluate(context.Background(), e, "big.go", false)
	require.False(t, ok)
	assert.Equal(t, int64(1), ex.counters.snapshot().BySize)
}

func TestEvaluateBinaryContent(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/blob.dat", []byte("ab\x00cd"))

	_, ok := ex.evaluate(context.Background(), e, "blob.dat", false)
	require.False(t, ok)
	assert.Equal(t, int64(1), ex.counters.snapshot().ByBinaryContent)
	assert.Equal(t, 1, e.opens, "only the sniff should have opened the file")
}

func TestEvaluateFilenameFilters(t *testing.T) {
	settings := NewSettings()
	settings.FiltersEnabled = true
	settings.FilenameFilters = []string{"go", ".md"} // missing dot is normalized
	ex := newTestExporter(t, settings, nil)

	_, ok := ex.evaluate(context.Background(), newFakeFile("/src/main.go", []byte("package main\n")), "main.go", false)
	assert.True(t, ok)

	_, ok = ex.evaluate(context.Background(), newFakeFile("/src/README.md", []byte("# readme\n")), "README.md", false)
	assert.True(t, ok)

	_, ok = ex.evaluate(context.Background(), newFakeFile("/src/notes.txt", []byte("notes\n")), "notes.txt", false)
	require.False(t, ok)

	snap := ex.counters.snapshot()
	assert.Equal(t, int64(1), snap.ByFilter)
	assert.Equal(t, []string{"txt"}, ex.counters.extensions())
}

func TestEvaluateFiltersDisabled(t *testing.T) {
	settings := NewSettings()
	settings.FilenameFilters = []string{".go"}
	settings.FiltersEnabled = false
	ex := newTestExporter(t, settings, nil)

	_, ok := ex.evaluate(context.Background(), newFakeFile("/src/notes.txt", []byte("notes\n")), "notes.txt", false)
	assert.True(t, ok)
}

func TestEvaluateUnreadableFileIsSilentlySkipped(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/locked.go", []byte("package locked\n"))
	e.openErr = errPermission

	_, ok := ex.evaluate(context.Background(), e, "locked.go", false)
	require.False(t, ok)
	assert.Equal(t, Exclusions{}, ex.counters.snapshot(), "read failures must not be counted")
}

func TestEvaluateLineNumbersThenHeader(t *testing.T) {
	settings := NewSettings()
	settings.IncludeLineNumbers = true
	ex := newTestExporter(t, settings, nil)
	e := newFakeFile("/src/ab.go", []byte("a\nb"))

	content, ok := ex.evaluate(context.Background(), e, "src/ab.go", false)
	require.True(t, ok)
	assert.Equal(t, "// filename: src/ab.go\n1: a\n2: b", content,
		"the header line itself must not be numbered")
}

func TestEvaluateDoesNotStackHeaders(t *testing.T) {
	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/reexport.py", []byte("# filename: old/location.py\nprint(1)\n"))

	content, ok := ex.evaluate(context.Background(), e, "src/reexport.py", false)
	require.True(t, ok)
	assert.Equal(t, "# filename: old/location.py\nprint(1)\n", content)
}

func TestEvaluateCanceledContextStopsBeforeRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := newTestExporter(t, NewSettings(), nil)
	e := newFakeFile("/src/late.go", []byte("package late\n"))

	_, ok := ex.evaluate(ctx, e, "late.go", false)
	assert.False(t, ok)
}
