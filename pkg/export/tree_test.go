package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPathTree(t *testing.T) {
	paths := []string{
		"proj/src/a.go",
		"proj/src/sub/b.go",
		"proj/README.md",
	}
	want := strings.Join([]string{
		"└── proj",
		"    ├── src",
		"    │   ├── sub",
		"    │   │   └── b.go",
		"    │   └── a.go",
		"    └── README.md",
		"",
	}, "\n")
	assert.Equal(t, want, renderPathTree(paths, true))
}

func TestRenderPathTreeDirectoriesOnly(t *testing.T) {
	paths := []string{
		"proj/src/a.go",
		"proj/src/sub/b.go",
		"proj/README.md",
	}
	want := "└── proj\n    └── src\n        └── sub\n"
	assert.Equal(t, want, renderPathTree(paths, false))
}

func TestRenderPathTreeMultipleRoots(t *testing.T) {
	paths := []string{"beta/b.txt", "alpha/a.txt"}
	want := strings.Join([]string{
		"├── alpha",
		"│   └── a.txt",
		"└── beta",
		"    └── b.txt",
		"",
	}, "\n")
	assert.Equal(t, want, renderPathTree(paths, true))
}

func TestRenderPathTreeCaseInsensitiveOrder(t *testing.T) {
	want := "└── x\n    ├── a.go\n    └── B.go\n"
	assert.Equal(t, want, renderPathTree([]string{"x/B.go", "x/a.go"}, true))
}

func TestRenderPathTreeEmpty(t *testing.T) {
	assert.Empty(t, renderPathTree(nil, true))
}
