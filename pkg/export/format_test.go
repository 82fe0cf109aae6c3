package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleEntries() []FileContent {
	return []FileContent{
		{Path: "a.py", Content: "print(1)"},
		{Path: "b.kt", Content: "fun f(){}"},
	}
}

func TestRenderPlain(t *testing.T) {
	assert.Equal(t, "print(1)\nfun f(){}", renderPlain(sampleEntries()))
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown(sampleEntries())
	assert.Contains(t, out, "### a.py\n\n```python\nprint(1)\n```")
	assert.Contains(t, out, "### b.kt\n\n```kotlin\nfun f(){}\n```")
}

func TestRenderMarkdownUnknownExtensionFallsBackToText(t *testing.T) {
	out := renderMarkdown([]FileContent{{Path: "notes.xyz", Content: "hello"}})
	assert.Contains(t, out, "```text\nhello\n```")
}

func TestRenderMarkdownStripsHeaderLine(t *testing.T) {
	files := []FileContent{{Path: "a.py", Content: "# filename: a.py\nprint(1)"}}
	out := renderMarkdown(files)
	assert.NotContains(t, out, "filename:")
	assert.Contains(t, out, "```python\nprint(1)\n```")
}

type xmlFile struct {
	Path    string `xml:"path,attr"`
	Content string `xml:"content"`
}

type xmlDoc struct {
	Files []xmlFile `xml:"file"`
}

func TestRenderXMLRoundTrip(t *testing.T) {
	out := renderXML(sampleEntries())
	assert.Contains(t, out, `<file path="a.py">`)

	var doc xmlDoc
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.py", doc.Files[0].Path)
	assert.Equal(t, "print(1)", doc.Files[0].Content)
	assert.Equal(t, "b.kt", doc.Files[1].Path)
	assert.Equal(t, "fun f(){}", doc.Files[1].Content)
}

func TestRenderXMLCDATAInjection(t *testing.T) {
	files := []FileContent{{Path: "evil.txt", Content: "a]]>b]]>c"}}
	out := renderXML(files)

	var doc xmlDoc
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "a]]>b]]>c", doc.Files[0].Content)
}

func TestRenderXMLEscapesPathAttribute(t *testing.T) {
	files := []FileContent{{Path: `we&ird<"name">.go`, Content: "x"}}
	out := renderXML(files)

	var doc xmlDoc
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 1)
	assert.Equal(t, `we&ird<"name">.go`, doc.Files[0].Path)
}

func TestEscapeXMLAttr(t *testing.T) {
	assert.Equal(t, "a&amp;b&lt;c&gt;d&quot;e&apos;f", escapeXMLAttr(`a&b<c>d"e'f`))
}

func TestEscapeXMLComment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain name", "plain name"},
		{"semi-detached", "semi-detached"},
		{"stage--prod", "stage- -prod"},
		{"a---b", "a- - -b"},
		{"----", "- - - -"},
	}
	for _, tc := range cases {
		got := escapeXMLComment(tc.in)
		assert.Equal(t, tc.want, got)
		assert.NotContains(t, got, "--")
	}
}

func TestRenderFullDocumentOrder(t *testing.T) {
	settings := NewSettings()
	settings.IncludeRepositorySummary = true
	ex, err := New(settings, nil, zap.NewNop())
	require.NoError(t, err)
	ex.summary.counter = lenCounter{}

	result := &Result{
		Files:          []FileContent{{Path: "p/a.go", Content: "package a\n"}},
		ProcessedFiles: 1,
	}
	out := ex.render(result)

	sumIdx := strings.Index(out, "## Repository summary")
	treeIdx := strings.Index(out, "## Directory structure")
	bodyIdx := strings.Index(out, "### p/a.go")
	require.GreaterOrEqual(t, sumIdx, 0)
	require.GreaterOrEqual(t, treeIdx, 0)
	require.GreaterOrEqual(t, bodyIdx, 0)
	assert.Less(t, sumIdx, treeIdx)
	assert.Less(t, treeIdx, bodyIdx)
}

func TestRenderXMLDocumentWithBlocksStaysParseable(t *testing.T) {
	settings := NewSettings()
	settings.Format = FormatXML
	settings.IncludeRepositorySummary = true
	ex, err := New(settings, nil, zap.NewNop())
	require.NoError(t, err)
	ex.summary.counter = lenCounter{}

	result := &Result{
		Files: []FileContent{
			{Path: "001/stage--prod.txt", Content: "v=1\n"},
			{Path: "a.go", Content: "package a\n"},
		},
		ProcessedFiles: 2,
	}
	out := ex.render(result)

	// the summary and tree are wrapped in comments ahead of the root element;
	// the dashed file name must not break them
	var doc xmlDoc
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "001/stage--prod.txt", doc.Files[0].Path)
	assert.Equal(t, "a.go", doc.Files[1].Path)
}
