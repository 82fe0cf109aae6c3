package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// lenCounter scores one token per byte so summary numbers are predictable.
type lenCounter struct{}

func (lenCounter) Count(text string) int { return len(text) }

func TestSummaryPlain(t *testing.T) {
	s := &summarizer{counter: lenCounter{}, topFiles: 2}
	result := &Result{
		Files: []FileContent{
			{Path: "small.go", Content: "ab"},
			{Path: "big.go", Content: "abcdefghij"},
			{Path: "mid.go", Content: "abcde"},
		},
		ProcessedFiles: 3,
	}
	out := s.render(result, FormatPlainText)

	assert.Contains(t, out, "Repository summary\n")
	assert.Contains(t, out, "Files: 3")
	assert.Contains(t, out, "Characters: 17")
	assert.Contains(t, out, "Tokens: 17")
	assert.Contains(t, out, "1. big.go (10 tokens, 10 characters)")
	assert.Contains(t, out, "2. mid.go (5 tokens, 5 characters)")
	assert.NotContains(t, out, "small.go")
	assert.NotContains(t, out, "Excluded files")
	assert.NotContains(t, out, "File limit reached")
}

func TestSummaryBreaksTokenTiesByPath(t *testing.T) {
	s := &summarizer{counter: lenCounter{}, topFiles: 2}
	result := &Result{
		Files: []FileContent{
			{Path: "zz.go", Content: "abc"},
			{Path: "aa.go", Content: "xyz"},
		},
		ProcessedFiles: 2,
	}
	out := s.render(result, FormatPlainText)

	assert.Contains(t, out, "1. aa.go (3 tokens, 3 characters)")
	assert.Contains(t, out, "2. zz.go (3 tokens, 3 characters)")
}

func TestSummaryMarkdown(t *testing.T) {
	s := &summarizer{counter: lenCounter{}, topFiles: 10}
	result := &Result{
		Files:          []FileContent{{Path: "a.go", Content: "abc"}},
		ProcessedFiles: 1,
	}
	out := s.render(result, FormatMarkdown)

	assert.Contains(t, out, "## Repository summary")
	assert.Contains(t, out, "- Files: 1")
	assert.Contains(t, out, "### Largest files")
	assert.Contains(t, out, "| a.go | 3 | 3 |")
}

func TestSummaryXMLWrappedInComment(t *testing.T) {
	s := &summarizer{counter: lenCounter{}, topFiles: 1}
	out := s.render(&Result{}, FormatXML)

	assert.True(t, strings.HasPrefix(out, "<!-- "))
	assert.True(t, strings.HasSuffix(out, "-->"))
	assert.NotContains(t, strings.TrimSuffix(strings.TrimPrefix(out, "<!-- "), "-->"), "--")
}

func TestSummaryExclusionsAndLimit(t *testing.T) {
	s := &summarizer{counter: lenCounter{}, topFiles: 0}
	result := &Result{
		LimitReached: true,
		Exclusions:   Exclusions{BySize: 2, ByFilter: 1},
	}
	out := s.render(result, FormatPlainText)

	assert.Contains(t, out, "Excluded files: 3")
	assert.Contains(t, out, "File limit reached; output is partial.")
	assert.NotContains(t, out, "Largest files")
}
