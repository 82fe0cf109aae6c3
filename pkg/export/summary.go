package export

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter counts text tokens for the summary block. Split out as an
// interface so tests can swap in a deterministic counter.
type tokenCounter interface {
	Count(text string) int
}

// tiktokenCounter counts tokens with the BPE encoding for a model name.
// Encoding setup is lazy and failures degrade to a character estimate, so a
// run without the encoding data still produces a summary.
type tiktokenCounter struct {
	model string
	once  sync.Once
	enc   *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	c.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(c.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(c.enc.EncodeOrdinary(text))
}

// summarizer renders the repository summary block: aggregate counts plus the
// largest files by token count.
type summarizer struct {
	counter  tokenCounter
	topFiles int
}

func newSummarizer(model string) *summarizer {
	return &summarizer{
		counter:  &tiktokenCounter{model: model},
		topFiles: DefaultSummaryTopFiles,
	}
}

type fileStat struct {
	path   string
	chars  int
	tokens int
}

// stats measures every file and returns the per-file records sorted largest
// first, plus the character and token totals.
func (s *summarizer) stats(files []FileContent) ([]fileStat, int, int) {
	stats := make([]fileStat, len(files))
	totalChars, totalTokens := 0, 0
	for i, f := range files {
		st := fileStat{
			path:   f.Path,
			chars:  len(f.Content),
			tokens: s.counter.Count(f.Content),
		}
		stats[i] = st
		totalChars += st.chars
		totalTokens += st.tokens
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].tokens != stats[j].tokens {
			return stats[i].tokens > stats[j].tokens
		}
		return stats[i].path < stats[j].path
	})
	return stats, totalChars, totalTokens
}

// render builds the summary block for the given output format.
func (s *summarizer) render(result *Result, format OutputFormat) string {
	switch format {
	case FormatMarkdown:
		return s.renderMarkdown(result)
	case FormatXML:
		// wrapped in a comment so the XML document stays parseable
		return "<!-- " + escapeXMLComment(s.renderPlain(result)) + "-->"
	default:
		return s.renderPlain(result)
	}
}

func (s *summarizer) renderPlain(result *Result) string {
	stats, chars, tokens := s.stats(result.Files)

	var b strings.Builder
	b.WriteString("Repository summary\n")
	fmt.Fprintf(&b, "Files: %d\n", result.ProcessedFiles)
	fmt.Fprintf(&b, "Characters: %d\n", chars)
	fmt.Fprintf(&b, "Tokens: %d\n", tokens)
	if excluded := result.Exclusions.Total(); excluded > 0 {
		fmt.Fprintf(&b, "Excluded files: %d\n", excluded)
	}
	if result.LimitReached {
		b.WriteString("File limit reached; output is partial.\n")
	}
	if n := min(s.topFiles, len(stats)); n > 0 {
		b.WriteString("Largest files:\n")
		for i, st := range stats[:n] {
			fmt.Fprintf(&b, "%d. %s (%d tokens, %d characters)\n",
				i+1, st.path, st.tokens, st.chars)
		}
	}
	return b.String()
}

func (s *summarizer) renderMarkdown(result *Result) string {
	stats, chars, tokens := s.stats(result.Files)

	var b strings.Builder
	b.WriteString("## Repository summary\n\n")
	fmt.Fprintf(&b, "- Files: %d\n", result.ProcessedFiles)
	fmt.Fprintf(&b, "- Characters: %d\n", chars)
	fmt.Fprintf(&b, "- Tokens: %d\n", tokens)
	if excluded := result.Exclusions.Total(); excluded > 0 {
		fmt.Fprintf(&b, "- Excluded files: %d\n", excluded)
	}
	if result.LimitReached {
		b.WriteString("- File limit reached; output is partial.\n")
	}
	if n := min(s.topFiles, len(stats)); n > 0 {
		b.WriteString("\n### Largest files\n\n")
		b.WriteString("| Path | Tokens | Characters |\n")
		b.WriteString("| --- | ---: | ---: |\n")
		for _, st := range stats[:n] {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", st.path, st.tokens, st.chars)
		}
	}
	return b.String()
}
