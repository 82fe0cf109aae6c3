package export

import (
	"fmt"
)

// OutputFormat selects the serialization of the final document.
type OutputFormat string

const (
	// FormatPlainText joins the rendered file contents with newlines and no markup.
	FormatPlainText OutputFormat = "plain"
	// FormatMarkdown renders one heading plus fenced code block per file.
	FormatMarkdown OutputFormat = "markdown"
	// FormatXML wraps each file in a <file> element with CDATA content.
	FormatXML OutputFormat = "xml"
)

// Defaults applied by NewSettings and accepted by Validate.
const (
	DefaultMaxFiles        = 1000
	DefaultMaxFileSize     = 1024 * 1024 // 1 MiB
	DefaultTokenizerModel  = "gpt-4o"
	DefaultSummaryTopFiles = 10
)

// DefaultIgnoredNames lists directory and file names skipped by default.
// Callers may replace the set entirely; NameSet builds one from a slice.
var DefaultIgnoredNames = NameSet(
	".git", ".svn", ".hg", ".idea", ".vscode", ".gradle", ".DS_Store",
	"node_modules", "__pycache__", "venv", ".venv",
	"build", "dist", "out", "target", "bin", "obj",
)

// Settings holds the configuration for one export run. A Settings value is
// immutable once handed to New; the engine never writes to it.
type Settings struct {
	MaxFiles                  int             // Global cap on the number of files included in the output.
	MaxFileSizeBytes          int64           // Files larger than this are excluded.
	IgnoredNames              map[string]bool // Entry names (files or directories) skipped outright.
	FilenameFilters           []string        // Suffix filters, e.g. ".go"; normalized to a leading dot.
	FiltersEnabled            bool            // When false, FilenameFilters is not consulted.
	IncludePathPrefix         bool            // Prepend a comment header line naming each file.
	IncludeLineNumbers        bool            // Number each content line, width-padded to the line count.
	IncludeDirectoryStructure bool            // Prepend a rendered directory tree.
	IncludeFilesInStructure   bool            // Show files (not only directories) in the tree.
	IncludeRepositorySummary  bool            // Prepend a character/token count summary block.
	Format                    OutputFormat    // Output serialization.
	TokenizerModel            string          // tiktoken model used for summary token counts.
	Workers                   int             // Concurrent root tasks; 0 means the number of CPUs.
}

// NewSettings returns a Settings value with all defaults filled in. The
// ignored-name set is a copy, so callers may extend it freely.
func NewSettings() Settings {
	ignored := make(map[string]bool, len(DefaultIgnoredNames))
	for name := range DefaultIgnoredNames {
		ignored[name] = true
	}
	return Settings{
		MaxFiles:                  DefaultMaxFiles,
		MaxFileSizeBytes:          DefaultMaxFileSize,
		IgnoredNames:              ignored,
		IncludePathPrefix:         true,
		IncludeDirectoryStructure: true,
		IncludeFilesInStructure:   true,
		Format:                    FormatMarkdown,
		TokenizerModel:            DefaultTokenizerModel,
	}
}

// NameSet builds a lookup set from a list of entry names.
func NameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Validate rejects configurations that must not start a run. It is called by
// New so that bad settings surface before any traversal happens.
func (s Settings) Validate() error {
	if s.MaxFiles <= 0 {
		return fmt.Errorf("max files must be positive, got %d", s.MaxFiles)
	}
	if s.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", s.MaxFileSizeBytes)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	switch s.Format {
	case FormatPlainText, FormatMarkdown, FormatXML:
	default:
		return fmt.Errorf("unknown output format %q", s.Format)
	}
	return nil
}
