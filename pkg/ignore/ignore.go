package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// Matcher aggregates ignore rules from any number of ignore files or
// pattern lists and answers exclusion queries for absolute paths. It
// satisfies the export engine's IgnorePredicate. Configure it fully before
// starting a run; afterwards it is read-only and safe for concurrent use.
type Matcher struct {
	scopes []scope
	logger *zap.Logger
}

// scope applies one rule set below its base directory. Queries outside the
// base never consult the rule set.
type scope struct {
	base    string
	matcher gitignore.IgnoreMatcher
}

// NewMatcher returns a Matcher with no rules; it ignores nothing until
// files or patterns are added.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// ForRoots builds a Matcher preloaded with the .gitignore next to each
// root. Roots without one contribute no rules.
func ForRoots(logger *zap.Logger, roots ...string) *Matcher {
	m := NewMatcher(logger)
	for _, root := range roots {
		m.AddRoot(root)
	}
	return m
}

// AddRoot loads the .gitignore of the directory at root, or of the
// containing directory when root is a file.
func (m *Matcher) AddRoot(root string) {
	dir := root
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		dir = filepath.Dir(root)
	}
	if err := m.AddFile(filepath.Join(dir, ".gitignore")); err != nil {
		m.logger.Warn("Failed to load ignore file",
			zap.String("root", root),
			zap.Error(err))
	}
}

// AddFile compiles one ignore file, scoping its rules below the file's
// directory. A missing file is not an error.
func (m *Matcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	matcher, err := gitignore.NewGitIgnore(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	m.scopes = append(m.scopes, scope{base: filepath.Dir(abs), matcher: matcher})
	m.logger.Debug("Loaded ignore file", zap.String("path", abs))
	return nil
}

// AddPatterns compiles literal gitignore pattern lines scoped below base.
func (m *Matcher) AddPatterns(base string, patterns ...string) {
	if len(patterns) == 0 {
		return
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		abs = filepath.Clean(base)
	}
	reader := strings.NewReader(strings.Join(patterns, "\n"))
	m.scopes = append(m.scopes, scope{
		base:    abs,
		matcher: gitignore.NewGitIgnoreFromReader(abs, reader),
	})
}

// IsIgnored reports whether any rule set excludes the absolute path.
func (m *Matcher) IsIgnored(path string, isDir bool) bool {
	for _, s := range m.scopes {
		if !s.contains(path) {
			continue
		}
		if s.matcher.Match(path, isDir) {
			return true
		}
	}
	return false
}

func (s scope) contains(path string) bool {
	rel, err := filepath.Rel(s.base, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
