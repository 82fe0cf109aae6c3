package export

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// IgnorePredicate reports whether a path is excluded by ignore-file rules,
// for example rules loaded from .gitignore. Implementations must be safe for
// concurrent use; the engine calls it from several tasks at once. Paths are
// absolute.
type IgnorePredicate interface {
	IsIgnored(path string, isDir bool) bool
}

// isIgnored consults the predicate, recovering from a panicking
// implementation. A predicate failure never rejects an entry: the engine
// logs, fails open and keeps going.
func (ex *Exporter) isIgnored(e Entry) (ignored bool) {
	if ex.predicate == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			ex.logger.Warn("Ignore predicate failed",
				zap.String("path", e.Path()),
				zap.Any("error", r))
			ignored = false
		}
	}()
	return ex.predicate.IsIgnored(e.Path(), e.IsDir())
}

// matchesFilters applies the filename suffix filters. Filters are normalized
// to a leading dot, so "go" and ".go" behave the same.
func (ex *Exporter) matchesFilters(name string) bool {
	if !ex.settings.FiltersEnabled || len(ex.settings.FilenameFilters) == 0 {
		return true
	}
	for _, filter := range ex.settings.FilenameFilters {
		if filter == "" {
			continue
		}
		if !strings.HasPrefix(filter, ".") {
			filter = "." + filter
		}
		if strings.HasSuffix(name, filter) {
			return true
		}
	}
	return false
}

// evaluate runs the exclusion pipeline over one file and renders its
// content. The checks run cheapest first so most rejections never touch the
// file's bytes. Every rejection has been counted by the time evaluate
// returns false; unreadable files are the one silent case, skipped without a
// counter so a transient read error never distorts the statistics.
func (ex *Exporter) evaluate(ctx context.Context, e Entry, relPath string, explicit bool) (string, bool) {
	if ex.settings.IgnoredNames[e.Name()] {
		ex.counters.inc(reasonIgnoredName)
		return "", false
	}
	if !explicit && ex.isIgnored(e) {
		ex.counters.inc(reasonGitignore)
		return "", false
	}
	if hasBinaryExtension(e.Extension()) {
		ex.counters.inc(reasonBinaryContent)
		return "", false
	}
	if e.Size() > ex.settings.MaxFileSizeBytes {
		ex.counters.inc(reasonSize)
		return "", false
	}
	if ex.classifier.isBinary(e) {
		ex.counters.inc(reasonBinaryContent)
		return "", false
	}
	if !ex.matchesFilters(e.Name()) {
		ex.counters.recordExtension(e.Extension())
		ex.counters.inc(reasonFilter)
		return "", false
	}

	if ctx.Err() != nil {
		return "", false
	}
	content, err := readAll(e)
	if err != nil {
		ex.logger.Debug("Skipping unreadable file",
			zap.String("path", e.Path()),
			zap.Error(err))
		return "", false
	}

	if ex.settings.IncludeLineNumbers {
		content = numberLines(content)
	}
	if ex.settings.IncludePathPrefix && !hasPathHeader(content) {
		content = pathHeader(relPath, e.Extension()) + "\n" + content
	}
	return content, true
}

func readAll(e Entry) (string, error) {
	f, err := e.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
