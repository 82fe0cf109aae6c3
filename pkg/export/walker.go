package export

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc receives the number of files accepted so far. It is invoked
// from worker goroutines, so implementations must be safe for concurrent
// use.
type ProgressFunc func(accepted int64)

// Exporter walks selected roots, filters their files and renders the export
// document. An Exporter may be reused for several runs in sequence; the
// binary verdict cache carries over, everything else is per run. Export must
// not be called concurrently on the same Exporter.
type Exporter struct {
	settings   Settings
	predicate  IgnorePredicate
	logger     *zap.Logger
	classifier *classifier
	summary    *summarizer
	progress   ProgressFunc

	// run-scoped state, rebuilt by every Export call
	visited   *visitedSet
	counters  *exclusionCounters
	accepted  atomic.Int64
	cancelRun context.CancelFunc
}

// New validates settings and builds an Exporter. The predicate may be nil,
// in which case no ignore rules apply.
func New(settings Settings, predicate IgnorePredicate, logger *zap.Logger) (*Exporter, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export settings: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		settings:   settings,
		predicate:  predicate,
		logger:     logger,
		classifier: newClassifier(),
		summary:    newSummarizer(settings.TokenizerModel),
	}, nil
}

// OnProgress registers a callback for subsequent Export calls.
func (ex *Exporter) OnProgress(fn ProgressFunc) {
	ex.progress = fn
}

// Export walks the selected roots and builds the output document. It does
// not fail: per-file errors are recovered and the file is skipped, and
// reaching the file cap cancels the remaining work as a normal termination
// path. Canceling ctx abandons the run early and returns whatever was
// accepted up to that point.
func (ex *Exporter) Export(ctx context.Context, roots ...string) *Result {
	start := time.Now()
	runID := uuid.NewString()
	logger := ex.logger.With(zap.String("run_id", runID))

	ex.visited = &visitedSet{}
	ex.counters = &exclusionCounters{}
	ex.accepted.Store(0)

	// Roots are claimed before any task starts. A root reached later through
	// another root's recursion then loses the claim, so the explicit
	// selection always wins its bypass of the ignore predicate.
	entries := make([]Entry, 0, len(roots))
	for _, root := range roots {
		e := NewEntry(root)
		if !e.Exists() {
			logger.Warn("Skipping unresolvable root", zap.String("path", root))
			continue
		}
		if !ex.visited.claim(e.Path()) {
			continue
		}
		entries = append(entries, e)
	}
	base := commonBase(entries)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ex.cancelRun = cancel

	workers := ex.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Info("Starting export",
		zap.Int("roots", len(entries)),
		zap.Int("workers", workers),
		zap.Int("max_files", ex.settings.MaxFiles),
		zap.String("format", string(ex.settings.Format)))

	// One task per root; recursion below a root stays inside its task so the
	// task count is bounded by the number of roots, not the number of files.
	buffers := make([][]FileContent, len(entries))
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(workers)
	for i, root := range entries {
		g.Go(func() error {
			buffers[i] = ex.process(gctx, root, base, true, nil)
			return nil
		})
	}
	g.Wait()

	var files []FileContent
	for _, buf := range buffers {
		files = append(files, buf...)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	result := &Result{
		RunID:              runID,
		Files:              files,
		ProcessedFiles:     len(files),
		LimitReached:       ex.accepted.Load() >= int64(ex.settings.MaxFiles),
		Exclusions:         ex.counters.snapshot(),
		RejectedExtensions: ex.counters.extensions(),
	}
	result.Output = ex.render(result)
	result.Duration = time.Since(start)

	logger.Info("Export finished",
		zap.Int("files", result.ProcessedFiles),
		zap.Bool("limit_reached", result.LimitReached),
		zap.Int64("excluded", result.Exclusions.Total()),
		zap.Duration("duration", result.Duration))
	return result
}

// visit claims one entry and, if the claim wins, processes it and
// everything below it. A lost claim means another task already owns the
// entry, which happens when selected roots overlap.
func (ex *Exporter) visit(ctx context.Context, e Entry, base string, explicit bool, buf []FileContent) []FileContent {
	if ctx.Err() != nil {
		return buf
	}
	if !e.Exists() {
		return buf
	}
	if !ex.visited.claim(e.Path()) {
		return buf
	}
	return ex.process(ctx, e, base, explicit, buf)
}

// process handles an already claimed entry, appending accepted files to
// buf. The explicit flag marks entries selected directly by the caller;
// only those bypass the ignore predicate. Recursion stays inside the
// calling task.
func (ex *Exporter) process(ctx context.Context, e Entry, base string, explicit bool, buf []FileContent) []FileContent {
	if ctx.Err() != nil {
		return buf
	}

	if e.IsDir() {
		if ex.settings.IgnoredNames[e.Name()] {
			return buf
		}
		if !explicit && ex.isIgnored(e) {
			return buf
		}
		children, err := e.Children()
		if err != nil {
			ex.logger.Debug("Skipping unreadable directory",
				zap.String("path", e.Path()),
				zap.Error(err))
			return buf
		}
		for _, child := range children {
			if ctx.Err() != nil {
				return buf
			}
			if ex.capReached() {
				ex.cancelRun()
				return buf
			}
			buf = ex.visit(ctx, child, base, false, buf)
		}
		return buf
	}

	if !e.Regular() {
		return buf
	}
	return ex.visitFile(ctx, e, base, explicit, buf)
}

// visitFile runs the pipeline over one file and, on acceptance, reserves one
// of the MaxFiles slots. Reservations are atomic: when several tasks pass
// the cap pre-check at once, the ones whose reservation number exceeds the
// cap discard their rendered content, keeping accepted files at or under
// MaxFiles exactly.
func (ex *Exporter) visitFile(ctx context.Context, e Entry, base string, explicit bool, buf []FileContent) []FileContent {
	if ex.capReached() {
		ex.cancelRun()
		return buf
	}

	relPath := relativeTo(base, e.Path())
	content, ok := ex.evaluate(ctx, e, relPath, explicit)
	if !ok {
		return buf
	}

	n := ex.accepted.Add(1)
	if n > int64(ex.settings.MaxFiles) {
		// lost a reservation race with a sibling task
		ex.cancelRun()
		return buf
	}
	buf = append(buf, FileContent{Path: relPath, Content: content})
	if ex.progress != nil {
		ex.progress(n)
	}
	if n == int64(ex.settings.MaxFiles) {
		ex.cancelRun()
	}
	return buf
}

func (ex *Exporter) capReached() bool {
	return ex.accepted.Load() >= int64(ex.settings.MaxFiles)
}

// commonBase returns the deepest directory containing every root, so that
// relative paths come out identical no matter which root's task reaches a
// shared file first.
func commonBase(roots []Entry) string {
	if len(roots) == 0 {
		return ""
	}
	base := filepath.Dir(roots[0].Path())
	for _, root := range roots[1:] {
		base = commonPrefixDir(base, filepath.Dir(root.Path()))
	}
	return base
}

// commonPrefixDir returns the longest directory prefix shared by a and b.
func commonPrefixDir(a, b string) string {
	if a == b {
		return a
	}
	sep := string(filepath.Separator)
	as := strings.Split(a, sep)
	bs := strings.Split(b, sep)
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	prefix := strings.Join(as[:n], sep)
	if prefix == "" {
		return sep
	}
	return prefix
}

// relativeTo renders path relative to base with forward slashes, so the
// document looks the same on every platform.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
