package export

import "time"

// FileContent is one accepted file: its path relative to the export base and
// its fully rendered content, including any header line and line numbers.
type FileContent struct {
	Path    string
	Content string
}

// Exclusions counts the files rejected by each pipeline stage during a run.
type Exclusions struct {
	ByFilter        int64
	BySize          int64
	ByBinaryContent int64
	ByIgnoredName   int64
	ByGitignore     int64
}

// Total returns the number of files excluded across all categories.
func (e Exclusions) Total() int64 {
	return e.ByFilter + e.BySize + e.ByBinaryContent + e.ByIgnoredName + e.ByGitignore
}

// Result is the immutable outcome of one export run. A run stopped by the
// file cap still carries everything accepted before the cap was reached;
// LimitReached tells the two cases apart.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Output is the serialized document in the configured format.
	Output string
	// Files lists the accepted files sorted by relative path.
	Files []FileContent
	// ProcessedFiles is the number of files included in the output.
	ProcessedFiles int
	// LimitReached reports that the run stopped at the MaxFiles cap.
	LimitReached bool
	// Exclusions breaks down the rejected files by pipeline stage.
	Exclusions Exclusions
	// RejectedExtensions lists, sorted, the extensions turned away by the
	// filename filters.
	RejectedExtensions []string
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// IncludedPaths returns the relative paths of the accepted files in output
// order.
func (r *Result) IncludedPaths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}
