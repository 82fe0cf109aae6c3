package export

import (
	"sort"
	"sync"
	"sync/atomic"
)

// rejectReason names the pipeline stage that excluded a file.
type rejectReason int

const (
	reasonFilter rejectReason = iota
	reasonSize
	reasonBinaryContent
	reasonIgnoredName
	reasonGitignore
)

// exclusionCounters accumulates rejection statistics for one run. All fields
// are updated with atomic operations so thousands of small-file rejections
// never serialize on a mutex.
type exclusionCounters struct {
	byFilter        atomic.Int64
	bySize          atomic.Int64
	byBinaryContent atomic.Int64
	byIgnoredName   atomic.Int64
	byGitignore     atomic.Int64

	rejectedExtensions sync.Map // extension -> struct{}
}

func (c *exclusionCounters) inc(reason rejectReason) {
	switch reason {
	case reasonFilter:
		c.byFilter.Add(1)
	case reasonSize:
		c.bySize.Add(1)
	case reasonBinaryContent:
		c.byBinaryContent.Add(1)
	case reasonIgnoredName:
		c.byIgnoredName.Add(1)
	case reasonGitignore:
		c.byGitignore.Add(1)
	}
}

// recordExtension remembers the extension of a file rejected by the filename
// filters. Empty extensions are not recorded.
func (c *exclusionCounters) recordExtension(ext string) {
	if ext == "" {
		return
	}
	c.rejectedExtensions.Store(ext, struct{}{})
}

// snapshot reads the counters into an Exclusions record. Only called after
// all tasks have joined, so the loads observe every increment.
func (c *exclusionCounters) snapshot() Exclusions {
	return Exclusions{
		ByFilter:        c.byFilter.Load(),
		BySize:          c.bySize.Load(),
		ByBinaryContent: c.byBinaryContent.Load(),
		ByIgnoredName:   c.byIgnoredName.Load(),
		ByGitignore:     c.byGitignore.Load(),
	}
}

// extensions returns the recorded extensions in sorted order.
func (c *exclusionCounters) extensions() []string {
	var exts []string
	c.rejectedExtensions.Range(func(key, _ any) bool {
		exts = append(exts, key.(string))
		return true
	})
	sort.Strings(exts)
	return exts
}
