package export

import "sync"

// visitedSet records which entries a run has already claimed. The atomic
// insert-if-absent result is the sole gate deciding whether a task may
// process an entry, so no two tasks ever process the same path even when
// selected roots overlap.
type visitedSet struct {
	entries sync.Map
}

// claim admits key exactly once across all tasks. It returns true for the
// single caller that inserted the key and false for everyone after.
func (v *visitedSet) claim(key string) bool {
	_, loaded := v.entries.LoadOrStore(key, struct{}{})
	return !loaded
}
