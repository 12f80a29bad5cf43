package batch

import (
	"fmt"
	"sync"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Diagnostics collects non-fatal findings of a run: malformed responses,
// count mismatches and backend warnings. A nil *Diagnostics discards entries.
type Diagnostics struct {
	mu      sync.Mutex
	entries []string
}

func (d *Diagnostics) Addf(format string, args ...interface{}) {
	if d == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	log.Warn("%s", msg)

	d.mu.Lock()
	d.entries = append(d.entries, msg)
	d.mu.Unlock()
}

// Entries returns a copy of the recorded messages in order.
func (d *Diagnostics) Entries() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.entries...)
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
