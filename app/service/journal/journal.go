package journal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/do"
)

var maxEntries = 500

// Entry is one timestamped line of the activity log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Journal is an append-only, bounded in-memory activity log. Every entry is
// mirrored to slog.
type Journal struct {
	m       sync.Mutex
	entries []Entry
}

func New(di *do.Injector) (*Journal, error) {
	return &Journal{}, nil
}

func (j *Journal) Append(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	j.m.Lock()
	j.entries = append(j.entries, Entry{Timestamp: time.Now(), Message: msg})
	if len(j.entries) > maxEntries {
		j.entries = j.entries[len(j.entries)-maxEntries:]
	}
	j.m.Unlock()

	slog.Info(msg)
}

// Entries returns a copy of the log, oldest first.
func (j *Journal) Entries() []Entry {
	j.m.Lock()
	defer j.m.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}
