package gamelog

import (
	"fmt"
	"sync"
	"time"

	"towers/game"
)

// DefaultCapacity is how many entries a Recorder keeps before dropping the
// oldest.
const DefaultCapacity = 1000

// Entry is one recorded log line.
type Entry struct {
	Time     time.Time     `json:"time"`
	Category game.Category `json:"category"`
	Message  string        `json:"message"`
	Fields   game.Fields   `json:"fields,omitempty"`
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %-12s %s", e.Time.Format(time.TimeOnly), e.Category, e.Message)
}

// Recorder is a bounded in-memory sink. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{capacity: capacity, now: time.Now}
}

func (r *Recorder) Log(category game.Category, message string, fields game.Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, Entry{
		Time:     r.now(),
		Category: category,
		Message:  message,
		Fields:   fields,
	})
}

// Entries returns the recorded entries, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the recorded entries of one category, oldest first.
func (r *Recorder) Filter(category game.Category) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}
