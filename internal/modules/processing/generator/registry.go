package generator

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/site/internal/modules/settings"
)

var ErrRunNotFound = errors.New("generation run not found")

// completedGrace keeps a finished run around long enough for the client to
// read the new post id.
const completedGrace = 5 * time.Minute

// Registry holds the in-memory runs of every author. A run is only visible
// to the author who created it.
type Registry struct {
	mu   sync.Mutex
	runs map[string]*Run
	now  func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run), now: time.Now}
}

// Create starts a run in the parameters stage with fields prefilled from defaults.
func (r *Registry) Create(authorID string, defaults settings.ContentSettings) *Run {
	run := newRun(uuid.NewString(), authorID, defaults, r.now())
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
	return run
}

func (r *Registry) Get(id, authorID string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok || run.AuthorID != authorID {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Delete abandons a run. Generation already in flight is not cancelled and
// still saves its draft.
func (r *Registry) Delete(id, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok || run.AuthorID != authorID {
		return ErrRunNotFound
	}
	delete(r.runs, id)
	return nil
}

// List returns the author's runs, oldest first.
func (r *Registry) List(authorID string) []Snapshot {
	r.mu.Lock()
	runs := make([]*Run, 0, len(r.runs))
	for _, run := range r.runs {
		if run.AuthorID == authorID {
			runs = append(runs, run)
		}
	}
	r.mu.Unlock()

	out := make([]Snapshot, 0, len(runs))
	for _, run := range runs {
		out = append(out, run.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Sweep drops runs idle for longer than ttl and finished runs past their grace
// period. Busy runs are kept. It returns the number removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, run := range r.runs {
		touched, busy, done := run.idleSince()
		if busy {
			continue
		}
		idle := now.Sub(touched)
		if idle > ttl || (done && idle > completedGrace) {
			delete(r.runs, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}
