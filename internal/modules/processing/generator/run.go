package generator

import (
	"sync"
	"time"

	"github.com/leadforge/site/internal/modules/settings"
)

// Run is one user's in-flight article generation. It lives in memory only and
// is dropped once its draft is saved or the user walks away.
type Run struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time

	mu       sync.Mutex
	defaults settings.ContentSettings
	stage    Stage
	step     Step
	busy     bool
	errMsg   string
	postID   string
	touched  time.Time
	watchers map[chan Snapshot]struct{}
}

func newRun(id, authorID string, defaults settings.ContentSettings, now time.Time) *Run {
	return &Run{
		ID:        id,
		AuthorID:  authorID,
		CreatedAt: now,
		defaults:  defaults,
		stage:     &ParametersStage{Params: NewParameters(ParameterInput{}, defaults)},
		touched:   now,
		watchers:  make(map[chan Snapshot]struct{}),
	}
}

// Snapshot is a read-only copy of a run's state.
type Snapshot struct {
	ID             string            `json:"id"`
	Stage          StageName         `json:"stage"`
	GeneratingStep Step              `json:"generatingStep,omitempty"`
	Busy           bool              `json:"busy"`
	Params         ArticleParameters `json:"params"`
	Title          string            `json:"title,omitempty"`
	Outline        string            `json:"outline,omitempty"`
	EditedOutline  string            `json:"editedOutline,omitempty"`
	Sections       []string          `json:"sections,omitempty"`
	TotalSections  int               `json:"totalSections,omitempty"`
	Progress       int               `json:"progress"`
	Error          string            `json:"error,omitempty"`
	PostID         string            `json:"postId,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Done reports whether no further state change will happen without user input.
func (s Snapshot) Done() bool { return !s.Busy }

func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Stage returns the current stage. Callers must not mutate it.
func (r *Run) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

func (r *Run) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             r.ID,
		Stage:          r.stage.Name(),
		GeneratingStep: r.step,
		Busy:           r.busy,
		Error:          r.errMsg,
		PostID:         r.postID,
		CreatedAt:      r.CreatedAt,
	}
	switch st := r.stage.(type) {
	case *ParametersStage:
		snap.Params = st.Params.clone()
		snap.Title, snap.Outline, snap.EditedOutline = st.Title, st.Outline, st.EditedOutline
	case *OutlineStage:
		snap.Params = st.Params.clone()
		snap.Title, snap.Outline, snap.EditedOutline = st.Title, st.Outline, st.EditedOutline
	case *GeneratingStage:
		snap.Params = st.Params.clone()
		snap.Title, snap.Outline, snap.EditedOutline = st.Title, st.Outline, st.EditedOutline
		snap.Sections = append([]string{}, st.Sections...)
		snap.TotalSections = len(st.Segments)
		snap.Progress = st.Progress
	}
	return snap
}

// Watch returns a channel that receives the latest snapshot after every state
// change. Slow readers only see the newest one. Call cancel when done.
func (r *Run) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	r.mu.Lock()
	r.watchers[ch] = struct{}{}
	ch <- r.snapshotLocked()
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.watchers, ch)
			r.mu.Unlock()
		})
	}
}

// changedLocked must be called with r.mu held after every mutation.
func (r *Run) changedLocked(now time.Time) {
	r.touched = now
	if len(r.watchers) == 0 {
		return
	}
	snap := r.snapshotLocked()
	for ch := range r.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (r *Run) idleSince() (time.Time, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touched, r.busy, r.postID != ""
}
