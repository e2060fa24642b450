package pipeline

import (
	"sync"

	"github.com/rotisserie/eris"
)

// ErrAlreadyRunning is returned by TryStart while a run is in flight.
// Concurrent starts are rejected, never queued.
var ErrAlreadyRunning = eris.New("pipeline: run already in progress")

// Progress is one progress event emitted by a stage runner.
type Progress struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// ProgressFunc receives progress events. It is invoked synchronously from
// whichever worker finishes a unit of work, so implementations must be safe
// to call concurrently.
type ProgressFunc func(Progress)

// Snapshot is a point-in-time view of the run state, readable mid-run.
type Snapshot struct {
	Running   bool   `json:"running"`
	Stage     string `json:"stage"`
	Progress  int    `json:"progress"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// RunState owns the single-run-at-a-time gate and the externally visible
// run status. All access goes through the mutex; the unguarded flag this
// replaces allowed double starts under races.
type RunState struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewRunState returns an idle RunState.
func NewRunState() *RunState {
	return &RunState{}
}

// TryStart claims the run slot. It fails with ErrAlreadyRunning when a run
// is in flight; on success the state resets to a fresh running snapshot.
func (r *RunState) TryStart() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap.Running {
		return ErrAlreadyRunning
	}
	r.snap = Snapshot{Running: true}
	return nil
}

// Observe records a progress event. Wire it as the pipeline's ProgressFunc.
func (r *RunState) Observe(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Stage = p.Stage
	r.snap.Progress = p.Progress
}

// Finish releases the run slot and records the terminal stage plus the
// aggregate completed/failed tallies.
func (r *RunState) Finish(completed, failed int, runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Running = false
	r.snap.Completed = completed
	r.snap.Failed = failed
	if runErr != nil {
		r.snap.Stage = "failed"
		return
	}
	r.snap.Stage = "complete"
	r.snap.Progress = 100
}

// Snapshot returns a copy of the current state.
func (r *RunState) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}
