package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"vidgrab/pkg/util"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/samber/do"
)

var progressBuffer = 16

var ErrBusy = errors.New("an action of this kind is already running")

// Kind names one long-running action type. At most one job per kind may be
// active at a time; a second dispatch is rejected, not queued.
type Kind string

const (
	KindMetadata  Kind = "metadata"
	KindThumbnail Kind = "thumbnail"
	KindMedia     Kind = "media"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Progress is one event on a job's progress channel.
type Progress struct {
	Percent       float64
	Indeterminate bool
	Message       string
}

// Fn is the body of a job. It may call report zero or more times and must
// return once; the return becomes the job's single terminal event.
type Fn func(ctx context.Context, report func(Progress)) (string, error)

// Snapshot is a point-in-time view of a job.
type Snapshot struct {
	ID            string     `json:"id"`
	Kind          Kind       `json:"kind"`
	Status        Status     `json:"status"`
	Percent       float64    `json:"percent"`
	Indeterminate bool       `json:"indeterminate"`
	Message       string     `json:"message,omitempty"`
	Result        string     `json:"result,omitempty"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

type terminal struct {
	result string
	err    error
}

type job struct {
	m    sync.Mutex
	snap Snapshot
}

// Runner owns all background workers. Workers talk back exclusively through
// a progress channel and a one-shot terminal channel; the collector drains
// progress fully before consuming the terminal event, so observers always
// see progress* followed by exactly one terminal transition.
type Runner struct {
	rootCtx context.Context

	m      sync.RWMutex
	active map[Kind]string
	byID   map[string]*job
}

func New(di *do.Injector) (*Runner, error) {
	return &Runner{
		rootCtx: do.MustInvoke[context.Context](di),
		active:  make(map[Kind]string),
		byID:    make(map[string]*job),
	}, nil
}

// Dispatch starts fn on a fresh worker. Returns ErrBusy while a job of the
// same kind is still running. There is no cancellation: a dispatched job
// runs to completion or failure.
func (r *Runner) Dispatch(kind Kind, fn Fn) (Snapshot, error) {
	r.m.Lock()

	if _, busy := r.active[kind]; busy {
		r.m.Unlock()
		return Snapshot{}, ErrBusy
	}

	id := uuid.NewString()
	j := &job{snap: Snapshot{
		ID:            id,
		Kind:          kind,
		Status:        StatusRunning,
		Indeterminate: true,
		StartedAt:     time.Now(),
	}}
	r.active[kind] = id
	r.byID[id] = j
	r.m.Unlock()

	ctx := context.WithValue(r.rootCtx, util.JobIDContextKey, id)

	progressCh := make(chan Progress, progressBuffer)
	terminalCh := make(chan terminal, 1)

	go func() {
		var result string
		var err error

		// The terminal event must be delivered even if fn panics,
		// otherwise the kind would stay busy forever.
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					sentry.CurrentHub().RecoverWithContext(ctx, rec)
					err = fmt.Errorf("worker panic: %v", rec)
				}
			}()

			result, err = fn(ctx, func(p Progress) {
				progressCh <- p
			})
		}()

		close(progressCh)
		terminalCh <- terminal{result: result, err: err}
	}()

	go r.collect(ctx, kind, j, progressCh, terminalCh)

	return j.snapshot(), nil
}

func (r *Runner) collect(ctx context.Context, kind Kind, j *job, progressCh <-chan Progress, terminalCh <-chan terminal) {
	for p := range progressCh {
		j.m.Lock()
		j.snap.Percent = p.Percent
		j.snap.Indeterminate = p.Indeterminate
		if p.Message != "" {
			j.snap.Message = p.Message
		}
		j.m.Unlock()
	}

	term := <-terminalCh
	now := time.Now()

	// Release the kind before publishing the terminal state, so anyone who
	// observes the finished job can immediately dispatch the next one.
	r.m.Lock()
	delete(r.active, kind)
	r.m.Unlock()

	j.m.Lock()
	j.snap.FinishedAt = &now
	if term.err != nil {
		j.snap.Status = StatusFailed
		j.snap.Error = term.err.Error()
	} else {
		j.snap.Status = StatusSucceeded
		j.snap.Result = term.result
		j.snap.Percent = 100
		j.snap.Indeterminate = false
	}
	j.m.Unlock()

	if term.err != nil {
		sentry.CaptureException(term.err)
		slog.ErrorContext(ctx, "Job failed",
			slog.String("kind", string(kind)),
			slog.Any("error", term.err),
		)
	} else {
		slog.InfoContext(ctx, "Job finished",
			slog.String("kind", string(kind)),
			slog.String("result", term.result),
		)
	}
}

// Get returns a snapshot of the job with the given id.
func (r *Runner) Get(id string) (Snapshot, bool) {
	r.m.RLock()
	j, ok := r.byID[id]
	r.m.RUnlock()

	if !ok {
		return Snapshot{}, false
	}

	return j.snapshot(), true
}

// Busy reports whether a job of the given kind is currently running.
func (r *Runner) Busy(kind Kind) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, busy := r.active[kind]
	return busy
}

func (j *job) snapshot() Snapshot {
	j.m.Lock()
	defer j.m.Unlock()

	return j.snap
}
