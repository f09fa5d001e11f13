package present

import (
	"context"

	"github.com/pkg/errors"
)

// StepResult describes what a single loop iteration did.
type StepResult int

const (
	// StepPresented means a frame was submitted, presented and waited on.
	StepPresented StepResult = iota
	// StepSkipped means recreation hit a transient extent failure, nothing was submitted.
	StepSkipped
	// StepStale means the swapchain reported out-of-date or suboptimal, it is
	// recreated next iteration. A suboptimal present still counts as a frame.
	StepStale
	// StepClosed means a close event was observed.
	StepClosed
)

func (r StepResult) String() string {
	switch r {
	case StepPresented:
		return "presented"
	case StepSkipped:
		return "skipped"
	case StepStale:
		return "stale"
	case StepClosed:
		return "closed"
	}
	return "unknown"
}

// Loop drives acquire, submit and present with one frame in flight. It is not
// safe for concurrent use, all calls must come from the thread that owns the
// window.
type Loop struct {
	manager   *Manager
	presenter Presenter
	events    EventSource

	resizePending bool
	stale         bool
	closed        bool

	frames uint64
}

func NewLoop(manager *Manager, presenter Presenter, events EventSource) *Loop {
	return &Loop{
		manager:   manager,
		presenter: presenter,
		events:    events,
	}
}

// Frames is the number of frames presented so far.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Closed reports whether a close event has been observed.
func (l *Loop) Closed() bool {
	return l.closed
}

// Step runs one iteration of the frame loop. A non-nil error is fatal and
// carries the failing stage as a *StageError.
func (l *Loop) Step() (StepResult, error) {
	if l.closed {
		return StepClosed, nil
	}

	for _, ev := range l.events.PollEvents() {
		switch ev.Kind {
		case EventClose:
			l.closed = true
		case EventResize:
			l.resizePending = true
		}
	}
	if l.closed {
		return StepClosed, nil
	}

	if l.resizePending || l.stale {
		l.manager.Invalidate()
		err := l.manager.Recreate(l.resizePending)
		if errors.Is(err, ErrExtentNotSupported) {
			return StepSkipped, nil
		}
		if err != nil {
			return StepSkipped, err
		}
		l.resizePending = false
		l.stale = false
	}

	gen := l.manager.Current()

	index, suboptimal, err := l.presenter.Acquire(gen.Swapchain)
	if err != nil {
		if IsStale(err) {
			l.stale = true
			return StepStale, nil
		}
		return StepSkipped, withStage(StageAcquire, err)
	}
	if suboptimal {
		l.stale = true
	}

	if index < 0 || index >= len(gen.CommandBuffers) {
		return StepSkipped, &StageError{Stage: StageSubmit, Err: errors.Errorf("image index %d out of range for generation %d with %d command buffers", index, gen.ID, len(gen.CommandBuffers))}
	}

	flush, err := l.presenter.Submit(gen.Swapchain, index, gen.CommandBuffers[index])
	if flush != nil {
		if werr := flush.Wait(); werr != nil && (err == nil || IsStale(err)) {
			err = withStage(StageFlush, werr)
		}
	}
	if err != nil {
		if IsStale(err) {
			// suboptimal still put the image on screen
			if errors.Is(err, ErrSuboptimal) {
				l.frames++
			}
			l.stale = true
			return StepStale, nil
		}
		return StepSkipped, withStage(StageSubmit, err)
	}

	l.frames++
	return StepPresented, nil
}

// Run steps the loop until a close event, a fatal error or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := l.Step()
		if err != nil {
			return err
		}
		if res == StepClosed {
			return nil
		}
	}
}
