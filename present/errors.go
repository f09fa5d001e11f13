package present

import (
	"github.com/pkg/errors"
)

// Stage names the part of the frame pipeline an error came from.
type Stage string

const (
	StageSwapchain     Stage = "swapchain creation"
	StageRenderPass    Stage = "render pass creation"
	StageFramebuffer   Stage = "framebuffer creation"
	StagePipeline      Stage = "pipeline creation"
	StageCommandBuffer Stage = "command buffer recording"
	StageAcquire       Stage = "acquire"
	StageSubmit        Stage = "submit"
	StagePresent       Stage = "present"
	StageFlush         Stage = "flush"
)

var (
	// ErrOutOfDate means the swapchain can no longer be presented to.
	ErrOutOfDate = errors.New("swapchain out of date")

	// ErrSuboptimal means the swapchain still works but no longer matches the surface.
	ErrSuboptimal = errors.New("swapchain suboptimal")

	// ErrExtentNotSupported is returned by Swapchain.Recreate when the surface
	// momentarily reports an extent that cannot be used, usually mid-resize or
	// while minimized.
	ErrExtentNotSupported = errors.New("swapchain extent not supported")
)

// StageError is a fatal error tagged with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause see through the stage tag.
func (e *StageError) Cause() error {
	return e.Err
}

// IsStale reports whether err means the swapchain needs to be recreated.
func IsStale(err error) bool {
	return errors.Is(err, ErrOutOfDate) || errors.Is(err, ErrSuboptimal)
}

// withStage tags err with stage unless it already carries one.
func withStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}
