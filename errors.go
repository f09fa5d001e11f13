package vkframe

import (
	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ResultError is a failed Vulkan call.
type ResultError struct {
	Op     string
	Result vk.Result
}

func (e *ResultError) Error() string {
	if err := vk.Error(e.Result); err != nil {
		return e.Op + ": " + err.Error()
	}
	return e.Op + ": unexpected result"
}

// checkResult turns the result of op into an error. Out-of-date and
// suboptimal results map to the present package sentinels so the frame loop
// can tell them apart from fatal failures.
func checkResult(op string, res vk.Result) error {
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate:
		return errors.Wrap(present.ErrOutOfDate, op)
	case vk.Suboptimal:
		return errors.Wrap(present.ErrSuboptimal, op)
	}
	return &ResultError{Op: op, Result: res}
}
