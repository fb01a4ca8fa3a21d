package effect

import (
	"fmt"
	"strings"

	"github.com/chwjbn/vector-hub/glog"
	"github.com/cockroachdb/errors"
)

// ShaderCompileError is returned when a single shader stage fails to compile.
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("SHADER::COMPILE_FAILURE::%s: %s", e.Stage, e.Log)
}

// ShaderLinkError is returned when compiled stages fail to link.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("GlProgram::LINKING_FAILURE: %s", e.Log)
}

// UniformNotFoundError is returned when a linked program has no active uniform
// with the requested name.
type UniformNotFoundError struct {
	Name string
}

func (e *UniformNotFoundError) Error() string {
	return fmt.Sprintf("uniform=[%s] not found in linked program", e.Name)
}

// FramebufferIncompleteError is returned when a framebuffer does not report
// complete after its attachments were set.
type FramebufferIncompleteError struct {
	Target string
	Status uint32
}

func (e *FramebufferIncompleteError) Error() string {
	return fmt.Sprintf("framebuffer=[%s] incomplete status=[%s]", e.Target, FramebufferStatusName(e.Status))
}

// ResizeFailedError reports a resize that could not produce a usable frame.
// It is recoverable: the frame is skipped and the resize retried.
type ResizeFailedError struct {
	Width  int
	Height int
	Cause  error
}

func (e *ResizeFailedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("resize to [%dx%d] failed", e.Width, e.Height)
	}
	return fmt.Sprintf("resize to [%dx%d] failed: %v", e.Width, e.Height, e.Cause)
}

func (e *ResizeFailedError) Unwrap() error {
	return e.Cause
}

// PresentationError reports a lost surface or a failed buffer swap.
type PresentationError struct {
	Cause error
}

func (e *PresentationError) Error() string {
	return fmt.Sprintf("present frame error:[%v]", e.Cause)
}

func (e *PresentationError) Unwrap() error {
	return e.Cause
}

// IsRecoverable reports whether err only costs the current frame.
func IsRecoverable(err error) bool {
	var resizeErr *ResizeFailedError
	return errors.As(err, &resizeErr)
}

// pollGlErrors drains the GL error queue and logs what it finds.
// It never changes control flow.
func pollGlErrors(dev Device, where string) int {
	var names []string
	for i := 0; i < 16; i++ {
		code := dev.GetError()
		if code == NoError {
			break
		}
		names = append(names, ErrorName(code))
	}
	if len(names) > 0 {
		glog.WarnF("gl error after [%s]: %s", where, strings.Join(names, ","))
	}
	return len(names)
}
