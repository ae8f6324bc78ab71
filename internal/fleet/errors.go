package fleet

import (
	"errors"
	"fmt"

	"github.com/five82/flotilla/internal/orchestrator"
)

// ErrClosed is returned by operations attempted after the engine was torn down.
var ErrClosed = errors.New("dashboard closed")

// ErrLaunchInFlight is returned when a launch is requested while another is
// still waiting for the backend.
var ErrLaunchInFlight = errors.New("a launch is already in progress")

// ConflictError rejects a command for a container that already has one in
// flight. The rejected command is never sent.
type ConflictError struct {
	ID        string
	Pending   orchestrator.Action
	Requested orchestrator.Action
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("container %s already has a pending %s; %s not sent",
		orchestrator.ShortID(e.ID), e.Pending, e.Requested)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
