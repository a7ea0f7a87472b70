// Package capture is the boundary between the state machine and a camera.
//
// A Camera hands out at most one Stream per Request. The state machine holds
// the Stream for exactly as long as the scan screen is shown and releases it
// on every exit path.
package capture

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrFrameNotReady    = errors.New("camera frame not ready")
	ErrReleased         = errors.New("camera stream released")
)

type Camera interface {
	// Request acquires the capability. It returns ErrPermissionDenied
	// (possibly wrapped) when access is refused.
	Request(ctx context.Context) (Stream, error)
}

type Stream interface {
	// Capture returns a downscaled JPEG still, or ErrFrameNotReady.
	Capture(ctx context.Context) (models.Image, error)
	// Release frees the capability. Calling it more than once is safe.
	Release() error
}
