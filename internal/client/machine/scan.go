package machine

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ordo/internal/client/capture"
	"github.com/dmitrijs2005/ordo/internal/client/models"
)

const cameraDeniedMessage = "Camera access is needed to scan a space. Allow it and try again."

// requestCamera acquires a stream and enters scan. On denial the machine
// goes (or stays) home and holds nothing.
func (m *Machine) requestCamera(ctx context.Context, from models.Screen) error {
	m.mu.Lock()
	if err := m.expect(from); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.cameraPending {
		m.mu.Unlock()
		return ErrBusy
	}
	m.cameraPending = true
	m.mu.Unlock()

	stream, err := m.camera.Request(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cameraPending = false

	if err != nil {
		m.log.Info(ctx, "camera unavailable", "error", err)
		if m.screen != models.ScreenHome {
			m.setScreen(models.ScreenHome)
		}
		m.setNotice(NoticeCapability, cameraDeniedMessage)
		return err
	}

	if m.screen != from {
		// The user navigated away while the camera was starting.
		if rerr := stream.Release(); rerr != nil {
			m.log.Warn(ctx, "camera release failed", "error", rerr)
		}
		return ErrInvalidTransition
	}

	m.stream = stream
	m.setScreen(models.ScreenScan)
	return nil
}

func (m *Machine) StartScan(ctx context.Context) error {
	return m.requestCamera(ctx, models.ScreenHome)
}

// Shutter captures a still. A frame that is not ready keeps the machine on
// scan.
func (m *Machine) Shutter(ctx context.Context) error {
	m.mu.Lock()
	if err := m.expect(models.ScreenScan); err != nil {
		m.mu.Unlock()
		return err
	}
	stream := m.stream
	m.mu.Unlock()

	if stream == nil {
		return capture.ErrReleased
	}

	img, err := stream.Capture(ctx)
	if err != nil {
		if !errors.Is(err, capture.ErrFrameNotReady) {
			m.log.Warn(ctx, "capture failed", "error", err)
		}
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenScan); err != nil {
		return err
	}
	m.resetWork()
	m.captured = img
	m.kind = models.KindScan
	m.setScreen(models.ScreenConfirmation)
	return nil
}

// Retake discards the captured image and re-enters scan.
func (m *Machine) Retake(ctx context.Context) error {
	m.mu.Lock()
	if err := m.expect(models.ScreenConfirmation); err != nil {
		m.mu.Unlock()
		return err
	}
	m.captured = models.Image{}
	m.mu.Unlock()

	return m.requestCamera(ctx, models.ScreenConfirmation)
}

func (m *Machine) ConfirmCapture() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenConfirmation); err != nil {
		return err
	}
	if m.captured.IsZero() {
		return ErrValidation
	}
	m.setScreen(models.ScreenStyleSelection)
	return nil
}
