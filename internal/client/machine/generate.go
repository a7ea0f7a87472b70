package machine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/generation"
	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// generationNotice turns a generation error into the message shown to the
// user. Provider payloads never reach the notice.
func generationNotice(err error) *Notice {
	var quota *generation.QuotaError
	switch {
	case errors.As(err, &quota):
		msg := "The image service is busy right now."
		if quota.RetryAfter > 0 {
			msg = fmt.Sprintf("The image service is busy. Try again in %s.", quota.RetryAfter.Round(time.Second))
		}
		return &Notice{Kind: NoticeQuota, Message: msg, RetryAfter: quota.RetryAfter}
	case errors.Is(err, generation.ErrQuotaExceeded):
		return &Notice{Kind: NoticeQuota, Message: "The image service is busy right now."}
	case generation.IsConfigError(err):
		return &Notice{Kind: NoticeConfig, Message: "The image service is not configured. Set a valid API key."}
	case errors.Is(err, generation.ErrAuthInvalid):
		return &Notice{Kind: NoticeAuth, Message: "The image service rejected the API key. Check your configuration."}
	default:
		return &Notice{Kind: NoticeGeneration, Message: "We could not generate a new look this time."}
	}
}

// beginGeneration checks the screen and the key, then takes the generation
// guard and enters processing. Must be called with mu held.
func (m *Machine) beginGeneration(from models.Screen) error {
	if err := m.expect(from); err != nil {
		return err
	}
	if m.isGenerating {
		return ErrBusy
	}
	if err := m.generator.CheckConfig(); err != nil {
		m.notice = generationNotice(err)
		return err
	}
	m.isGenerating = true
	m.steps = nil
	m.stepIndex = 0
	m.setScreen(models.ScreenProcessing)
	return nil
}

// PickStyle runs the image-to-image generation for the captured image. Any
// failure still lands on result, with the captured image as the after
// image and the default steps.
func (m *Machine) PickStyle(ctx context.Context, style models.OrganizingStyle) error {
	if !style.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, models.ErrUnknownStyle)
	}

	m.mu.Lock()
	if err := m.beginGeneration(models.ScreenStyleSelection); err != nil {
		m.mu.Unlock()
		return err
	}
	m.style = style
	m.after = models.Image{}
	before := m.captured
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.isGenerating = false
		m.mu.Unlock()
	}()

	res, err := m.generator.Transform(ctx, before, style)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.kind = models.KindScan
	m.viewMode = models.ViewAfter
	m.spaceID = ""

	if err != nil {
		m.log.Warn(ctx, "transform failed", "style", style, "error", err)
		m.after = before
		m.steps = models.DefaultSteps()
		m.setScreen(models.ScreenResult)
		m.notice = generationNotice(err)
		return err
	}

	m.after = res.Image
	if m.after.IsZero() {
		m.after = before
	}
	m.steps = res.Steps
	if len(m.steps) != models.StepCount {
		m.steps = models.DefaultSteps()
	}
	m.setScreen(models.ScreenResult)
	return nil
}

func (m *Machine) OpenInspiration() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenHome); err != nil {
		return err
	}
	m.setScreen(models.ScreenInspiration)
	return nil
}

// Imagine generates a dream space from a text prompt. A dream space has no
// before image and no steps. Failures return to inspiration.
func (m *Machine) Imagine(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)

	m.mu.Lock()
	if prompt == "" {
		err := m.expect(models.ScreenInspiration)
		m.mu.Unlock()
		return err
	}
	if err := m.beginGeneration(models.ScreenInspiration); err != nil {
		m.mu.Unlock()
		return err
	}
	m.prompt = prompt
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.isGenerating = false
		m.mu.Unlock()
	}()

	res, err := m.generator.Imagine(ctx, prompt)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil && res.Image.IsZero() {
		err = fmt.Errorf("%w: no image returned", generation.ErrGeneration)
	}
	if err != nil {
		m.log.Warn(ctx, "imagine failed", "error", err)
		m.setScreen(models.ScreenInspiration)
		m.notice = generationNotice(err)
		return err
	}

	m.captured = models.Image{}
	m.after = res.Image
	m.kind = models.KindDream
	m.viewMode = models.ViewAfter
	m.spaceID = ""
	m.steps = nil
	m.setScreen(models.ScreenResult)
	return nil
}
