package machine

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/library"
	"github.com/dmitrijs2005/ordo/internal/client/models"
)

var saveScreens = []models.Screen{models.ScreenResult, models.ScreenStepFocus, models.ScreenCompletion}

// RequestSave opens the name prompt for the current result.
func (m *Machine) RequestSave() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(saveScreens...); err != nil {
		return err
	}
	if m.after.IsZero() {
		return ErrValidation
	}
	m.setScreen(models.ScreenSaveSpace)
	return nil
}

// ConfirmSave stores the current result under name. A blank name is
// ignored.
func (m *Machine) ConfirmSave(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.expect(models.ScreenSaveSpace)
	}
	return m.save(ctx, name, models.ScreenSaveSpace)
}

// QuickSave stores the current result as "Space N" without asking for a
// name.
func (m *Machine) QuickSave(ctx context.Context) error {
	return m.save(ctx, fmt.Sprintf("Space %d", m.library.Len()+1), saveScreens...)
}

func (m *Machine) save(ctx context.Context, name string, from ...models.Screen) error {
	if err := m.beginSync(from...); err != nil {
		return err
	}
	defer m.endSync()

	m.mu.Lock()
	d := library.Draft{
		Name:        name,
		AfterImage:  m.after,
		BeforeImage: m.captured,
		Kind:        m.kind,
	}
	m.mu.Unlock()

	if d.AfterImage.IsZero() {
		return ErrValidation
	}

	saved, err := m.library.Create(ctx, d)
	if err != nil {
		m.log.Warn(ctx, "save failed", "error", err)
		m.mu.Lock()
		m.setNotice(NoticePersistence, "Could not save this space. Please try again.")
		m.mu.Unlock()
		return err
	}

	m.log.Info(ctx, "space saved", "id", saved.ID, "kind", saved.Kind)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaceID = saved.ID
	m.setScreen(models.ScreenLibrary)
	return nil
}

// OpenSpace shows a saved space on the result screen. Saved spaces carry
// no steps.
func (m *Machine) OpenSpace(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenLibrary); err != nil {
		return err
	}

	sp, ok := m.library.Get(id)
	if !ok {
		return ErrSpaceNotFound
	}

	m.resetWork()
	m.captured = sp.BeforeImage
	m.after = sp.AfterImage
	m.kind = sp.Kind
	m.spaceID = sp.ID
	m.setScreen(models.ScreenResult)
	return nil
}

// RenameSpace ignores whitespace-only names without touching the store.
func (m *Machine) RenameSpace(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.expect(models.ScreenLibrary)
	}
	return m.mutateSpace(ctx, "rename", func(ctx context.Context) error {
		return m.library.Rename(ctx, id, name)
	})
}

func (m *Machine) EditNote(ctx context.Context, id, note string) error {
	return m.mutateSpace(ctx, "edit note", func(ctx context.Context) error {
		return m.library.SetNote(ctx, id, note)
	})
}

// DeleteSpace removes a space; deleting an unknown id succeeds.
func (m *Machine) DeleteSpace(ctx context.Context, id string) error {
	return m.mutateSpace(ctx, "delete", func(ctx context.Context) error {
		return m.library.Delete(ctx, id)
	})
}

func (m *Machine) mutateSpace(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := m.beginSync(models.ScreenLibrary); err != nil {
		return err
	}
	defer m.endSync()

	if err := fn(ctx); err != nil {
		m.log.Warn(ctx, "space update failed", "op", op, "error", err)
		m.mu.Lock()
		m.setNotice(NoticePersistence, fmt.Sprintf("Could not %s this space.", op))
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.notice = nil
	m.mu.Unlock()
	return nil
}
