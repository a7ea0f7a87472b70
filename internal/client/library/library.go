// Package library keeps the signed-in user's saved spaces in memory, newest
// first, and mirrors every change to the persistence backend.
package library

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/logging"
)

// DefaultPreview is the number of spaces shown on the home screen.
const DefaultPreview = 3

var (
	ErrNoOwner   = errors.New("library is not loaded for a user")
	ErrBlankName = errors.New("space name is blank")
)

// Store is the part of the persistence backend the library needs.
type Store interface {
	ListSpaces(ctx context.Context, ownerID string) ([]models.SavedSpace, error)
	CreateSpace(ctx context.Context, s models.SavedSpace) error
	UpdateSpace(ctx context.Context, ownerID, id string, patch models.SpacePatch) error
	DeleteSpace(ctx context.Context, ownerID, id string) error
	Capacity() int
}

// Draft is a space that has not been saved yet.
type Draft struct {
	Name        string
	AfterImage  models.Image
	BeforeImage models.Image
	Kind        models.SpaceKind
	Note        string
}

type Manager struct {
	store Store
	ids   *IDGenerator
	now   func() time.Time
	log   logging.Logger

	mu      sync.RWMutex
	ownerID string
	spaces  []models.SavedSpace
}

type Option func(*Manager)

// WithClock sets the clock used for ids and creation dates.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.ids = NewIDGenerator(now)
	}
}

func NewManager(store Store, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		ids:   NewIDGenerator(time.Now),
		log:   log.With("module", "library"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Load replaces the collection with ownerID's spaces. On failure the
// collection is left empty and the error is logged and returned.
func (m *Manager) Load(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	m.ownerID = ownerID
	m.spaces = nil
	m.mu.Unlock()

	list, err := m.store.ListSpaces(ctx, ownerID)
	if err != nil {
		m.log.Warn(ctx, "library load failed", "owner", ownerID, "error", err)
		return fmt.Errorf("load library: %w", err)
	}

	m.set(ownerID, list)
	return nil
}

func (m *Manager) set(ownerID string, list []models.SavedSpace) {
	list = slices.Clone(list)
	sortNewestFirst(list)
	for _, s := range list {
		m.ids.Observe(s.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ownerID == ownerID {
		m.spaces = list
	}
}

// reload refreshes the collection from the store; it reports false and
// leaves the collection untouched when the store cannot be read.
func (m *Manager) reload(ctx context.Context, ownerID string) bool {
	list, err := m.store.ListSpaces(ctx, ownerID)
	if err != nil {
		m.log.Warn(ctx, "library reload failed", "owner", ownerID, "error", err)
		return false
	}
	m.set(ownerID, list)
	return true
}

func (m *Manager) owner() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ownerID == "" {
		return "", ErrNoOwner
	}
	return m.ownerID, nil
}

// List returns a copy of the collection, newest first.
func (m *Manager) List() []models.SavedSpace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.spaces)
}

// Recent returns at most n of the newest spaces.
func (m *Manager) Recent(n int) []models.SavedSpace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n = min(max(n, 0), len(m.spaces))
	return slices.Clone(m.spaces[:n])
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spaces)
}

func (m *Manager) Get(id string) (models.SavedSpace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.spaces {
		if s.ID == id {
			return s, true
		}
	}
	return models.SavedSpace{}, false
}

// Create persists d as a new space. An id already taken in the store is
// replaced by a fresh one once. On capped stores the oldest spaces are
// evicted afterwards; eviction failures are only logged.
func (m *Manager) Create(ctx context.Context, d Draft) (models.SavedSpace, error) {
	ownerID, err := m.owner()
	if err != nil {
		return models.SavedSpace{}, err
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return models.SavedSpace{}, ErrBlankName
	}
	kind := d.Kind
	if kind == "" {
		kind = models.KindScan
	}

	s := models.SavedSpace{
		ID:          m.ids.Next(),
		OwnerID:     ownerID,
		Name:        name,
		CreatedDate: m.now().Format(common.DisplayDateLayout),
		AfterImage:  d.AfterImage,
		BeforeImage: d.BeforeImage,
		Kind:        kind,
		Note:        d.Note,
	}

	err = m.store.CreateSpace(ctx, s)
	if errors.Is(err, common.ErrorAlreadyExists) {
		m.ids.Observe(s.ID)
		s.ID = m.ids.Next()
		err = m.store.CreateSpace(ctx, s)
	}
	if err != nil {
		return models.SavedSpace{}, fmt.Errorf("create space: %w", err)
	}

	if !m.reload(ctx, ownerID) {
		m.mu.Lock()
		m.spaces = append([]models.SavedSpace{s}, m.spaces...)
		m.mu.Unlock()
	}

	m.evict(ctx, ownerID)
	return s, nil
}

func (m *Manager) evict(ctx context.Context, ownerID string) {
	limit := m.store.Capacity()
	if limit <= 0 {
		return
	}

	m.mu.RLock()
	var excess []string
	for i := len(m.spaces) - 1; i >= limit; i-- {
		excess = append(excess, m.spaces[i].ID)
	}
	m.mu.RUnlock()

	for _, id := range excess {
		if err := m.store.DeleteSpace(ctx, ownerID, id); err != nil {
			m.log.Warn(ctx, "evicting space failed", "id", id, "error", err)
			continue
		}
		m.log.Debug(ctx, "space evicted", "id", id)
		m.remove(id)
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces = slices.DeleteFunc(m.spaces, func(s models.SavedSpace) bool { return s.ID == id })
}

func (m *Manager) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}
	return m.Update(ctx, id, models.SpacePatch{Name: &name})
}

// SetNote replaces the note of space id; an empty note clears it.
func (m *Manager) SetNote(ctx context.Context, id, note string) error {
	return m.Update(ctx, id, models.SpacePatch{Note: &note})
}

// Update merges the set fields of patch into space id.
func (m *Manager) Update(ctx context.Context, id string, patch models.SpacePatch) error {
	ownerID, err := m.owner()
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := m.store.UpdateSpace(ctx, ownerID, id, patch); err != nil {
		return fmt.Errorf("update space: %w", err)
	}

	if !m.reload(ctx, ownerID) {
		m.mu.Lock()
		for i := range m.spaces {
			if m.spaces[i].ID == id {
				m.spaces[i] = m.spaces[i].Apply(patch)
			}
		}
		m.mu.Unlock()
	}
	return nil
}

// Delete removes space id; unknown ids are not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	ownerID, err := m.owner()
	if err != nil {
		return err
	}

	if err := m.store.DeleteSpace(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete space: %w", err)
	}

	if !m.reload(ctx, ownerID) {
		m.remove(id)
	}
	return nil
}

// Clear forgets the collection and its owner.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ownerID = ""
	m.spaces = nil
}

func sortNewestFirst(list []models.SavedSpace) {
	slices.SortStableFunc(list, func(a, b models.SavedSpace) int {
		return compareIDs(b.ID, a.ID)
	})
}

// compareIDs orders numeric ids by value and falls back to string order.
func compareIDs(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}
	return cmp.Compare(a, b)
}
