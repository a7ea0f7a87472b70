package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/server/blobs"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(id, name string) *models.SpaceContent {
	return &models.SpaceContent{
		Space: models.Space{ID: id, Name: name, Kind: models.KindScan, CreatedDate: "Oct 17, 2026"},
		After: png(1), Before: models.Image{MimeType: "image/jpeg", Data: []byte{2}},
	}
}

func TestSpaces_CreateList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.spaces.Create(ctx, "u1", scan("s1", "Desk")))
	dream := &models.SpaceContent{
		Space: models.Space{ID: "s2", Name: "Dream", Kind: models.KindDream},
		After: png(9),
	}
	require.NoError(t, e.spaces.Create(ctx, "u1", dream))

	list, err := e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "s2", list[0].ID)
	assert.True(t, list[0].Before.IsZero())
	assert.Empty(t, list[0].BeforeKey)

	assert.Equal(t, "u1", list[1].OwnerID)
	assert.Equal(t, []byte{1}, list[1].After.Data)
	assert.Equal(t, "image/jpeg", list[1].Before.MimeType)
	assert.True(t, strings.HasPrefix(list[1].BeforeKey, "u1/s1/"+blobs.SlotBefore+"-"), list[1].BeforeKey)

	other, err := e.spaces.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSpaces_CreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.SpaceContent)
	}{
		{"no id", func(c *models.SpaceContent) { c.ID = "" }},
		{"blank name", func(c *models.SpaceContent) { c.Name = "  " }},
		{"bad kind", func(c *models.SpaceContent) { c.Kind = "sketch" }},
		{"no after image", func(c *models.SpaceContent) { c.After = models.Image{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := scan("s1", "Desk")
			tt.mutate(c)
			require.ErrorIs(t, e.spaces.Create(ctx, "u1", c), common.ErrorValidation)
		})
	}
	assert.Equal(t, 0, e.blobs.Len())
}

func TestSpaces_CreateRowFailureRemovesImages(t *testing.T) {
	e := newEnv(t)
	e.mgr.spaces.failPut = true

	require.Error(t, e.spaces.Create(context.Background(), "u1", scan("s1", "Desk")))
	assert.Equal(t, 0, e.blobs.Len())
}

func TestSpaces_Update(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.spaces.Create(ctx, "u1", scan("s1", "Desk")))

	require.NoError(t, e.spaces.Update(ctx, "u1", "s1", SpaceUpdate{Name: "Office"}))
	note := "keep the lamp"
	require.NoError(t, e.spaces.Update(ctx, "u1", "s1", SpaceUpdate{Note: &note}))

	list, err := e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Office", list[0].Name)
	assert.Equal(t, "keep the lamp", list[0].Note)

	require.NoError(t, e.spaces.Update(ctx, "u1", "s1", SpaceUpdate{After: png(7)}))
	list, err = e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, list[0].After.Data)
	assert.Equal(t, "Office", list[0].Name)
	assert.Equal(t, 2, e.blobs.Len(), "replaced image is removed")

	empty := ""
	require.NoError(t, e.spaces.Update(ctx, "u1", "s1", SpaceUpdate{Note: &empty}))
	list, err = e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list[0].Note)
	assert.Equal(t, "Office", list[0].Name)

	require.ErrorIs(t, e.spaces.Update(ctx, "u1", "nope", SpaceUpdate{Name: "x"}), common.ErrorNotFound)
}

func TestSpaces_CreateTakenIDKeepsExisting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.spaces.Create(ctx, "u1", scan("s1", "Kitchen")))

	dup := scan("s1", "Garage")
	dup.After = png(5)
	require.ErrorIs(t, e.spaces.Create(ctx, "u1", dup), common.ErrorAlreadyExists)

	list, err := e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kitchen", list[0].Name)
	assert.Equal(t, []byte{1}, list[0].After.Data)
	assert.Equal(t, 2, e.blobs.Len())
}

func TestSpaces_UpdateRowFailureKeepsPriorState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.spaces.Create(ctx, "u1", scan("s1", "Desk")))
	before, err := e.spaces.List(ctx, "u1")
	require.NoError(t, err)

	e.mgr.spaces.failPut = true
	require.Error(t, e.spaces.Update(ctx, "u1", "s1", SpaceUpdate{Name: "Office", After: png(7)}))
	e.mgr.spaces.failPut = false

	after, err := e.spaces.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, e.blobs.Len())
}

func TestSpaces_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.spaces.Create(ctx, "u1", scan("s1", "Desk")))
	require.Equal(t, 2, e.blobs.Len())

	require.NoError(t, e.spaces.Delete(ctx, "u1", "s1"))
	assert.Equal(t, 0, e.blobs.Len())

	require.ErrorIs(t, e.spaces.Delete(ctx, "u1", "s1"), common.ErrorNotFound)
}
